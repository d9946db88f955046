// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package goid extracts the current goroutine's id.
//
// The id is the key under which a goroutine's store is registered, so ID()
// sits on the measurement hot path and must be cheap:
//
//   - Fast path (amd64/arm64, Go 1.23-1.25): read the goid field directly
//     from the runtime.g struct at a verified offset (~2ns). See
//     goid_fast.go and the assembly stubs.
//   - Fallback (everything else): parse the first line of runtime.Stack
//     output (~1.5µs). Correct on every platform and Go version.
//
// The fast path is guarded by build tags so a Go release that changes the
// g struct layout silently falls back to the slow path instead of reading
// garbage. tools/goid_offset.go verifies the offset against a local toolchain.
package goid

import "runtime"

// ID returns the current goroutine's id. Always positive for a live
// goroutine; 0 only if stack parsing fails, which no supported runtime
// produces.
func ID() int64 {
	return idFast()
}

// idSlow extracts the goroutine id by parsing runtime.Stack output.
// Universal fallback; also used by the fast path if it ever reads a nil g.
func idSlow() int64 {
	// Only the header line is needed: "goroutine 123 [running]:".
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseID(buf[:n])
}

// parseID extracts the numeric id from a stack trace header.
// Returns 0 when the buffer does not start with "goroutine <n>".
func parseID(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}

	var id int64
	for i := len(prefix); i < len(buf); i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
