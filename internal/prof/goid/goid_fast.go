// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build go1.23 && !go1.26 && (amd64 || arm64)

// Fast goroutine id extraction for amd64/arm64.
//
// The gGoidOffset constant comes from the per-version files
// (goid_go123.go, goid_go124.go, goid_go125.go), each guarded by a build
// tag pinning exactly one Go minor release. A new Go release excludes
// this file via !go1.26 and lands on the slow path; widening the range
// requires re-verifying the offset with tools/goid_offset.go and adding
// a new goid_go1NN.go.

package goid

import "unsafe"

// getg returns the current goroutine's g struct pointer.
// Implemented in assembly (goid_amd64.s, goid_arm64.s).
//
//go:noescape
func getg() uintptr

// idFast reads the goid field straight from the g struct.
//
// The g struct is never moved by the GC, the pointer comes straight from
// the runtime's TLS slot (amd64) or g register (arm64), and only a read is
// performed, so the uintptr arithmetic below is safe.
//
//go:nosplit
//go:nocheckptr
func idFast() int64 {
	g := getg()
	if g == 0 {
		return idSlow()
	}

	//nolint:gosec // intentional unsafe read of a pinned runtime struct
	return int64(*(*uint64)(unsafe.Pointer(g + gGoidOffset)))
}
