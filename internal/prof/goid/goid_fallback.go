// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !go1.23 || go1.26 || !(amd64 || arm64)

package goid

// idFast delegates to the stack-parsing slow path on platforms or Go
// versions where the g struct layout has not been verified. The name is
// kept for symmetry with goid_fast.go.
func idFast() int64 {
	return idSlow()
}
