// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build go1.25 && !go1.26 && (amd64 || arm64)

// Go 1.25 specific goid offset.
//
// The g struct layout up to goid is unchanged from Go 1.24, so goid stays
// at offset 160.
//
// g struct layout (Go 1.25, amd64/arm64):
//
//	Field          Size    Offset
//	-----          ----    ------
//	stack          16      0
//	stackguard0    8       16
//	stackguard1    8       24
//	_panic         8       32
//	_defer         8       40
//	m              8       48
//	sched (gobuf)  56      56   (7 words: sp, pc, g, ctxt, ret, lr, bp)
//	syscallsp      8       112
//	syscallpc      8       120
//	syscallbp      8       128
//	stktopsp       8       136
//	param          8       144
//	atomicstatus   4       152
//	stackLock      4       156
//	goid           8       160  <- TARGET

package goid

// gGoidOffset for Go 1.25 is 160 bytes, verified with tools/goid_offset.go.
const gGoidOffset = 160
