//go:build ignore
// +build ignore

// This tool calculates the offset of the goid field in runtime.g, which
// the goroutine identity fast path reads directly.
// Run with: go run tools/goid_offset.go
package main

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Simplified g struct matching runtime.g field order up to goid for
// go1.23 through go1.25 on 64-bit platforms. Re-verify against
// $GOROOT/src/runtime/runtime2.go whenever a new Go release lands and
// update internal/prof/goid accordingly.
type g struct {
	stack        stack          // offset 0
	stackguard0  uintptr        // offset 16
	stackguard1  uintptr        // offset 24
	_panic       *int           // offset 32 (pointer)
	_defer       *int           // offset 40 (pointer)
	m            *int           // offset 48 (pointer)
	sched        gobuf          // offset 56
	syscallsp    uintptr        // offset 112
	syscallpc    uintptr        // offset 120
	syscallbp    uintptr        // offset 128
	stktopsp     uintptr        // offset 136
	param        unsafe.Pointer // offset 144
	atomicstatus struct {
		v uint32 // atomic wrapper - 4 bytes
	} // offset 152
	stackLock uint32 // offset 156
	goid      uint64 // offset 160
}

type stack struct {
	lo uintptr // offset 0
	hi uintptr // offset 8
}

type gobuf struct {
	sp   uintptr        // offset 0
	pc   uintptr        // offset 8
	g    uintptr        // offset 16
	ctxt unsafe.Pointer // offset 24
	ret  uintptr        // offset 32
	lr   uintptr        // offset 40
	bp   uintptr        // offset 48
}

func main() {
	var g g

	goidOffset := unsafe.Offsetof(g.goid)

	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("Architecture: %s\n", runtime.GOARCH)
	fmt.Printf("goid offset: %d bytes\n", goidOffset)
	fmt.Printf("\nMust match gGoidOffset in internal/prof/goid/goid_go1NN.go: const gGoidOffset = %d\n", goidOffset)
}
