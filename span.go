// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockprof

import (
	"runtime"

	"github.com/blockprof/blockprof/internal/prof/engine"
	"github.com/blockprof/blockprof/internal/prof/store"
)

// Span is an open scoped block started by [Profiler.Block]. Call End
// exactly once to record the elapsed time; the zero Span is inert and
// End on it is a no-op.
type Span struct {
	eng   *engine.Profiler
	st    *store.Store
	meta  engine.BlockMeta
	start int64
}

// Block opens a scoped block named name on trackIdx at the caller's
// source location. The idiomatic form measures to the end of the
// enclosing function on every exit path, including panics:
//
//	defer p.Block(1, "database_query").End()
//
// For a narrower region, End explicitly:
//
//	s := p.Block(1, "parse")
//	parse(input)
//	s.End()
//
// Distinct call sites with the same track and name are distinct blocks.
// Invalid arguments (negative track, empty name) yield an inert Span and
// an error log; the surrounding code is never disturbed.
func (p *Profiler) Block(trackIdx int, name string) Span {
	e := p.eng
	if !engine.IsGlobalEnabled() {
		return Span{}
	}
	if trackIdx < 0 || name == "" {
		e.Logger().Error("block rejected: invalid arguments",
			"profiler", p.Name(), "track", trackIdx, "name", name)
		return Span{}
	}

	var pcs [1]uintptr
	runtime.Callers(2, pcs[:])
	meta := e.ResolveScopeSite(trackIdx, name, pcs[0])

	// The site is registered either way so disabled tracks keep their
	// blocks visible; only measurement is skipped.
	if !e.ShouldRecord(trackIdx) {
		return Span{}
	}
	return Span{eng: e, st: e.StoreFor(), meta: meta, start: e.Now()}
}

// End records the span's elapsed time into the opening goroutine's
// store. End must be called from the goroutine that opened the span.
func (s Span) End() {
	if s.eng == nil {
		return
	}
	s.eng.Record(s.st, s.meta, elapsed(s.start, s.eng.Now()))
}
