// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockprof

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/blockprof/blockprof/internal/prof/engine"
)

// WrapFunc returns fn instrumented as a block on trackIdx. The call site
// is registered once, at wrap time; every invocation of the returned
// function then records one hit with its elapsed wall time.
//
// If name is empty it is derived from fn's function name. A panic inside
// fn propagates unchanged, with the elapsed time up to the panic still
// recorded.
//
// Invalid arguments (negative track, nil fn) and a globally disabled
// process both yield fn unchanged.
func (p *Profiler) WrapFunc(trackIdx int, name string, fn func()) func() {
	meta, ok := p.wrapSite(trackIdx, name, fn)
	if !ok {
		return fn
	}
	e := p.eng
	return func() {
		if !e.ShouldRecord(meta.TrackIdx) {
			fn()
			return
		}
		st := e.StoreFor()
		start := e.Now()
		defer func() {
			e.Record(st, meta, elapsed(start, e.Now()))
		}()
		fn()
	}
}

// Wrap is the value-returning counterpart of [Profiler.WrapFunc] for
// functions of the form func() T.
func Wrap[T any](p *Profiler, trackIdx int, name string, fn func() T) func() T {
	meta, ok := p.wrapSite(trackIdx, name, fn)
	if !ok {
		return fn
	}
	e := p.eng
	return func() T {
		if !e.ShouldRecord(meta.TrackIdx) {
			return fn()
		}
		st := e.StoreFor()
		start := e.Now()
		defer func() {
			e.Record(st, meta, elapsed(start, e.Now()))
		}()
		return fn()
	}
}

// wrapSite validates the wrap arguments and resolves the call site. The
// caller of WrapFunc/Wrap is two frames up.
func (p *Profiler) wrapSite(trackIdx int, name string, fn any) (engine.BlockMeta, bool) {
	if !engine.IsGlobalEnabled() {
		return engine.BlockMeta{}, false
	}
	if trackIdx < 0 {
		p.eng.Logger().Error("wrap rejected: negative track index",
			"profiler", p.Name(), "track", trackIdx, "name", name)
		return engine.BlockMeta{}, false
	}
	v := reflect.ValueOf(fn)
	if v.IsNil() {
		p.eng.Logger().Error("wrap rejected: nil function",
			"profiler", p.Name(), "track", trackIdx, "name", name)
		return engine.BlockMeta{}, false
	}
	if name == "" {
		name = funcName(v.Pointer())
	}

	_, file, line, _ := runtime.Caller(2)
	return p.eng.ResolveWrapSite(trackIdx, name, file, line), true
}

// funcName derives a short display name from a function's entry pc:
// "github.com/acme/app.processData" becomes "processData".
func funcName(pc uintptr) string {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "anonymous"
	}
	name := fn.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// elapsed guards against custom clocks stepping backwards.
func elapsed(start, end int64) uint64 {
	if end < start {
		return 0
	}
	return uint64(end - start)
}
