// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockprof_test

import (
	"sync"
	"testing"
	"time"

	"github.com/blockprof/blockprof"
)

// stepClock advances a fixed amount per reading, so every measured
// region appears to take exactly step nanoseconds.
func stepClock(step int64) func() int64 {
	var t int64
	return func() int64 {
		t += step
		return t
	}
}

func onlyBlock(t *testing.T, r *blockprof.Results, trackIdx int) blockprof.BlockStats {
	t.Helper()
	tr := r.Track(trackIdx)
	if tr == nil {
		t.Fatalf("track %d missing from results", trackIdx)
	}
	if len(tr.Blocks) != 1 {
		t.Fatalf("track %d has %d blocks, want 1", trackIdx, len(tr.Blocks))
	}
	return tr.Blocks[0]
}

func TestWrapFuncRecords(t *testing.T) {
	p := blockprof.New("wrap", blockprof.WithClock(stepClock(1000)))

	calls := 0
	fn := p.WrapFunc(0, "compute", func() { calls++ })
	for i := 0; i < 5; i++ {
		fn()
	}

	if calls != 5 {
		t.Fatalf("wrapped function ran %d times, want 5", calls)
	}
	s := onlyBlock(t, p.Results(), 0)
	if s.Name != "compute" {
		t.Errorf("Name = %q, want %q", s.Name, "compute")
	}
	if s.HitCount != 5 {
		t.Errorf("HitCount = %d, want 5", s.HitCount)
	}
	if s.TotalNs != 5000 || s.MinNs != 1000 || s.MaxNs != 1000 {
		t.Errorf("total/min/max = %d/%d/%d, want 5000/1000/1000",
			s.TotalNs, s.MinNs, s.MaxNs)
	}
	if got := s.AvgNs(); got != 1000 {
		t.Errorf("AvgNs = %.0f, want 1000", got)
	}
	if s.File == "" || s.Line == 0 {
		t.Errorf("call site not captured: file=%q line=%d", s.File, s.Line)
	}
}

func sampleWorkload() {}

func TestWrapAutoName(t *testing.T) {
	p := blockprof.New("autoname", blockprof.WithClock(stepClock(10)))

	fn := p.WrapFunc(0, "", sampleWorkload)
	fn()

	s := onlyBlock(t, p.Results(), 0)
	if s.Name != "sampleWorkload" {
		t.Errorf("derived name = %q, want %q", s.Name, "sampleWorkload")
	}
}

func TestWrapGeneric(t *testing.T) {
	p := blockprof.New("generic", blockprof.WithClock(stepClock(10)))

	double := blockprof.Wrap(p, 2, "double", func() int { return 21 * 2 })
	if got := double(); got != 42 {
		t.Fatalf("wrapped result = %d, want 42", got)
	}

	s := onlyBlock(t, p.Results(), 2)
	if s.HitCount != 1 || s.TotalNs != 10 {
		t.Errorf("hits/total = %d/%d, want 1/10", s.HitCount, s.TotalNs)
	}
}

func TestWrapPanicStillRecords(t *testing.T) {
	p := blockprof.New("panics", blockprof.WithClock(stepClock(100)))

	boom := p.WrapFunc(0, "boom", func() { panic("kaboom") })

	func() {
		defer func() {
			if r := recover(); r != "kaboom" {
				t.Fatalf("recovered %v, want kaboom", r)
			}
		}()
		boom()
	}()

	s := onlyBlock(t, p.Results(), 0)
	if s.HitCount != 1 || s.TotalNs != 100 {
		t.Errorf("hits/total after panic = %d/%d, want 1/100", s.HitCount, s.TotalNs)
	}
}

func TestWrapInvalidArgsPassthrough(t *testing.T) {
	p := blockprof.New("invalid", blockprof.WithClock(stepClock(10)))

	ran := false
	fn := p.WrapFunc(-1, "bad", func() { ran = true })
	fn()
	if !ran {
		t.Fatal("wrapped function did not run")
	}

	if fn := p.WrapFunc(0, "nil", nil); fn != nil {
		t.Error("nil fn should come back nil")
	}

	if n := len(p.Results().Tracks); n != 0 {
		t.Errorf("results have %d tracks, want 0", n)
	}
}

func TestBlockScopedRegion(t *testing.T) {
	p := blockprof.New("scoped", blockprof.WithClock(stepClock(250)))

	for i := 0; i < 3; i++ {
		func() {
			defer p.Block(1, "region").End()
		}()
	}

	s := onlyBlock(t, p.Results(), 1)
	if s.HitCount != 3 || s.TotalNs != 750 {
		t.Errorf("hits/total = %d/%d, want 3/750", s.HitCount, s.TotalNs)
	}
	if s.File == "" || s.Line == 0 {
		t.Errorf("call site not captured: file=%q line=%d", s.File, s.Line)
	}
}

func TestBlockInvalidArgsInert(t *testing.T) {
	p := blockprof.New("inert", blockprof.WithClock(stepClock(10)))

	p.Block(-1, "x").End()
	p.Block(0, "").End()
	var zero blockprof.Span
	zero.End()

	if n := len(p.Results().Tracks); n != 0 {
		t.Errorf("results have %d tracks, want 0", n)
	}
}

func TestDistinctCallSitesDistinctBlocks(t *testing.T) {
	p := blockprof.New("sites", blockprof.WithClock(stepClock(10)))

	p.Block(0, "same").End()
	p.Block(0, "same").End()

	tr := p.Results().Track(0)
	if tr == nil {
		t.Fatal("track 0 missing")
	}
	if len(tr.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2 (one per call site)", len(tr.Blocks))
	}
	for _, b := range tr.Blocks {
		if b.HitCount != 1 {
			t.Errorf("block %d HitCount = %d, want 1", b.Idx, b.HitCount)
		}
	}
}

func TestDisabledTrackKeepsZeroHitBlock(t *testing.T) {
	p := blockprof.New("trackoff", blockprof.WithClock(stepClock(10)))
	if err := p.SetTrackEnabled(3, false); err != nil {
		t.Fatal(err)
	}

	fn := p.WrapFunc(3, "quiet", func() {})
	fn()
	p.Block(3, "quieter").End()

	tr := p.Results().Track(3)
	if tr == nil {
		t.Fatal("disabled track should still surface its registered blocks")
	}
	if len(tr.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(tr.Blocks))
	}
	for _, b := range tr.Blocks {
		if b.HitCount != 0 || b.TotalNs != 0 || b.MinNs != 0 {
			t.Errorf("block %q recorded %d/%d/%d, want all zero",
				b.Name, b.HitCount, b.TotalNs, b.MinNs)
		}
	}

	if err := p.SetTrackEnabled(3, true); err != nil {
		t.Fatal(err)
	}
	fn()
	if s := tr.Blocks[0]; s.HitCount != 0 {
		t.Error("earlier snapshot mutated by later recording")
	}
	if s := p.Results().Track(3).Blocks[0]; s.HitCount != 1 {
		t.Errorf("after re-enable HitCount = %d, want 1", s.HitCount)
	}
}

func TestGlobalDisabledWrapStaysBare(t *testing.T) {
	defer blockprof.SetGlobalEnabled(true)

	blockprof.SetGlobalEnabled(false)
	p := blockprof.New("globaloff", blockprof.WithClock(stepClock(10)))
	fn := p.WrapFunc(0, "bare", func() {})
	blockprof.SetGlobalEnabled(true)

	fn()
	if n := len(p.Results().Tracks); n != 0 {
		t.Errorf("wrapper created while disabled recorded into %d tracks, want 0", n)
	}
}

func TestStopPausesStartResumes(t *testing.T) {
	p := blockprof.New("pause", blockprof.WithClock(stepClock(10)))
	fn := p.WrapFunc(0, "work", func() {})

	fn()
	p.Stop()
	if p.IsStarted() {
		t.Fatal("IsStarted after Stop")
	}
	fn()
	fn()
	p.Start()
	fn()

	s := onlyBlock(t, p.Results(), 0)
	if s.HitCount != 2 {
		t.Errorf("HitCount = %d, want 2 (stopped window unmeasured)", s.HitCount)
	}
}

func TestClearRetainsConfig(t *testing.T) {
	p := blockprof.New("clear", blockprof.WithClock(stepClock(10)))
	if err := p.SetTrackName(0, "Pipeline"); err != nil {
		t.Fatal(err)
	}
	fn := p.WrapFunc(0, "stage", func() {})
	fn()
	fn()

	p.Clear()
	if n := p.Results().TotalHits(); n != 0 {
		t.Fatalf("TotalHits after Clear = %d, want 0", n)
	}
	if got := p.TrackName(0); got != "Pipeline" {
		t.Errorf("TrackName after Clear = %q, want Pipeline", got)
	}

	// Instrumentation created before the clear keeps working.
	fn()
	r := p.Results()
	if s := onlyBlock(t, r, 0); s.HitCount != 1 {
		t.Errorf("HitCount after Clear+record = %d, want 1", s.HitCount)
	}
	if got := r.Track(0).Name; got != "Pipeline" {
		t.Errorf("aggregated track name = %q, want Pipeline", got)
	}
}

func TestTrackSetterValidation(t *testing.T) {
	p := blockprof.New("validate", blockprof.WithClock(stepClock(10)))

	if err := p.SetTrackEnabled(-1, true); err != blockprof.ErrInvalidTrack {
		t.Errorf("SetTrackEnabled(-1) = %v, want ErrInvalidTrack", err)
	}
	if err := p.SetTrackName(-2, "x"); err != blockprof.ErrInvalidTrack {
		t.Errorf("SetTrackName(-2) = %v, want ErrInvalidTrack", err)
	}
	if err := p.SetTrackName(0, ""); err != blockprof.ErrEmptyName {
		t.Errorf("SetTrackName(0, \"\") = %v, want ErrEmptyName", err)
	}
}

// Three goroutines hammer one shared call site with different counts and
// durations; the aggregate must reflect every hit exactly and the real
// clock must bound the timing statistics from below.
func TestAggregateAcrossGoroutines(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps several hundred milliseconds")
	}

	p := blockprof.New("threads")
	work := func(d time.Duration) {
		defer p.Block(0, "work").End()
		time.Sleep(d)
	}

	loads := []struct {
		hits int
		d    time.Duration
	}{
		{100, time.Millisecond},
		{150, 2 * time.Millisecond},
		{200, 3 * time.Millisecond},
	}

	var wg sync.WaitGroup
	for _, l := range loads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < l.hits; i++ {
				work(l.d)
			}
		}()
	}
	wg.Wait()

	s := onlyBlock(t, p.Results(), 0)
	if s.HitCount != 450 {
		t.Errorf("HitCount = %d, want 450", s.HitCount)
	}
	if want := uint64(1000 * time.Millisecond); s.TotalNs < want {
		t.Errorf("TotalNs = %d, want >= %d", s.TotalNs, want)
	}
	if want := uint64(time.Millisecond); s.MinNs < want {
		t.Errorf("MinNs = %d, want >= %d", s.MinNs, want)
	}
	if want := uint64(3 * time.Millisecond); s.MaxNs < want {
		t.Errorf("MaxNs = %d, want >= %d", s.MaxNs, want)
	}
}

func TestGetInfo(t *testing.T) {
	blockprof.New("info")
	info := blockprof.GetInfo()
	if info.Version != blockprof.Version {
		t.Errorf("Version = %q, want %q", info.Version, blockprof.Version)
	}
	if !info.Enabled {
		t.Error("Enabled = false, want true")
	}
	if info.Profilers < 1 {
		t.Errorf("Profilers = %d, want >= 1", info.Profilers)
	}
}
