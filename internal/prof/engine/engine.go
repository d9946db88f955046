package engine

import (
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/blockprof/blockprof/internal/prof/callsite"
	"github.com/blockprof/blockprof/internal/prof/clock"
	"github.com/blockprof/blockprof/internal/prof/goid"
	"github.com/blockprof/blockprof/internal/prof/store"
)

// Validation errors surfaced at the instrumentation-surface boundary.
var (
	// ErrInvalidTrack reports a negative track index.
	ErrInvalidTrack = errors.New("engine: track index must be non-negative")

	// ErrEmptyName reports a missing required name.
	ErrEmptyName = errors.New("engine: name must not be empty")
)

// TrackConfig is a track's profiler-level configuration: a display name
// and an enabled flag. Absent tracks are enabled with an empty name.
type TrackConfig struct {
	Name    string
	Enabled bool
}

// Profiler is the measurement engine behind one named profiler instance.
type Profiler struct {
	id   uint64
	name string

	// started gates recording per instance. Construction starts the
	// profiler; Stop/Start flip it at runtime.
	started atomic.Bool

	// cfg is the copy-on-write track configuration map. Hot-path reads
	// load the pointer; writers clone under cfgMu.
	cfg   atomic.Pointer[map[int]TrackConfig]
	cfgMu sync.Mutex

	// nextIdx assigns per-track block indexes. Keyed by track index,
	// value *atomic.Int64. Only touched on the registration cold path.
	nextIdx sync.Map

	// threads is this profiler's thread registry: goroutine id → *store.Store.
	// Hot-path lookups read the sync.Map directly; insertions, aggregation
	// walks and clears serialize on threadsMu.
	threads   sync.Map
	threadsMu sync.Mutex

	now clock.Func
	log *slog.Logger
}

// New constructs a started profiler, registering it globally to obtain a
// unique id. clk and logger may be nil (monotonic runtime clock, silent
// logger).
func New(name string, clk clock.Func, logger *slog.Logger) *Profiler {
	if clk == nil {
		clk = clock.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Profiler{
		name: name,
		now:  clk,
		log:  logger,
	}
	empty := make(map[int]TrackConfig)
	p.cfg.Store(&empty)
	p.started.Store(true)
	p.id = register(p)

	p.log.Debug("profiler registered", "name", name, "id", p.id)
	return p
}

// ID returns the profiler's globally unique id.
func (p *Profiler) ID() uint64 { return p.id }

// Name returns the profiler's display name.
func (p *Profiler) Name() string { return p.name }

// Now returns a monotonic nanosecond timestamp from the profiler's clock.
func (p *Profiler) Now() int64 { return p.now() }

// Logger returns the profiler's logger, never nil.
func (p *Profiler) Logger() *slog.Logger { return p.log }

// Start resumes recording for this instance.
func (p *Profiler) Start() { p.started.Store(true) }

// Stop pauses recording. Instrumented code keeps running unmeasured;
// already-collected statistics are retained.
func (p *Profiler) Stop() { p.started.Store(false) }

// IsStarted reports whether the instance is recording.
func (p *Profiler) IsStarted() bool { return p.started.Load() }

// ShouldRecord is the hot-path enablement sequence: process-wide switch,
// per-track flag, then instance lifecycle. Three atomic loads, no locks.
func (p *Profiler) ShouldRecord(trackIdx int) bool {
	if !globalEnabled.Load() {
		return false
	}
	if !p.trackEnabled(trackIdx) {
		return false
	}
	return p.started.Load()
}

func (p *Profiler) trackEnabled(trackIdx int) bool {
	cfg := *p.cfg.Load()
	tc, ok := cfg[trackIdx]
	if !ok {
		return true
	}
	return tc.Enabled
}

// SetTrackEnabled flips a track's enabled flag. Effective for all
// goroutines on their next measurement.
func (p *Profiler) SetTrackEnabled(trackIdx int, enabled bool) error {
	if trackIdx < 0 {
		return ErrInvalidTrack
	}
	p.updateTrack(trackIdx, func(tc *TrackConfig) { tc.Enabled = enabled })
	return nil
}

// IsTrackEnabled reports a track's enabled flag; unconfigured tracks
// default to enabled.
func (p *Profiler) IsTrackEnabled(trackIdx int) bool {
	return p.trackEnabled(trackIdx)
}

// SetTrackName assigns a display name used in aggregated results.
func (p *Profiler) SetTrackName(trackIdx int, name string) error {
	if trackIdx < 0 {
		return ErrInvalidTrack
	}
	if name == "" {
		return ErrEmptyName
	}
	p.updateTrack(trackIdx, func(tc *TrackConfig) { tc.Name = name })
	return nil
}

// TrackName returns the configured display name, or "".
func (p *Profiler) TrackName(trackIdx int) string {
	return (*p.cfg.Load())[trackIdx].Name
}

// updateTrack clones the track config map, applies fn, and publishes the
// new map. Cold path; writers serialize on cfgMu.
func (p *Profiler) updateTrack(trackIdx int, fn func(*TrackConfig)) {
	p.cfgMu.Lock()
	defer p.cfgMu.Unlock()

	cur := *p.cfg.Load()
	next := make(map[int]TrackConfig, len(cur)+1)
	for k, v := range cur {
		next[k] = v
	}
	tc, ok := next[trackIdx]
	if !ok {
		tc = TrackConfig{Enabled: true}
	}
	fn(&tc)
	next[trackIdx] = tc
	p.cfg.Store(&next)
}

// StoreFor returns the calling goroutine's store, creating and
// registering it on first use. The fast path is one goid read and one
// sync.Map load; the slow path runs once per goroutine (per clear) and
// takes threadsMu only for the insertion.
func (p *Profiler) StoreFor() *store.Store {
	gid := goid.ID()
	if st, ok := p.threads.Load(gid); ok {
		return st.(*store.Store)
	}

	p.threadsMu.Lock()
	defer p.threadsMu.Unlock()

	// Re-check: the same goroutine cannot race itself, but a clear may
	// have run, and callers on other goroutines share the mutex.
	if st, ok := p.threads.Load(gid); ok {
		return st.(*store.Store)
	}

	st := store.New()
	p.threads.Store(gid, st)
	p.log.Debug("goroutine registered", "profiler", p.name, "goid", gid)
	return st
}

// ThreadCount returns the number of registered goroutine stores.
func (p *Profiler) ThreadCount() int {
	n := 0
	p.threads.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// BlockMeta is the source-location metadata carried by a resolved
// instrumentation site. For scoped blocks resolved by program counter the
// file/line pair may be empty until a registration actually needs it.
type BlockMeta struct {
	TrackIdx int
	BlockIdx int
	Name     string
	File     string
	Line     int
	PC       uintptr
}

// ResolveWrapSite resolves (or registers) the call site of a wrapper
// created at file:line. Called once per wrapper construction.
func (p *Profiler) ResolveWrapSite(trackIdx int, name, file string, line int) BlockMeta {
	key := callsite.Key{
		ProfilerID: p.id,
		TrackIdx:   trackIdx,
		File:       file,
		Line:       line,
		Name:       name,
	}
	idx := callsite.Default.Resolve(key, func() int {
		return p.registerBlock(trackIdx, name, file, line)
	})
	return BlockMeta{TrackIdx: trackIdx, BlockIdx: idx, Name: name, File: file, Line: line}
}

// ResolveScopeSite resolves (or registers) a scoped-block site identified
// by the caller's program counter. File and line are materialized only on
// the cold registration path.
func (p *Profiler) ResolveScopeSite(trackIdx int, name string, pc uintptr) BlockMeta {
	key := callsite.Key{
		ProfilerID: p.id,
		TrackIdx:   trackIdx,
		PC:         pc,
		Name:       name,
	}

	var file string
	var line int
	idx := callsite.Default.Resolve(key, func() int {
		file, line = pcFileLine(pc)
		return p.registerBlock(trackIdx, name, file, line)
	})

	// On a cache hit file/line stay empty: the metadata already lives in
	// the registering store, and Record resolves it lazily from the PC in
	// the rare case this goroutine has to re-create the block.
	return BlockMeta{TrackIdx: trackIdx, BlockIdx: idx, Name: name, File: file, Line: line, PC: pc}
}

// registerBlock assigns the track's next block index and creates the block
// in the calling goroutine's store. Runs under the call-site cache mutex,
// exactly once per call site.
func (p *Profiler) registerBlock(trackIdx int, name, file string, line int) int {
	ctr, _ := p.nextIdx.LoadOrStore(trackIdx, &atomic.Int64{})
	idx := int(ctr.(*atomic.Int64).Add(1) - 1)

	p.StoreFor().EnsureBlock(trackIdx, idx, name, file, line)
	p.log.Debug("block registered",
		"profiler", p.name, "track", trackIdx, "block", idx, "name", name)
	return idx
}

// Record folds elapsed nanoseconds into the calling goroutine's copy of
// the block. A lookup miss (first record on this goroutine, or a store
// dropped by a concurrent clear) re-creates the block from meta and
// retries once.
func (p *Profiler) Record(st *store.Store, meta BlockMeta, elapsedNs uint64) {
	if st.Record(meta.TrackIdx, meta.BlockIdx, elapsedNs) {
		return
	}
	if meta.File == "" && meta.PC != 0 {
		meta.File, meta.Line = pcFileLine(meta.PC)
	}
	st.EnsureBlock(meta.TrackIdx, meta.BlockIdx, meta.Name, meta.File, meta.Line)
	st.Record(meta.TrackIdx, meta.BlockIdx, elapsedNs)
}

func pcFileLine(pc uintptr) (string, int) {
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "", 0
	}
	return fn.FileLine(pc)
}
