// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockprof

import (
	"log/slog"

	"github.com/blockprof/blockprof/internal/prof/block"
	"github.com/blockprof/blockprof/internal/prof/clock"
	"github.com/blockprof/blockprof/internal/prof/engine"
)

// Results is an aggregated, immutable snapshot of one profiler's
// statistics, organized by track.
type Results = block.Results

// Track is one track's slice of a Results snapshot.
type Track = block.Track

// BlockStats holds the aggregated statistics of a single block.
type BlockStats = block.BlockStats

// Validation errors returned by the track configuration setters.
var (
	ErrInvalidTrack = engine.ErrInvalidTrack
	ErrEmptyName    = engine.ErrEmptyName
)

// Option configures a Profiler at construction time.
type Option func(*options)

type options struct {
	logger *slog.Logger
	clock  clock.Func
}

// WithLogger routes the profiler's diagnostics to l. The profiler only
// logs on cold paths (registration, aggregation, misuse); by default it
// is silent.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock substitutes the monotonic nanosecond clock. Intended for
// deterministic tests; the default is the runtime's monotonic clock.
func WithClock(now func() int64) Option {
	return func(o *options) { o.clock = now }
}

// Profiler is a named profiler instance. Create one per subsystem with
// [New]; all methods are safe for concurrent use from any goroutine.
//
// A Profiler is born started. It measures only while the process-wide
// switch ([SetGlobalEnabled]), the block's track and the instance itself
// are all enabled.
type Profiler struct {
	eng *engine.Profiler
}

// New constructs a started, globally registered profiler. name labels
// the instance in exported results.
func New(name string, opts ...Option) *Profiler {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Profiler{eng: engine.New(name, o.clock, o.logger)}
}

// Name returns the profiler's display name.
func (p *Profiler) Name() string { return p.eng.Name() }

// Start resumes recording for this instance.
func (p *Profiler) Start() { p.eng.Start() }

// Stop pauses recording. Instrumented code keeps running unmeasured and
// collected statistics are retained; Start picks up where Stop left off.
func (p *Profiler) Stop() { p.eng.Stop() }

// IsStarted reports whether the instance is currently recording.
func (p *Profiler) IsStarted() bool { return p.eng.IsStarted() }

// Clear discards all collected statistics and forgets all recording
// goroutines. Track names and enablement flags survive. Instrumentation
// created before the clear keeps working; blocks repopulate on their
// next hit.
func (p *Profiler) Clear() { p.eng.Clear() }

// SetTrackEnabled flips measurement for one track. Blocks on a disabled
// track stay registered and appear in results with zero hits.
func (p *Profiler) SetTrackEnabled(trackIdx int, enabled bool) error {
	return p.eng.SetTrackEnabled(trackIdx, enabled)
}

// IsTrackEnabled reports whether trackIdx is measuring. Unconfigured
// tracks are enabled.
func (p *Profiler) IsTrackEnabled(trackIdx int) bool {
	return p.eng.IsTrackEnabled(trackIdx)
}

// SetTrackName assigns a display name to trackIdx, shown in exported
// results in place of the numeric index.
func (p *Profiler) SetTrackName(trackIdx int, name string) error {
	return p.eng.SetTrackName(trackIdx, name)
}

// TrackName returns the display name of trackIdx, or "" if unset.
func (p *Profiler) TrackName(trackIdx int) string {
	return p.eng.TrackName(trackIdx)
}

// Results aggregates every goroutine's statistics into an immutable
// snapshot. Safe to call while recording continues; the snapshot is
// internally consistent per field but a block hit mid-aggregation may
// contribute partially (stop the profiler first for exact numbers).
func (p *Profiler) Results() *Results { return p.eng.Results() }

// SetGlobalEnabled flips the process-wide switch shared by all
// profilers. While disabled no profiler registers or measures anything,
// and wrappers created in that window stay permanently unwrapped.
func SetGlobalEnabled(enabled bool) { engine.SetGlobalEnabled(enabled) }

// IsGlobalEnabled reports the process-wide switch.
func IsGlobalEnabled() bool { return engine.IsGlobalEnabled() }

func profilerCount() int { return len(engine.Profilers()) }
