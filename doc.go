// Package blockprof is an in-process, block-level instrumentation
// profiler with multi-track organization.
//
// Application code marks functions or regions as tracked; the profiler
// accumulates per-block timing statistics (hit count, total/min/max
// duration) across arbitrarily many goroutines with near-zero hot-path
// synchronization. It fills the gap between function-level and line-level
// profiling: explicit instrumentation, flat aggregate statistics, runtime
// enable/disable at three levels (process, track, profiler instance).
//
// # Quick Start
//
//	p := blockprof.New("MyApp")
//
//	process := p.WrapFunc(0, "process_data", func() {
//		transform(data)
//	})
//	process()
//
//	func complexFunction() {
//		defer p.Block(1, "database_query").End()
//		queryDatabase()
//	}
//
//	results := p.Results()
//	export.Print(os.Stdout, results)
//
// # How It Works
//
// Every goroutine records into its own isolated store, discovered through
// its goroutine id, so steady-state measurement takes no locks: an
// enablement check (three atomic loads), two monotonic timestamps, and
// atomic statistic updates on a goroutine-owned block. Locks exist only
// on cold paths — first-time call-site registration, first store creation
// per goroutine, aggregation, and clearing.
//
// A process-wide call-site cache makes instrumentation idempotent: no
// matter how many goroutines hit a new call site simultaneously, exactly
// one block index is assigned and every goroutine's hits aggregate under
// it.
//
// [Profiler.Results] merges all goroutine stores into an immutable
// snapshot on demand. Aggregating while goroutines are still recording is
// safe; per-field values are never torn, though the fields of one block
// are not frozen as a group (stop the profiler first for exact numbers).
//
// # Runtime Control
//
//   - [SetGlobalEnabled] — process-wide kill switch, checked first.
//     Wrappers created while disabled are the bare function: zero overhead.
//   - [Profiler.SetTrackEnabled] — per-track flag; disabled tracks keep
//     their registered blocks visible with zero hits.
//   - [Profiler.Start] / [Profiler.Stop] — per-instance lifecycle.
//
// Export, console reporting, configuration loading and analysis live in
// the export, config and cmd/blockprof collaborators; they consume
// [Results] read-only.
package blockprof
