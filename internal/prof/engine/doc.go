// Package engine implements the profiler core: the global profiler
// registry, per-profiler thread registry, the registration and recording
// paths, and cross-goroutine aggregation.
//
// # Architecture
//
// Three shared structures exist, each with its own serialization, acquired
// only on cold paths and always in this order:
//
//  1. registryMu — global profiler registry and id counter
//  2. callsite.Default's mutex — first-time call-site registration
//  3. Profiler.threadsMu — per-profiler thread registry mutations,
//     aggregation walks, and clears
//
// A function holding a later lock never acquires an earlier one. Go
// mutexes are not reentrant; instead of reentrant locks the code is
// structured so no path re-enters a lock it already holds (registration
// callbacks touch only the caller's own store, which is lock-free).
//
// # Hot path
//
// Steady-state measurement takes no locks at all:
//
//	global enabled? → track enabled? → started? → t0 → run → t1 → record
//
// Every shared read on that sequence is a single atomic load (enabled
// flags, copy-on-write track config, sync.Map store lookup), and the
// record itself mutates only goroutine-owned state through atomics.
//
// # Consistency
//
// Aggregation reads live stores while their owners keep recording. Each
// statistic field is read atomically, so values are never torn, but the
// four fields of one block are not snapshotted atomically as a group: a
// result may pair a hit count with a total time that lags by one in-flight
// measurement. Stop the profiler first when an exact snapshot matters.
package engine
