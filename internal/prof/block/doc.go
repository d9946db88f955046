// Package block defines the profiler's data model: live per-goroutine
// measurement blocks, and the aggregated track/results snapshot types.
//
// # Live vs. aggregated blocks
//
// A [Block] is the mutable, measurement-phase record for one instrumented
// code location. It is exclusively owned by one goroutine's store: only the
// owner ever calls [Block.Record]. The four statistic fields are explicit
// atomics so the aggregation engine can read them from another goroutine
// without a lock and without ever observing a torn value.
//
// [BlockStats] is the aggregated, read-only form produced by
// [Block.Snapshot] and combined across goroutines with [BlockStats.Merge].
// Merge is commutative and associative, so the order in which per-goroutine
// stores are visited does not affect the result.
//
// # Consistency
//
// A snapshot taken while the owner is still recording may pair a newer hit
// count with an older total time. The skew is bounded by a single in-flight
// measurement and disappears once the owner quiesces. Callers that need an
// exact snapshot must stop the profiler first.
package block
