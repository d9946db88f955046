package engine

import (
	"time"

	"github.com/blockprof/blockprof/internal/prof/block"
	"github.com/blockprof/blockprof/internal/prof/store"
)

// Results merges every registered goroutine's per-block statistics into a
// fresh immutable snapshot.
//
// Held under threadsMu so the walk cannot race a clear or a concurrent
// registration's sync.Map insertion. Owners may keep recording during the
// walk: every statistic field is read atomically, and merge order over
// stores is irrelevant because the merge is commutative and associative.
//
// Cold path: O(goroutines × tracks × blocks). Allowed to cost
// milliseconds at realistic sizes.
func (p *Profiler) Results() *block.Results {
	start := time.Now()

	p.threadsMu.Lock()
	defer p.threadsMu.Unlock()

	r := block.NewResults(p.name)
	threads := 0
	p.threads.Range(func(_, v any) bool {
		threads++
		v.(*store.Store).Walk(func(b *block.Block) {
			r.AddBlock(b.Snapshot())
		})
		return true
	})

	// Apply configured display names to the tracks that materialized.
	cfg := *p.cfg.Load()
	for idx, t := range r.Tracks {
		if tc, ok := cfg[idx]; ok && tc.Name != "" {
			t.Name = tc.Name
		}
	}
	r.Normalize()

	p.log.Debug("results aggregated",
		"profiler", p.name, "goroutines", threads,
		"tracks", len(r.Tracks), "elapsed", time.Since(start))
	return r
}

// Clear drops every goroutine store from the thread registry. Goroutines
// still recording into a dropped store lose those samples; their next
// measurement re-registers a fresh store transparently. Track
// configuration (names, enabled flags) is retained.
func (p *Profiler) Clear() {
	p.threadsMu.Lock()
	defer p.threadsMu.Unlock()

	dropped := 0
	p.threads.Range(func(k, _ any) bool {
		p.threads.Delete(k)
		dropped++
		return true
	})
	p.log.Debug("profiler cleared", "profiler", p.name, "goroutines", dropped)
}
