package callsite

import (
	"sync"
	"sync/atomic"
	"testing"
)

// TestResolveRegistersOnce verifies register runs exactly once per key.
func TestResolveRegistersOnce(t *testing.T) {
	var c Cache
	key := Key{ProfilerID: 1, TrackIdx: 0, File: "app.go", Line: 42, Name: "parse"}

	calls := 0
	register := func() int {
		calls++
		return 7
	}

	for i := 0; i < 10; i++ {
		if idx := c.Resolve(key, register); idx != 7 {
			t.Fatalf("Resolve() = %d, want 7", idx)
		}
	}
	if calls != 1 {
		t.Errorf("register called %d times, want 1", calls)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

// TestResolveDistinctKeys verifies distinct call sites get distinct
// registrations.
func TestResolveDistinctKeys(t *testing.T) {
	var c Cache
	next := 0
	register := func() int {
		idx := next
		next++
		return idx
	}

	keys := []Key{
		{ProfilerID: 1, TrackIdx: 0, File: "a.go", Line: 1, Name: "a"},
		{ProfilerID: 1, TrackIdx: 0, File: "a.go", Line: 2, Name: "a"},
		{ProfilerID: 1, TrackIdx: 1, File: "a.go", Line: 1, Name: "a"},
		{ProfilerID: 2, TrackIdx: 0, File: "a.go", Line: 1, Name: "a"},
		{ProfilerID: 1, TrackIdx: 0, PC: 0xbeef, Name: "scoped"},
	}

	seen := make(map[int]bool)
	for _, k := range keys {
		idx := c.Resolve(k, register)
		if seen[idx] {
			t.Errorf("key %+v reused index %d", k, idx)
		}
		seen[idx] = true
	}
	if c.Len() != len(keys) {
		t.Errorf("Len() = %d, want %d", c.Len(), len(keys))
	}
}

// TestResolveConcurrentFirstRegistration spawns many goroutines racing the
// first resolution of one key; exactly one index may ever be handed out.
func TestResolveConcurrentFirstRegistration(t *testing.T) {
	var c Cache
	key := Key{ProfilerID: 9, TrackIdx: 3, PC: 0x1234, Name: "hot"}

	var registrations atomic.Int32
	register := func() int {
		return int(registrations.Add(1)) * 100
	}

	const n = 100
	results := make([]int, n)
	var start, done sync.WaitGroup
	start.Add(1)
	for i := 0; i < n; i++ {
		done.Add(1)
		go func(slot int) {
			defer done.Done()
			start.Wait()
			results[slot] = c.Resolve(key, register)
		}(i)
	}
	start.Done()
	done.Wait()

	if got := registrations.Load(); got != 1 {
		t.Fatalf("register ran %d times, want 1", got)
	}
	for slot, idx := range results {
		if idx != 100 {
			t.Errorf("goroutine %d observed index %d, want 100", slot, idx)
		}
	}
}

// TestLookup verifies Lookup never registers.
func TestLookup(t *testing.T) {
	var c Cache
	key := Key{ProfilerID: 1, Name: "x"}

	if _, ok := c.Lookup(key); ok {
		t.Error("Lookup() found unregistered key")
	}
	c.Resolve(key, func() int { return 3 })
	idx, ok := c.Lookup(key)
	if !ok || idx != 3 {
		t.Errorf("Lookup() = %d,%v, want 3,true", idx, ok)
	}
}

// BenchmarkResolveHit measures the steady-state lock-free read.
func BenchmarkResolveHit(b *testing.B) {
	var c Cache
	key := Key{ProfilerID: 1, TrackIdx: 0, PC: 0xabc, Name: "bench"}
	c.Resolve(key, func() int { return 0 })

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Resolve(key, nil)
	}
}
