// Package callsite implements the process-wide call-site cache.
//
// A call site is the source-level identity of an instrumentation point.
// The cache maps that identity to a stable block index so every goroutine
// that reaches the same instrumentation point converges on the same index,
// no matter which goroutine got there first.
//
// Reads are lock-free (sync.Map); the registration slow path is serialized
// by a mutex so the check-then-insert hands out exactly one index per key
// even when many goroutines race the first resolution.
//
// Entries are immutable once inserted and are never evicted: a process has
// a bounded number of instrumentation points, so the cache is bounded by
// source size, not by runtime activity.
package callsite

import "sync"

// Key identifies one instrumentation point.
//
// Scoped blocks are keyed by the caller's program counter (cheap to obtain
// on every entry); wrapper functions are keyed by file/line captured once
// at wrap time, with PC zero. Both shapes include the profiler id so
// independent profilers sharing the process never alias indexes.
type Key struct {
	ProfilerID uint64
	TrackIdx   int
	PC         uintptr
	File       string
	Line       int
	Name       string
}

// Cache is a shared call-site index registry. The zero value is ready to
// use.
type Cache struct {
	entries sync.Map // Key -> int (block index)
	mu      sync.Mutex
}

// Resolve returns the block index for key, invoking register exactly once
// per key to assign it. Concurrent first-time resolutions of the same key
// are serialized; all callers observe the single assigned index.
//
// Performance: steady state is one sync.Map load (~20ns, lock-free). The
// mutex is only taken on first registration of a call site.
func (c *Cache) Resolve(key Key, register func() int) int {
	if idx, ok := c.entries.Load(key); ok {
		return idx.(int)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-check: another goroutine may have registered between the load
	// and the lock acquisition.
	if idx, ok := c.entries.Load(key); ok {
		return idx.(int)
	}

	idx := register()
	c.entries.Store(key, idx)
	return idx
}

// Lookup returns the cached index for key without registering.
func (c *Cache) Lookup(key Key) (int, bool) {
	idx, ok := c.entries.Load(key)
	if !ok {
		return 0, false
	}
	return idx.(int), true
}

// Len returns the number of registered call sites. O(n); introspection and
// tests only.
func (c *Cache) Len() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Default is the process-wide cache shared by all profilers. Keys embed
// the profiler id, so sharing one map is safe.
var Default Cache
