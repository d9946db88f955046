package engine

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Global profiler state.
//
// The registry exists so tooling can enumerate live profilers and so ids
// are unique for call-site cache keys. Profilers are never removed: they
// are long-lived objects constructed a handful of times per process.
var (
	registryMu sync.Mutex
	registry   = make(map[uint64]*Profiler)
	nextID     uint64

	// globalEnabled is the process-wide kill switch checked first on
	// every hot-path invocation. Defaults to enabled.
	globalEnabled atomic.Bool
)

func init() {
	globalEnabled.Store(true)
}

// register assigns the next sequential id under registryMu and inserts the
// profiler. Called once per profiler construction.
func register(p *Profiler) uint64 {
	registryMu.Lock()
	defer registryMu.Unlock()

	nextID++
	registry[nextID] = p
	return nextID
}

// Profilers returns all registered profilers ordered by id.
func Profilers() []*Profiler {
	registryMu.Lock()
	defer registryMu.Unlock()

	out := make([]*Profiler, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// SetGlobalEnabled flips the process-wide switch. When disabled, every
// instrumentation form degrades to passthrough: no timestamps, no
// recording, and wrappers created while disabled are the bare function.
func SetGlobalEnabled(enabled bool) {
	globalEnabled.Store(enabled)
}

// IsGlobalEnabled reports the process-wide switch.
func IsGlobalEnabled() bool {
	return globalEnabled.Load()
}
