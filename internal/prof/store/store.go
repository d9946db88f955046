// Package store implements the per-goroutine measurement store.
//
// A Store is exclusively owned by one goroutine during the measurement
// phase: every mutation (block creation, statistic updates) happens on the
// owning goroutine only. The aggregation engine reads a live store from
// another goroutine, so the two structural containers (the track map and
// each track's block slice) are published through atomic pointers and
// replaced copy-on-write on the cold registration path. Steady-state
// recording is two atomic pointer loads, a bounds check, and the block's
// atomic field updates; no locks, no allocation.
package store

import (
	"sync/atomic"

	"github.com/blockprof/blockprof/internal/prof/block"
)

// trackData holds one track's blocks, indexed by block index. The slice is
// replaced wholesale when it grows; slots not yet registered on this
// goroutine are nil.
type trackData struct {
	blocks atomic.Pointer[[]*block.Block]
}

func newTrackData() *trackData {
	td := &trackData{}
	empty := make([]*block.Block, 0)
	td.blocks.Store(&empty)
	return td
}

// Store is one goroutine's isolated set of tracks and blocks.
type Store struct {
	tracks atomic.Pointer[map[int]*trackData]
}

// New creates an empty store.
func New() *Store {
	s := &Store{}
	empty := make(map[int]*trackData)
	s.tracks.Store(&empty)
	return s
}

// Record folds one measurement into the target block.
//
// Returns false when the track or block is not present in this store (a
// tolerated lookup miss: the caller re-registers the block and retries, or
// drops the sample). Never blocks, never allocates, never panics on an
// unknown index.
//
//go:nosplit
func (s *Store) Record(trackIdx, blockIdx int, elapsedNs uint64) bool {
	td, ok := (*s.tracks.Load())[trackIdx]
	if !ok {
		return false
	}
	blocks := *td.blocks.Load()
	if blockIdx < 0 || blockIdx >= len(blocks) || blocks[blockIdx] == nil {
		return false
	}
	blocks[blockIdx].Record(elapsedNs)
	return true
}

// EnsureBlock creates the block at (trackIdx, blockIdx) in this store if
// absent, and returns it. Metadata is taken from the arguments on
// creation.
//
// Owner-only: must be called from the goroutine that owns the store. The
// copy-on-write replacement keeps concurrent aggregation reads valid at
// every instant.
func (s *Store) EnsureBlock(trackIdx, blockIdx int, name, file string, line int) *block.Block {
	tracks := *s.tracks.Load()
	td, ok := tracks[trackIdx]
	if !ok {
		td = newTrackData()
		next := make(map[int]*trackData, len(tracks)+1)
		for k, v := range tracks {
			next[k] = v
		}
		next[trackIdx] = td
		s.tracks.Store(&next)
	}

	blocks := *td.blocks.Load()
	if blockIdx < len(blocks) && blocks[blockIdx] != nil {
		return blocks[blockIdx]
	}

	b := block.New(trackIdx, blockIdx, name, file, line)
	grown := make([]*block.Block, max(len(blocks), blockIdx+1))
	copy(grown, blocks)
	grown[blockIdx] = b
	td.blocks.Store(&grown)
	return b
}

// Walk calls fn for every block present in the store. Safe to call from a
// non-owning goroutine: it observes some recent copy-on-write publication
// of the containers, and reads block statistics through their atomics.
func (s *Store) Walk(fn func(*block.Block)) {
	for _, td := range *s.tracks.Load() {
		for _, b := range *td.blocks.Load() {
			if b != nil {
				fn(b)
			}
		}
	}
}

// Empty reports whether the store has no blocks at all.
func (s *Store) Empty() bool {
	for _, td := range *s.tracks.Load() {
		if len(*td.blocks.Load()) > 0 {
			return false
		}
	}
	return true
}
