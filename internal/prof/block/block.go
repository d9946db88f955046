package block

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Block is the live accumulator for one instrumented code location.
//
// Identity (track index, block index) and metadata (name, file, line) are
// fixed at registration and never written afterwards, so they are safe to
// read from any goroutine. The statistics are written only by the owning
// goroutine and read by the aggregation engine via atomic loads.
//
// Performance: Record is the hot-path mutation, target <50ns per call,
// zero allocations.
type Block struct {
	// TrackIdx and Idx identify the block within its profiler.
	TrackIdx int
	Idx      int

	// Name, File and Line describe the instrumented source location.
	Name string
	File string
	Line int

	hits    atomic.Uint64
	totalNs atomic.Uint64
	minNs   atomic.Uint64
	maxNs   atomic.Uint64
}

// New creates a live block for the given location. The minimum is seeded
// with MaxUint64 so the first recorded measurement always wins the CAS.
func New(trackIdx, idx int, name, file string, line int) *Block {
	b := &Block{
		TrackIdx: trackIdx,
		Idx:      idx,
		Name:     name,
		File:     file,
		Line:     line,
	}
	b.minNs.Store(math.MaxUint64)
	return b
}

// Record folds one measurement into the block's statistics.
//
// Must be called only by the owning goroutine. The CAS loops for min/max
// still allow a concurrent aggregation read at any point; they never spin
// against another writer because there is exactly one writer.
//
//go:nosplit
func (b *Block) Record(elapsedNs uint64) {
	b.hits.Add(1)
	b.totalNs.Add(elapsedNs)

	for {
		prev := b.minNs.Load()
		if elapsedNs >= prev {
			break
		}
		if b.minNs.CompareAndSwap(prev, elapsedNs) {
			break
		}
	}
	for {
		prev := b.maxNs.Load()
		if elapsedNs <= prev {
			break
		}
		if b.maxNs.CompareAndSwap(prev, elapsedNs) {
			break
		}
	}
}

// Snapshot reads the block's statistics with atomic loads and returns them
// together with the immutable metadata. Safe to call from any goroutine
// while the owner is still recording; see the package comment for the
// cross-field consistency contract.
func (b *Block) Snapshot() BlockStats {
	return BlockStats{
		TrackIdx: b.TrackIdx,
		Idx:      b.Idx,
		Name:     b.Name,
		File:     b.File,
		Line:     b.Line,
		HitCount: b.hits.Load(),
		TotalNs:  b.totalNs.Load(),
		MinNs:    b.minNs.Load(),
		MaxNs:    b.maxNs.Load(),
	}
}

// BlockStats is the aggregated, read-only form of a block's statistics.
//
// MinNs is math.MaxUint64 while HitCount is zero; JSON/CSV exporters and
// the console printer normalize that to 0 for display.
type BlockStats struct {
	TrackIdx int    `json:"track_idx"`
	Idx      int    `json:"block_idx"`
	Name     string `json:"name"`
	File     string `json:"file"`
	Line     int    `json:"line"`

	HitCount uint64 `json:"hit_count"`
	TotalNs  uint64 `json:"total_time_ns"`
	MinNs    uint64 `json:"min_time_ns"`
	MaxNs    uint64 `json:"max_time_ns"`
}

// Merge folds src into s. The first contribution to an accumulator seeds
// the metadata; callers pass src from whichever store is visited first and
// every store carries identical metadata for a given block index.
func (s *BlockStats) Merge(src BlockStats) {
	s.HitCount += src.HitCount
	s.TotalNs += src.TotalNs
	if src.MinNs < s.MinNs {
		s.MinNs = src.MinNs
	}
	if src.MaxNs > s.MaxNs {
		s.MaxNs = src.MaxNs
	}
}

// AvgNs returns the mean measurement duration, or 0 when no hits were
// recorded.
func (s BlockStats) AvgNs() float64 {
	if s.HitCount == 0 {
		return 0
	}
	return float64(s.TotalNs) / float64(s.HitCount)
}

// String implements fmt.Stringer for debug output.
func (s BlockStats) String() string {
	min := s.MinNs
	if s.HitCount == 0 {
		min = 0
	}
	return fmt.Sprintf("%s: hits=%d total=%dns min=%dns max=%dns",
		s.Name, s.HitCount, s.TotalNs, min, s.MaxNs)
}
