package block

import (
	"math"
	"sort"
)

// Track is one aggregated track inside a Results snapshot: an integer
// index, an optional display name, and the blocks registered under it
// ordered by block index.
type Track struct {
	Idx    int          `json:"track_idx"`
	Name   string       `json:"track_name"`
	Blocks []BlockStats `json:"blocks"`
}

// TotalNs returns the summed total time across the track's blocks.
func (t *Track) TotalNs() uint64 {
	var total uint64
	for _, b := range t.Blocks {
		total += b.TotalNs
	}
	return total
}

// TotalHits returns the summed hit count across the track's blocks.
func (t *Track) TotalHits() uint64 {
	var hits uint64
	for _, b := range t.Blocks {
		hits += b.HitCount
	}
	return hits
}

// Results is an immutable aggregated snapshot across every goroutine that
// contributed data to a profiler. It has no further lifecycle: the
// aggregation engine builds a fresh value on every call and never mutates
// a returned one.
type Results struct {
	ProfilerName string         `json:"profiler_name"`
	Tracks       map[int]*Track `json:"-"`
}

// NewResults creates an empty snapshot for the named profiler.
func NewResults(name string) *Results {
	return &Results{
		ProfilerName: name,
		Tracks:       make(map[int]*Track),
	}
}

// Track returns the aggregated track with the given index, or nil.
func (r *Results) Track(idx int) *Track {
	return r.Tracks[idx]
}

// TrackIndexes returns the track indexes in ascending order. Export and
// console collaborators use this for deterministic output.
func (r *Results) TrackIndexes() []int {
	idxs := make([]int, 0, len(r.Tracks))
	for idx := range r.Tracks {
		idxs = append(idxs, idx)
	}
	sort.Ints(idxs)
	return idxs
}

// TotalNs returns the summed total time across all tracks.
func (r *Results) TotalNs() uint64 {
	var total uint64
	for _, t := range r.Tracks {
		total += t.TotalNs()
	}
	return total
}

// TotalHits returns the summed hit count across all tracks.
func (r *Results) TotalHits() uint64 {
	var hits uint64
	for _, t := range r.Tracks {
		hits += t.TotalHits()
	}
	return hits
}

// AddBlock merges one per-goroutine block snapshot into the results
// accumulator, creating the track and block entries on first occurrence.
// The first occurrence seeds the block's metadata.
func (r *Results) AddBlock(src BlockStats) {
	t, ok := r.Tracks[src.TrackIdx]
	if !ok {
		t = &Track{Idx: src.TrackIdx}
		r.Tracks[src.TrackIdx] = t
	}

	// Blocks is indexed by block idx; grow with empty accumulators as
	// needed. Indexes are small sequential integers assigned by the
	// call-site cache.
	for len(t.Blocks) <= src.Idx {
		t.Blocks = append(t.Blocks, BlockStats{
			TrackIdx: src.TrackIdx,
			Idx:      len(t.Blocks),
			MinNs:    math.MaxUint64,
		})
	}

	acc := &t.Blocks[src.Idx]
	if acc.Name == "" {
		acc.Name = src.Name
		acc.File = src.File
		acc.Line = src.Line
	}
	acc.Merge(src)
}

// Normalize clamps the MaxUint64 min sentinel to zero on blocks that never
// recorded a hit. Called once by the aggregation engine before the snapshot
// is handed to the caller.
func (r *Results) Normalize() {
	for _, t := range r.Tracks {
		for i := range t.Blocks {
			if t.Blocks[i].HitCount == 0 {
				t.Blocks[i].MinNs = 0
			}
		}
	}
}
