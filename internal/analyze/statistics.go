// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analyze

import (
	"math"

	"github.com/blockprof/blockprof/internal/prof/block"
)

// Statistics summarizes a results snapshot.
type Statistics struct {
	ProfilerName string
	TrackCount   int
	BlockCount   int
	ActiveBlocks int
	TotalHits    uint64
	TotalNs      uint64

	// AvgHitNs is the mean cost of a single hit across all blocks.
	AvgHitNs uint64

	// MinBlockNs / MaxBlockNs bound the per-block total times of blocks
	// that recorded at least one hit.
	MinBlockNs uint64
	MaxBlockNs uint64
}

// ComputeStatistics calculates summary statistics for a snapshot.
func ComputeStatistics(r *block.Results) Statistics {
	stats := Statistics{
		ProfilerName: r.ProfilerName,
		TrackCount:   len(r.Tracks),
		MinBlockNs:   math.MaxUint64,
	}

	for _, track := range r.Tracks {
		for _, b := range track.Blocks {
			stats.BlockCount++
			if b.HitCount == 0 {
				continue
			}
			stats.ActiveBlocks++
			stats.TotalHits += b.HitCount
			stats.TotalNs += b.TotalNs
			if b.TotalNs < stats.MinBlockNs {
				stats.MinBlockNs = b.TotalNs
			}
			if b.TotalNs > stats.MaxBlockNs {
				stats.MaxBlockNs = b.TotalNs
			}
		}
	}

	if stats.ActiveBlocks == 0 {
		stats.MinBlockNs = 0
	}
	if stats.TotalHits > 0 {
		stats.AvgHitNs = stats.TotalNs / stats.TotalHits
	}
	return stats
}
