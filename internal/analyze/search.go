// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analyze

import (
	"github.com/sahilm/fuzzy"

	"github.com/blockprof/blockprof/internal/prof/block"
)

// SearchMatch pairs a fuzzy-matched block with its match score.
type SearchMatch struct {
	TrackIdx int
	Block    block.BlockStats
	Score    int
}

// SearchBlocks fuzzy-matches pattern against every block name and
// returns the matches best first.
func SearchBlocks(r *block.Results, pattern string) []SearchMatch {
	type entry struct {
		trackIdx int
		stats    block.BlockStats
	}
	var entries []entry
	var names []string
	for _, idx := range r.TrackIndexes() {
		for _, b := range r.Track(idx).Blocks {
			entries = append(entries, entry{trackIdx: idx, stats: b})
			names = append(names, b.Name)
		}
	}

	matches := fuzzy.Find(pattern, names)
	out := make([]SearchMatch, 0, len(matches))
	for _, m := range matches {
		out = append(out, SearchMatch{
			TrackIdx: entries[m.Index].trackIdx,
			Block:    entries[m.Index].stats,
			Score:    m.Score,
		})
	}
	return out
}
