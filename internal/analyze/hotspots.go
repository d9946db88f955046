// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package analyze ranks, filters and searches aggregated profiling
// results for the report tooling.
package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blockprof/blockprof/export"
	"github.com/blockprof/blockprof/internal/prof/block"
)

// Hotspot is one block ranked by its share of the profiler's total time.
type Hotspot struct {
	TrackIdx   int
	TrackName  string
	Name       string
	File       string
	Line       int
	HitCount   uint64
	TotalNs    uint64
	AvgNs      uint64
	Percentage float64
}

// FindHotspots returns the blocks consuming the most total time, in
// descending order. topN <= 0 returns all blocks. Zero-hit blocks are
// skipped.
func FindHotspots(r *block.Results, topN int) []Hotspot {
	grandTotal := r.TotalNs()

	var hotspots []Hotspot
	for _, idx := range r.TrackIndexes() {
		track := r.Track(idx)
		for _, b := range track.Blocks {
			if b.HitCount == 0 {
				continue
			}
			hs := Hotspot{
				TrackIdx:  idx,
				TrackName: track.Name,
				Name:      b.Name,
				File:      b.File,
				Line:      b.Line,
				HitCount:  b.HitCount,
				TotalNs:   b.TotalNs,
				AvgNs:     uint64(b.AvgNs()),
			}
			if grandTotal > 0 {
				hs.Percentage = float64(b.TotalNs) / float64(grandTotal) * 100.0
			}
			hotspots = append(hotspots, hs)
		}
	}

	sort.Slice(hotspots, func(i, j int) bool {
		if hotspots[i].TotalNs != hotspots[j].TotalNs {
			return hotspots[i].TotalNs > hotspots[j].TotalNs
		}
		if hotspots[i].TrackIdx != hotspots[j].TrackIdx {
			return hotspots[i].TrackIdx < hotspots[j].TrackIdx
		}
		return hotspots[i].Name < hotspots[j].Name
	})

	if topN > 0 && topN < len(hotspots) {
		return hotspots[:topN]
	}
	return hotspots
}

// FormatHotspot returns a human-readable rendering of one ranked hotspot.
func FormatHotspot(hs Hotspot, rank int) string {
	var sb strings.Builder

	track := hs.TrackName
	if track == "" {
		track = fmt.Sprintf("Track %d", hs.TrackIdx)
	}
	sb.WriteString(fmt.Sprintf("#%d: %s / %s\n", rank, track, hs.Name))
	sb.WriteString(fmt.Sprintf("    Time: %s (%.2f%%)\n",
		export.FormatDuration(hs.TotalNs), hs.Percentage))
	sb.WriteString(fmt.Sprintf("    Hits: %d, avg %s\n",
		hs.HitCount, export.FormatDuration(hs.AvgNs)))
	if hs.File != "" {
		sb.WriteString(fmt.Sprintf("    Source: %s:%d\n", hs.File, hs.Line))
	}
	return sb.String()
}
