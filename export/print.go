// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/blockprof/blockprof"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	trackStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	totalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// Print writes a human-readable report to w: one section per track, one
// row per block, durations at a human scale.
func Print(w io.Writer, r *blockprof.Results) error {
	fmt.Fprintln(w, titleStyle.Render("Profiler: "+r.ProfilerName))

	for _, idx := range r.TrackIndexes() {
		track := r.Track(idx)
		fmt.Fprintln(w)
		fmt.Fprintln(w, trackStyle.Render(trackLabel(track)))

		tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
		fmt.Fprintln(tw, headerStyle.Render("  Block\tHits\tTotal\tAvg\tMin\tMax\t% Track"))
		trackTotal := track.TotalNs()
		for _, b := range track.Blocks {
			fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\t%s\t%s\t%s\n",
				b.Name,
				b.HitCount,
				FormatDuration(b.TotalNs),
				FormatDuration(uint64(b.AvgNs())),
				FormatDuration(b.MinNs),
				FormatDuration(b.MaxNs),
				percent(b.TotalNs, trackTotal))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("export: flush report: %w", err)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, totalStyle.Render(
		"Total: "+strconv.FormatUint(r.TotalHits(), 10)+" hits, "+FormatDuration(r.TotalNs())))
	return nil
}
