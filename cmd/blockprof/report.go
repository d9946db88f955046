// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/blockprof/blockprof/export"
	"github.com/blockprof/blockprof/internal/analyze"
)

type reportCmd struct {
	Path   string `arg:"" type:"existingfile" help:"Exported results JSON file."`
	Top    int    `short:"n" help:"Show only the top N blocks ranked by total time."`
	Filter string `help:"Keep blocks matching an expression over name, track, hits, total_ns, avg_ns, min_ns, max_ns."`
	Find   string `help:"Fuzzy-search block names and show only the matches."`
	Format string `default:"table" enum:"table,csv,json" help:"Output format (${enum})."`
}

func (c *reportCmd) Run() error {
	r, err := export.ReadJSONFile(c.Path)
	if err != nil {
		return err
	}

	if c.Filter != "" {
		f, err := analyze.CompileFilter(c.Filter)
		if err != nil {
			return err
		}
		if r, err = analyze.FilterResults(r, f); err != nil {
			return err
		}
	}

	if c.Find != "" {
		matches := analyze.SearchBlocks(r, c.Find)
		if len(matches) == 0 {
			fmt.Printf("no blocks match %q\n", c.Find)
			return nil
		}
		for _, m := range matches {
			fmt.Printf("track %d  %-30s %8d hits  total %s  avg %s\n",
				m.TrackIdx, m.Block.Name, m.Block.HitCount,
				export.FormatDuration(m.Block.TotalNs),
				export.FormatDuration(uint64(m.Block.AvgNs())))
		}
		return nil
	}

	if c.Top > 0 {
		for i, hs := range analyze.FindHotspots(r, c.Top) {
			fmt.Print(analyze.FormatHotspot(hs, i+1))
		}
		return nil
	}

	switch c.Format {
	case "csv":
		return export.WriteCSV(os.Stdout, r)
	case "json":
		return export.WriteJSON(os.Stdout, r)
	default:
		return export.Print(os.Stdout, r)
	}
}
