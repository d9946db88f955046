// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/blockprof/blockprof"
	"github.com/blockprof/blockprof/export"
	"github.com/blockprof/blockprof/internal/analyze"
)

type mcpCmd struct{}

// resultsCache holds loaded result files for the lifetime of the server.
type resultsCache map[string]*blockprof.Results

func (c resultsCache) get(path string) (*blockprof.Results, error) {
	r, ok := c[path]
	if !ok {
		return nil, fmt.Errorf("results not loaded, call load_results with %q first", path)
	}
	return r, nil
}

func (*mcpCmd) Run() error {
	s := server.NewMCPServer(
		"blockprof",
		blockprof.Version,
		server.WithLogging(),
	)
	cache := resultsCache{}

	loadTool := mcp.NewTool("load_results",
		mcp.WithDescription("Load an exported blockprof results JSON file for analysis"),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Absolute path to the exported results JSON file"),
		),
	)
	s.AddTool(loadTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r, err := export.ReadJSONFile(path)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to load results: %v", err)), nil
		}
		cache[path] = r

		stats := analyze.ComputeStatistics(r)
		return mcp.NewToolResultText(fmt.Sprintf(
			"Results loaded.\n\nProfiler: %s\nTracks: %d\nBlocks: %d (%d active)\nTotal hits: %d\nTotal time: %s\n",
			stats.ProfilerName, stats.TrackCount, stats.BlockCount,
			stats.ActiveBlocks, stats.TotalHits,
			export.FormatDuration(stats.TotalNs))), nil
	})

	hotspotsTool := mcp.NewTool("hotspots",
		mcp.WithDescription("Rank the blocks consuming the most total time"),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path of a loaded results file"),
		),
		mcp.WithNumber("top_n",
			mcp.Description("Number of top blocks to return (default: 10)"),
		),
	)
	s.AddTool(hotspotsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r, err := cache.get(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		topN := int(request.GetFloat("top_n", 10))

		hotspots := analyze.FindHotspots(r, topN)
		if len(hotspots) == 0 {
			return mcp.NewToolResultText("No blocks recorded any hits."), nil
		}
		var sb strings.Builder
		for i, hs := range hotspots {
			sb.WriteString(analyze.FormatHotspot(hs, i+1))
			sb.WriteString("\n")
		}
		return mcp.NewToolResultText(sb.String()), nil
	})

	blockStatsTool := mcp.NewTool("block_stats",
		mcp.WithDescription("Show the statistics of blocks whose name matches a fuzzy pattern"),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path of a loaded results file"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Fuzzy block-name pattern"),
		),
	)
	s.AddTool(blockStatsTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := request.RequireString("file_path")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r, err := cache.get(path)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		matches := analyze.SearchBlocks(r, name)
		if len(matches) == 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No blocks match %q.", name)), nil
		}
		var sb strings.Builder
		for _, m := range matches {
			b := m.Block
			sb.WriteString(fmt.Sprintf(
				"%s (track %d, %s:%d)\n  hits %d, total %s, avg %s, min %s, max %s\n",
				b.Name, m.TrackIdx, b.File, b.Line, b.HitCount,
				export.FormatDuration(b.TotalNs), export.FormatDuration(uint64(b.AvgNs())),
				export.FormatDuration(b.MinNs), export.FormatDuration(b.MaxNs)))
		}
		return mcp.NewToolResultText(sb.String()), nil
	})

	return server.ServeStdio(s)
}
