// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command blockprof analyzes exported profiling results and measures
// instrumentation overhead.
//
// Usage:
//
//	blockprof report results.json [--top N] [--filter EXPR] [--find NAME] [--format table|csv|json]
//	blockprof bench [--iterations N] [--profile cpu|mem]
//	blockprof mcp
package main

import (
	"github.com/alecthomas/kong"

	"github.com/blockprof/blockprof"
)

var cli struct {
	Report reportCmd `cmd:"" help:"Render an exported results file."`
	Bench  benchCmd  `cmd:"" help:"Measure the profiler's per-call overhead."`
	MCP    mcpCmd    `cmd:"" name:"mcp" help:"Serve results analysis tools over the Model Context Protocol."`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("blockprof"),
		kong.Description("Block-level instrumentation profiler toolkit (v"+blockprof.Version+")."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
