// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package analyze

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/blockprof/blockprof/internal/prof/block"
)

// blockEnv is the expression environment for one block. Field names are
// the identifiers available in filter expressions.
type blockEnv struct {
	Name    string `expr:"name"`
	Track   int    `expr:"track"`
	Hits    uint64 `expr:"hits"`
	TotalNs uint64 `expr:"total_ns"`
	AvgNs   uint64 `expr:"avg_ns"`
	MinNs   uint64 `expr:"min_ns"`
	MaxNs   uint64 `expr:"max_ns"`
}

// Filter is a compiled block predicate, e.g.
// `hits > 100 && avg_ns > 1_000_000` or `name startsWith "query"`.
type Filter struct {
	program *vm.Program
}

// CompileFilter compiles source into a boolean predicate over blocks.
func CompileFilter(source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.Env(blockEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("analyze: compile filter %q: %w", source, err)
	}
	return &Filter{program: program}, nil
}

// Match evaluates the predicate against one block.
func (f *Filter) Match(trackIdx int, b block.BlockStats) (bool, error) {
	out, err := vm.Run(f.program, blockEnv{
		Name:    b.Name,
		Track:   trackIdx,
		Hits:    b.HitCount,
		TotalNs: b.TotalNs,
		AvgNs:   uint64(b.AvgNs()),
		MinNs:   b.MinNs,
		MaxNs:   b.MaxNs,
	})
	if err != nil {
		return false, fmt.Errorf("analyze: eval filter: %w", err)
	}
	return out.(bool), nil
}

// FilterResults builds a new snapshot containing only the blocks the
// predicate accepts. Blocks keep their original indexes; tracks left
// empty are dropped.
func FilterResults(r *block.Results, f *Filter) (*block.Results, error) {
	out := block.NewResults(r.ProfilerName)
	for _, idx := range r.TrackIndexes() {
		track := r.Track(idx)
		for _, b := range track.Blocks {
			ok, err := f.Match(idx, b)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			t := out.Track(idx)
			if t == nil {
				t = &block.Track{Idx: idx, Name: track.Name}
				out.Tracks[idx] = t
			}
			t.Blocks = append(t.Blocks, b)
		}
	}
	return out, nil
}
