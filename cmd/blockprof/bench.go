// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"time"

	"github.com/pkg/profile"

	"github.com/blockprof/blockprof"
	"github.com/blockprof/blockprof/export"
)

type benchCmd struct {
	Iterations int    `default:"1000000" short:"i" help:"Calls per measurement pass."`
	Profile    string `enum:",cpu,mem" default:"" help:"Write a pprof profile of the benchmark run (${enum})."`
	Dir        string `default:"." type:"existingdir" help:"Profile output directory."`
}

// sink defeats dead-code elimination of the benchmark workload.
var sink uint64

func work() { sink++ }

func (c *benchCmd) Run() error {
	if c.Profile != "" {
		opt := profile.CPUProfile
		if c.Profile == "mem" {
			opt = profile.MemProfile
		}
		defer profile.Start(opt, profile.ProfilePath(c.Dir), profile.Quiet).Stop()
	}

	p := blockprof.New("bench")
	wrapped := p.WrapFunc(0, "work", work)
	scoped := func() {
		defer p.Block(1, "work").End()
		work()
	}

	baseline := measure(c.Iterations, work)
	wrappedCost := measure(c.Iterations, wrapped)
	scopedCost := measure(c.Iterations, scoped)

	p.Stop()
	stoppedCost := measure(c.Iterations, wrapped)

	fmt.Printf("iterations:        %d\n", c.Iterations)
	fmt.Printf("baseline:          %s/call\n", export.FormatDuration(baseline))
	fmt.Printf("wrapped:           %s/call (+%s overhead)\n",
		export.FormatDuration(wrappedCost), export.FormatDuration(delta(wrappedCost, baseline)))
	fmt.Printf("scoped:            %s/call (+%s overhead)\n",
		export.FormatDuration(scopedCost), export.FormatDuration(delta(scopedCost, baseline)))
	fmt.Printf("wrapped (stopped): %s/call (+%s overhead)\n",
		export.FormatDuration(stoppedCost), export.FormatDuration(delta(stoppedCost, baseline)))
	return nil
}

// measure returns the mean per-call cost of fn in nanoseconds.
func measure(iterations int, fn func()) uint64 {
	// Warm up call-site registration and the scheduler.
	for i := 0; i < 1000; i++ {
		fn()
	}
	start := time.Now()
	for i := 0; i < iterations; i++ {
		fn()
	}
	return uint64(time.Since(start).Nanoseconds()) / uint64(iterations)
}

func delta(cost, baseline uint64) uint64 {
	if cost < baseline {
		return 0
	}
	return cost - baseline
}
