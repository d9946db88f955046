// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/blockprof/blockprof"
	"github.com/blockprof/blockprof/internal/prof/block"
)

// ReadJSON parses a document produced by [WriteJSON] back into a Results
// snapshot, for offline analysis of exported runs.
func ReadJSON(rd io.Reader) (*blockprof.Results, error) {
	var doc jsonDoc
	if err := json.NewDecoder(rd).Decode(&doc); err != nil {
		return nil, fmt.Errorf("export: decode json: %w", err)
	}

	r := block.NewResults(doc.ProfilerName)
	for _, jt := range doc.Tracks {
		if jt.TrackIdx < 0 {
			return nil, fmt.Errorf("export: negative track index %d", jt.TrackIdx)
		}
		track := &blockprof.Track{Idx: jt.TrackIdx, Name: jt.TrackName}
		for i, jb := range jt.Blocks {
			track.Blocks = append(track.Blocks, blockprof.BlockStats{
				TrackIdx: jt.TrackIdx,
				Idx:      i,
				Name:     jb.Name,
				File:     jb.File,
				Line:     jb.Line,
				HitCount: jb.HitCount,
				TotalNs:  jb.TotalTimeNs,
				MinNs:    jb.MinTimeNs,
				MaxNs:    jb.MaxTimeNs,
			})
		}
		r.Tracks[jt.TrackIdx] = track
	}
	return r, nil
}

// ReadJSONFile loads an exported JSON results file.
func ReadJSONFile(path string) (*blockprof.Results, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("export: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
