// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package export renders aggregated profiling results as CSV, JSON or a
// styled console report. All renderers consume a Results snapshot
// read-only; take the snapshot once and feed it to as many renderers as
// needed.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/blockprof/blockprof"
)

// CSV column layout, compatible with the CppProfiler export format.
var csvHeader = []string{
	"Track", "Block Name", "Hit Count", "Total Time (ns)",
	"Avg Time (ns)", "Min Time (ns)", "Max Time (ns)", "% Track", "% Total",
}

// WriteCSV renders one row per block, tracks in ascending index order and
// blocks in registration order. The "% Track" and "% Total" columns give
// each block's share of its track's and the profiler's total time.
func WriteCSV(w io.Writer, r *blockprof.Results) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}

	grandTotal := r.TotalNs()
	for _, idx := range r.TrackIndexes() {
		track := r.Track(idx)
		trackTotal := track.TotalNs()
		for _, b := range track.Blocks {
			row := []string{
				trackLabel(track),
				b.Name,
				strconv.FormatUint(b.HitCount, 10),
				strconv.FormatUint(b.TotalNs, 10),
				strconv.FormatUint(uint64(b.AvgNs()), 10),
				strconv.FormatUint(b.MinNs, 10),
				strconv.FormatUint(b.MaxNs, 10),
				percent(b.TotalNs, trackTotal),
				percent(b.TotalNs, grandTotal),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("export: write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush csv: %w", err)
	}
	return nil
}

// WriteCSVFile writes the CSV rendering to path, creating or truncating
// the file.
func WriteCSVFile(path string, r *blockprof.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := WriteCSV(f, r); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

// jsonDoc is the document shape of the JSON export: profiler name at the
// top, tracks as an ordered array rather than a map.
type jsonDoc struct {
	ProfilerName string      `json:"profiler_name"`
	Tracks       []jsonTrack `json:"tracks"`
}

type jsonTrack struct {
	TrackIdx    int         `json:"track_idx"`
	TrackName   string      `json:"track_name"`
	TotalTimeNs uint64      `json:"total_time_ns"`
	TotalHits   uint64      `json:"total_hits"`
	Blocks      []jsonBlock `json:"blocks"`
}

type jsonBlock struct {
	Name        string `json:"name"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	HitCount    uint64 `json:"hit_count"`
	TotalTimeNs uint64 `json:"total_time_ns"`
	AvgTimeNs   uint64 `json:"avg_time_ns"`
	MinTimeNs   uint64 `json:"min_time_ns"`
	MaxTimeNs   uint64 `json:"max_time_ns"`
}

func document(r *blockprof.Results) jsonDoc {
	doc := jsonDoc{
		ProfilerName: r.ProfilerName,
		Tracks:       make([]jsonTrack, 0, len(r.Tracks)),
	}
	for _, idx := range r.TrackIndexes() {
		track := r.Track(idx)
		jt := jsonTrack{
			TrackIdx:    idx,
			TrackName:   track.Name,
			TotalTimeNs: track.TotalNs(),
			TotalHits:   track.TotalHits(),
			Blocks:      make([]jsonBlock, 0, len(track.Blocks)),
		}
		for _, b := range track.Blocks {
			jt.Blocks = append(jt.Blocks, jsonBlock{
				Name:        b.Name,
				File:        b.File,
				Line:        b.Line,
				HitCount:    b.HitCount,
				TotalTimeNs: b.TotalNs,
				AvgTimeNs:   uint64(b.AvgNs()),
				MinTimeNs:   b.MinNs,
				MaxTimeNs:   b.MaxNs,
			})
		}
		doc.Tracks = append(doc.Tracks, jt)
	}
	return doc
}

// WriteJSON renders the hierarchical JSON document, indented for human
// consumption.
func WriteJSON(w io.Writer, r *blockprof.Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document(r)); err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	return nil
}

// WriteJSONFile writes the JSON rendering to path, creating or
// truncating the file.
func WriteJSONFile(path string, r *blockprof.Results) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	if err := WriteJSON(f, r); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

// trackLabel prefers the configured display name, falling back to the
// numeric index.
func trackLabel(t *blockprof.Track) string {
	if t.Name != "" {
		return t.Name
	}
	return "Track " + strconv.Itoa(t.Idx)
}

func percent(part, whole uint64) string {
	if whole == 0 {
		return "0.00"
	}
	return strconv.FormatFloat(float64(part)/float64(whole)*100, 'f', 2, 64)
}
