// Copyright 2025 The blockprof Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads profiler settings from YAML with environment
// variable overrides.
//
// A config file names the profiler-independent bits of an instrumented
// deployment: the process-wide switch, per-track names and enablement,
// and where results should land on export.
//
//	enabled: true
//	export:
//	  path: /var/log/app/profile.json
//	  format: json
//	tracks:
//	  - idx: 0
//	    name: Request Handling
//	  - idx: 1
//	    name: Database
//	    enabled: false
//
// Environment variables override the file: BLOCKPROF_ENABLED,
// BLOCKPROF_EXPORT_PATH, BLOCKPROF_EXPORT_FORMAT, and
// BLOCKPROF_TRACK_<idx>_NAME / BLOCKPROF_TRACK_<idx>_ENABLED.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/blockprof/blockprof"
)

const envPrefix = "BLOCKPROF_"

// Track configures one track.
type Track struct {
	Idx  int    `yaml:"idx"`
	Name string `yaml:"name"`

	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled"`
}

// Export names the default destination for exported results.
type Export struct {
	Path string `yaml:"path"`

	// Format is "csv" or "json".
	Format string `yaml:"format"`
}

// Config is the root document.
type Config struct {
	// Enabled drives the process-wide switch. Defaults to true.
	Enabled *bool `yaml:"enabled"`

	Export Export  `yaml:"export"`
	Tracks []Track `yaml:"tracks"`
}

// Load reads and validates a YAML config file, then folds in any
// environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.fromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a config from environment variables alone.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := cfg.fromEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Export.Format) {
	case "", "csv", "json":
	default:
		return fmt.Errorf("config: unknown export format %q", c.Export.Format)
	}
	for _, t := range c.Tracks {
		if t.Idx < 0 {
			return fmt.Errorf("config: negative track index %d", t.Idx)
		}
	}
	return nil
}

// fromEnv overlays BLOCKPROF_* variables onto the config.
func (c *Config) fromEnv() error {
	if v, ok := os.LookupEnv(envPrefix + "ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %sENABLED=%q: %w", envPrefix, v, err)
		}
		c.Enabled = &b
	}
	if v, ok := os.LookupEnv(envPrefix + "EXPORT_PATH"); ok {
		c.Export.Path = v
	}
	if v, ok := os.LookupEnv(envPrefix + "EXPORT_FORMAT"); ok {
		c.Export.Format = v
	}

	for _, kv := range os.Environ() {
		name, value, _ := strings.Cut(kv, "=")
		rest, ok := strings.CutPrefix(name, envPrefix+"TRACK_")
		if !ok {
			continue
		}
		idxStr, field, ok := strings.Cut(rest, "_")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(idxStr)
		if err != nil || idx < 0 {
			return fmt.Errorf("config: bad track index in %s", name)
		}

		t := c.track(idx)
		switch field {
		case "NAME":
			t.Name = value
		case "ENABLED":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("config: %s=%q: %w", name, value, err)
			}
			t.Enabled = &b
		default:
			return fmt.Errorf("config: unknown track field in %s", name)
		}
	}

	sort.Slice(c.Tracks, func(i, j int) bool { return c.Tracks[i].Idx < c.Tracks[j].Idx })
	return nil
}

// track finds or appends the entry for idx.
func (c *Config) track(idx int) *Track {
	for i := range c.Tracks {
		if c.Tracks[i].Idx == idx {
			return &c.Tracks[i]
		}
	}
	c.Tracks = append(c.Tracks, Track{Idx: idx})
	return &c.Tracks[len(c.Tracks)-1]
}

// IsEnabled reports the configured process-wide switch, defaulting to
// enabled.
func (c *Config) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Apply pushes the configuration into a live profiler: the process-wide
// switch, then every track's name and enablement.
func (c *Config) Apply(p *blockprof.Profiler) error {
	blockprof.SetGlobalEnabled(c.IsEnabled())

	for _, t := range c.Tracks {
		if t.Name != "" {
			if err := p.SetTrackName(t.Idx, t.Name); err != nil {
				return fmt.Errorf("config: track %d name: %w", t.Idx, err)
			}
		}
		if t.Enabled != nil {
			if err := p.SetTrackEnabled(t.Idx, *t.Enabled); err != nil {
				return fmt.Errorf("config: track %d enabled: %w", t.Idx, err)
			}
		}
	}
	return nil
}
