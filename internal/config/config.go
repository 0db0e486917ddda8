// Copyright 2026 The gdbsearch Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the optional gdbsearch.toml file, the ambient
// configuration layer underneath CLI flags: search directories, default
// probe and predicate, and logging settings.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the decoded shape of gdbsearch.toml. Every field has a
// built-in default (see Default) that a missing or partial file falls
// back to.
type Config struct {
	SearchDirs   []string `toml:"search_dirs"`
	DefaultProbe string   `toml:"default_probe"`
	DefaultExpr  string   `toml:"default_expr"`
	LogLevel     string   `toml:"log_level"`
	LogFile      string   `toml:"log_file"`
}

// Default returns the built-in configuration used when no file is found.
func Default() Config {
	return Config{
		DefaultProbe: "private_mem",
		DefaultExpr:  "n > p",
		LogLevel:     "info",
		LogFile:      "gdbsearch.log",
	}
}

// Load reads and decodes the TOML file at path, overlaying it on Default.
// A missing file is not an error: Load returns the defaults unchanged, so
// a run with no --config and no ./gdbsearch.toml behaves identically to
// one with an empty file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: stat %s: %w", path, err)
	}

	var file Config
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	cfg.merge(file)
	return cfg, nil
}

// merge overlays any field set in override onto c, leaving c's defaults in
// place for everything the file left blank.
func (c *Config) merge(override Config) {
	if len(override.SearchDirs) > 0 {
		c.SearchDirs = override.SearchDirs
	}
	if override.DefaultProbe != "" {
		c.DefaultProbe = override.DefaultProbe
	}
	if override.DefaultExpr != "" {
		c.DefaultExpr = override.DefaultExpr
	}
	if override.LogLevel != "" {
		c.LogLevel = override.LogLevel
	}
	if override.LogFile != "" {
		c.LogFile = override.LogFile
	}
}
