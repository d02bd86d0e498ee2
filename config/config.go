// Package config loads locofilter settings from defaults, TOML files,
// LOCOFILTER_* environment variables and command flags, in that order of
// increasing precedence.
package config

import (
	"time"

	"github.com/teranos/locofilter/errors"
)

// Config represents the locofilter configuration
type Config struct {
	Filter FilterConfig `mapstructure:"filter" json:"filter" yaml:"filter" toml:"filter"`
	Output OutputConfig `mapstructure:"output" json:"output" yaml:"output" toml:"output"`
	Log    LogConfig    `mapstructure:"log" json:"log" yaml:"log" toml:"log"`
}

// FilterConfig configures a filter run
type FilterConfig struct {
	Workers   int    `mapstructure:"workers" json:"workers" yaml:"workers" toml:"workers"`             // 0 = min(32, NumCPU+4)
	OutputDir string `mapstructure:"output_dir" json:"output_dir" yaml:"output_dir" toml:"output_dir"` // default ./filtered_backup
	Timezone  string `mapstructure:"timezone" json:"timezone" yaml:"timezone" toml:"timezone"`         // wall clock for --days, "Local" or an IANA name
}

// OutputConfig configures checks on the output volume
type OutputConfig struct {
	MinFreeMB int `mapstructure:"min_free_mb" json:"min_free_mb" yaml:"min_free_mb" toml:"min_free_mb"` // 0 disables the check
}

// LogConfig configures log output
type LogConfig struct {
	JSON  bool   `mapstructure:"json" json:"json" yaml:"json" toml:"json"`
	Theme string `mapstructure:"theme" json:"theme" yaml:"theme" toml:"theme"` // gruvbox, everforest
}

// DefaultOutputDir is used when neither flag nor config names an output directory
const DefaultOutputDir = "./filtered_backup"

// DefaultMinFreeMB is the free space the output volume must have before a run
const DefaultMinFreeMB = 64

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	switch c.Filter.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Filter.Timezone)
	if err != nil {
		return nil, errors.WithHint(
			errors.MarkConfiguration(errors.Wrapf(err, "filter.timezone %q", c.Filter.Timezone)),
			"use Local or an IANA zone name such as Europe/Berlin")
	}
	return loc, nil
}
