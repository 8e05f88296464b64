// Package config provides configuration parsing for pulse-monitor.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/pulse-monitor/procview"
)

// Config represents the pulse-monitor configuration.
type Config struct {
	// Sampler holds sampling engine settings.
	Sampler SamplerConfig `yaml:"sampler"`

	// ProcessView holds default process view settings.
	ProcessView ProcessViewConfig `yaml:"process_view"`

	// Log holds logging settings.
	Log LogConfig `yaml:"log"`
}

// SamplerConfig holds sampling engine settings.
type SamplerConfig struct {
	// IntervalMS is the tick interval in milliseconds, minimum 1.
	IntervalMS int `yaml:"interval_ms"`
	// HistorySamples is the fixed length of each history series.
	HistorySamples int `yaml:"history_samples"`
	// DiskFallbackPath is probed for disk usage when no partition
	// is readable. Platform-dependent, so configurable rather than
	// hard-coded.
	DiskFallbackPath string `yaml:"disk_fallback_path"`
}

// Interval returns the tick interval as a duration.
func (c SamplerConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// ProcessViewConfig holds default process view settings. The display
// layer can change all of these at runtime; these are starting values.
type ProcessViewConfig struct {
	// TopN bounds the number of processes shown, minimum 1.
	TopN int `yaml:"top_n"`
	// Sort is the initial sort key: cpu, ram, pid, or name.
	Sort string `yaml:"sort"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// File is the log output path. Empty logs to stderr.
	File string `yaml:"file"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sampler: SamplerConfig{
			IntervalMS:       1000,
			HistorySamples:   120,
			DiskFallbackPath: "/",
		},
		ProcessView: ProcessViewConfig{
			TopN: 30,
			Sort: "cpu",
		},
		Log: LogConfig{
			File: "",
		},
	}
}

// LoadConfig loads configuration from a YAML file, merging with defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for required fields and logical consistency.
func (c *Config) Validate() error {
	if c.Sampler.IntervalMS < 1 {
		return fmt.Errorf("sampler.interval_ms must be at least 1, got %d", c.Sampler.IntervalMS)
	}
	if c.Sampler.HistorySamples < 1 {
		return fmt.Errorf("sampler.history_samples must be at least 1, got %d", c.Sampler.HistorySamples)
	}
	if c.Sampler.DiskFallbackPath == "" {
		return fmt.Errorf("sampler.disk_fallback_path is required")
	}

	if c.ProcessView.TopN < 1 {
		return fmt.Errorf("process_view.top_n must be at least 1, got %d", c.ProcessView.TopN)
	}
	if _, err := procview.ParseSortKey(c.ProcessView.Sort); err != nil {
		return fmt.Errorf("process_view.sort must be cpu, ram, pid, or name, got %q", c.ProcessView.Sort)
	}

	return nil
}

// SortKey returns the parsed process view sort key. Call Validate first;
// an unparseable key falls back to CPU here.
func (c *Config) SortKey() procview.SortKey {
	key, err := procview.ParseSortKey(c.ProcessView.Sort)
	if err != nil {
		return procview.SortCPU
	}
	return key
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
