// Package model defines the data structures for scrubexif's configuration,
// scrub outcomes, and run summaries.
package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Duplicate policies for auto mode.
const (
	DuplicateDelete = "delete"
	DuplicateMove   = "move"
)

type Config struct {
	Photos  PhotosConfig  `yaml:"photos"`
	Scrub   ScrubConfig   `yaml:"scrub"`
	State   StateConfig   `yaml:"state"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// PhotosConfig describes the four directory roles. Empty role paths are
// derived from Root in ResolveDirs.
type PhotosConfig struct {
	Root      string `yaml:"root"`
	Input     string `yaml:"input"`
	Output    string `yaml:"output"`
	Processed string `yaml:"processed"`
	Errors    string `yaml:"errors"`
}

type ScrubConfig struct {
	StableSeconds  int    `yaml:"stable_seconds"`
	OnDuplicate    string `yaml:"on_duplicate"`
	Paranoia       bool   `yaml:"paranoia"`
	DeleteOriginal bool   `yaml:"delete_original"`
	Artist         string `yaml:"artist"`
	Copyright      string `yaml:"copyright"`
	Comment        string `yaml:"comment"`
}

type StateConfig struct {
	File string `yaml:"file"`
}

type WatchConfig struct {
	DebounceSec     float64 `yaml:"debounce_sec"`
	ScanIntervalSec int     `yaml:"scan_interval_sec"`
	MetricsListen   string  `yaml:"metrics_listen"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the built-in configuration matching the container
// layout under /photos.
func DefaultConfig() Config {
	return Config{
		Photos: PhotosConfig{Root: "/photos"},
		Scrub: ScrubConfig{
			OnDuplicate: DuplicateDelete,
		},
		Watch: WatchConfig{
			DebounceSec:     2.0,
			ScanIntervalSec: 60,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig merges an optional YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays SCRUBEXIF_* environment variables onto cfg. Flags applied
// afterwards take precedence over both the environment and the config file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SCRUBEXIF_PHOTOS_ROOT"); v != "" {
		c.Photos.Root = v
	}
	if v := os.Getenv("SCRUBEXIF_ON_DUPLICATE"); v != "" {
		c.Scrub.OnDuplicate = v
	}
	if v := os.Getenv("SCRUBEXIF_STABLE_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Scrub.StableSeconds = n
		}
	}
}

// ResolveDirs fills empty directory roles from the photos root.
func (c *Config) ResolveDirs() {
	if c.Photos.Input == "" {
		c.Photos.Input = filepath.Join(c.Photos.Root, "input")
	}
	if c.Photos.Output == "" {
		c.Photos.Output = filepath.Join(c.Photos.Root, "output")
	}
	if c.Photos.Processed == "" {
		c.Photos.Processed = filepath.Join(c.Photos.Root, "processed")
	}
	if c.Photos.Errors == "" {
		c.Photos.Errors = filepath.Join(c.Photos.Root, "errors")
	}
}

// Validate rejects option values the pipeline cannot act on.
func (c *Config) Validate() error {
	switch c.Scrub.OnDuplicate {
	case DuplicateDelete, DuplicateMove:
	default:
		return fmt.Errorf("invalid on_duplicate policy %q (want %q or %q)",
			c.Scrub.OnDuplicate, DuplicateDelete, DuplicateMove)
	}
	if c.Scrub.StableSeconds < 0 {
		return fmt.Errorf("stable_seconds must be >= 0, got %d", c.Scrub.StableSeconds)
	}
	return nil
}
