// Package config loads the HCL configuration of the poker-odds tools.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete tool configuration
type Config struct {
	Equity  *EquityConfig  `hcl:"equity,block"`
	History *HistoryConfig `hcl:"history,block"`
	Log     *LogConfig     `hcl:"log,block"`
}

// EquityConfig controls the equity simulator
type EquityConfig struct {
	Samples int   `hcl:"samples,optional"`
	Workers int   `hcl:"workers,optional"`
	Seed    int64 `hcl:"seed,optional"`
	// OpponentRange is the range assumed for opponents without one; "any"
	// means a random hand.
	OpponentRange string `hcl:"opponent_range,optional"`
	// RangeCacheSize bounds the parsed range cache.
	RangeCacheSize int `hcl:"range_cache_size,optional"`
}

// HistoryConfig locates the hand-history database
type HistoryConfig struct {
	Path string `hcl:"path,optional"`
	Dir  string `hcl:"dir,optional"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

const (
	DefaultSamples        = 1000
	DefaultOpponentRange  = "any"
	DefaultRangeCacheSize = 256
	DefaultHistoryDir     = "db"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
)

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error"}
	validFormats = []string{"console", "json"}
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return LoadBytes(src, filename)
}

// LoadBytes parses configuration from HCL source. filename is only used in
// diagnostics.
func LoadBytes(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// applyDefaults fills blocks and values that were left out.
func (c *Config) applyDefaults() {
	if c.Equity == nil {
		c.Equity = &EquityConfig{}
	}
	if c.History == nil {
		c.History = &HistoryConfig{}
	}
	if c.Log == nil {
		c.Log = &LogConfig{}
	}

	if c.Equity.Samples == 0 {
		c.Equity.Samples = DefaultSamples
	}
	if c.Equity.OpponentRange == "" {
		c.Equity.OpponentRange = DefaultOpponentRange
	}
	if c.Equity.RangeCacheSize == 0 {
		c.Equity.RangeCacheSize = DefaultRangeCacheSize
	}
	if c.History.Path == "" && c.History.Dir == "" {
		c.History.Dir = DefaultHistoryDir
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Equity.Samples <= 0 {
		return fmt.Errorf("equity: samples must be positive, got %d", c.Equity.Samples)
	}
	if c.Equity.Workers < 0 {
		return fmt.Errorf("equity: workers must not be negative, got %d", c.Equity.Workers)
	}
	if c.Equity.RangeCacheSize <= 0 {
		return fmt.Errorf("equity: range_cache_size must be positive, got %d", c.Equity.RangeCacheSize)
	}
	if !slices.Contains(validLevels, c.Log.Level) {
		return fmt.Errorf("log: invalid level %q", c.Log.Level)
	}
	if !slices.Contains(validFormats, c.Log.Format) {
		return fmt.Errorf("log: invalid format %q", c.Log.Format)
	}
	return nil
}

// RandomOpponents reports whether opponents hold a random hand.
func (e *EquityConfig) RandomOpponents() bool {
	switch strings.ToLower(strings.TrimSpace(e.OpponentRange)) {
	case "", "any", "random":
		return true
	}
	return false
}
