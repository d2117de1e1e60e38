// Package config holds the YAML configuration for the minesweeper CLI:
// board shape, kernel settings, bench defaults, logging. Environment
// variables override file values so scripted runs can tweak a fixed config.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// BoardConfig describes the board to generate.
type BoardConfig struct {
	Height int   `yaml:"height"`
	Width  int   `yaml:"width"`
	Mines  int   `yaml:"mines"`
	Seed   int64 `yaml:"seed"` // 0 = time-based
}

// KernelConfig controls the Datalog audit kernel.
type KernelConfig struct {
	Enabled        bool `yaml:"enabled"`
	FactLimit      int  `yaml:"fact_limit"`
	QueryTimeoutMS int  `yaml:"query_timeout_ms"`
}

// QueryTimeout returns the query timeout as a duration.
func (k KernelConfig) QueryTimeout() time.Duration {
	return time.Duration(k.QueryTimeoutMS) * time.Millisecond
}

// BenchConfig holds batch-run defaults.
type BenchConfig struct {
	Games   int `yaml:"games"`
	Workers int `yaml:"workers"`
}

// LoggingConfig controls the zap logger built by the CLI.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Config is the root configuration.
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Kernel  KernelConfig  `yaml:"kernel"`
	Bench   BenchConfig   `yaml:"bench"`
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the classic beginner board with the kernel off.
func DefaultConfig() *Config {
	return &Config{
		Board: BoardConfig{Height: 8, Width: 8, Mines: 8},
		Kernel: KernelConfig{
			Enabled:        false,
			FactLimit:      100000,
			QueryTimeoutMS: 5000,
		},
		Bench:   BenchConfig{Games: 100, Workers: 4},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads a YAML config file, applies env overrides, and validates. A
// missing path returns the defaults (with overrides applied).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets the environment override file values:
// MINESWEEPER_SEED, MINESWEEPER_KERNEL, MINESWEEPER_LOG_LEVEL.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MINESWEEPER_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Board.Seed = seed
		}
	}
	if v := os.Getenv("MINESWEEPER_KERNEL"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Kernel.Enabled = enabled
		}
	}
	if v := os.Getenv("MINESWEEPER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the config for values no component could run with.
func (c *Config) Validate() error {
	if c.Board.Height <= 0 || c.Board.Width <= 0 {
		return fmt.Errorf("invalid board dimensions %dx%d", c.Board.Height, c.Board.Width)
	}
	if c.Board.Mines < 0 || c.Board.Mines > c.Board.Height*c.Board.Width {
		return fmt.Errorf("invalid mine count %d for a %dx%d board", c.Board.Mines, c.Board.Height, c.Board.Width)
	}
	if c.Kernel.FactLimit < 0 {
		return fmt.Errorf("invalid kernel fact limit %d", c.Kernel.FactLimit)
	}
	if c.Bench.Games < 0 || c.Bench.Workers < 0 {
		return fmt.Errorf("invalid bench settings: %d games, %d workers", c.Bench.Games, c.Bench.Workers)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	return nil
}
