package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Board.Height != 8 || cfg.Board.Width != 8 || cfg.Board.Mines != 8 {
		t.Errorf("expected 8x8 board with 8 mines, got %+v", cfg.Board)
	}
	if cfg.Kernel.Enabled {
		t.Error("kernel should default to off")
	}
	if cfg.Kernel.QueryTimeout() != 5*time.Second {
		t.Errorf("expected 5s query timeout, got %v", cfg.Kernel.QueryTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("MINESWEEPER_SEED", "")
	t.Setenv("MINESWEEPER_KERNEL", "")
	t.Setenv("MINESWEEPER_LOG_LEVEL", "")

	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Board.Height = 16
	cfg.Board.Mines = 40
	cfg.Board.Width = 16
	cfg.Kernel.Enabled = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Board.Height != 16 || loaded.Board.Mines != 40 {
		t.Errorf("expected 16x16/40, got %+v", loaded.Board)
	}
	if !loaded.Kernel.Enabled {
		t.Error("expected kernel enabled after round trip")
	}
}

func TestConfig_LoadMissingPathUsesDefaults(t *testing.T) {
	t.Setenv("MINESWEEPER_SEED", "")
	t.Setenv("MINESWEEPER_KERNEL", "")
	t.Setenv("MINESWEEPER_LOG_LEVEL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Board.Height != 8 {
		t.Errorf("expected default board, got %+v", cfg.Board)
	}
}

func TestConfig_LoadNonexistentFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MINESWEEPER_SEED", "1234")
	t.Setenv("MINESWEEPER_KERNEL", "true")
	t.Setenv("MINESWEEPER_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Board.Seed != 1234 {
		t.Errorf("expected seed 1234, got %d", cfg.Board.Seed)
	}
	if !cfg.Kernel.Enabled {
		t.Error("expected kernel enabled via env")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
}

func TestConfig_EnvOverridesIgnoreGarbage(t *testing.T) {
	t.Setenv("MINESWEEPER_SEED", "not-a-number")
	t.Setenv("MINESWEEPER_KERNEL", "maybe")
	t.Setenv("MINESWEEPER_LOG_LEVEL", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Board.Seed != 0 {
		t.Errorf("garbage seed should be ignored, got %d", cfg.Board.Seed)
	}
	if cfg.Kernel.Enabled {
		t.Error("garbage kernel flag should be ignored")
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero height", func(c *Config) { c.Board.Height = 0 }},
		{"negative width", func(c *Config) { c.Board.Width = -2 }},
		{"too many mines", func(c *Config) { c.Board.Mines = 1000 }},
		{"negative mines", func(c *Config) { c.Board.Mines = -1 }},
		{"negative fact limit", func(c *Config) { c.Kernel.FactLimit = -1 }},
		{"negative games", func(c *Config) { c.Bench.Games = -1 }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
