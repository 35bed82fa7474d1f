// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for xanny.
//
// Configuration comes from three layers, later layers winning:
//   - Built-in defaults
//   - ~/.xanny/config.toml
//   - Environment variables (GROQ_API_KEY, XANNY_*, ...)
//
// A .env file in the working directory is loaded into the environment at
// startup before any of this runs.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"

	"github.com/xannyai/xanny-tui/internal/model"
	"github.com/xannyai/xanny-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete application configuration.
type Config struct {
	// DefaultModel is selected at startup
	DefaultModel string `toml:"default_model" env:"XANNY_DEFAULT_MODEL"`

	// FallbackModel takes over when the default's daily quota runs out
	FallbackModel string `toml:"fallback_model" env:"XANNY_FALLBACK_MODEL"`

	// Keys holds per-provider API credentials
	Keys KeysConfig `toml:"keys"`

	// Quota configures the limited-tier daily cap
	Quota QuotaConfig `toml:"quota"`

	// Storage configures on-disk paths
	Storage StorageConfig `toml:"storage"`

	// Log configures logging output
	Log LogConfig `toml:"log"`

	// UI configures the terminal interface
	UI UIConfig `toml:"ui"`
}

// KeysConfig holds provider API keys. Keys normally come from the
// environment; the TOML fields exist for single-user machines.
type KeysConfig struct {
	Groq      string `toml:"groq" env:"GROQ_API_KEY"`
	OpenAI    string `toml:"openai" env:"OPENAI_API_KEY"`
	Anthropic string `toml:"anthropic" env:"ANTHROPIC_API_KEY"`
	Google    string `toml:"google" env:"GEMINI_API_KEY"`
}

// QuotaConfig configures the limited-tier quota.
type QuotaConfig struct {
	// DailyLimit is the number of limited-tier requests per day
	DailyLimit int `toml:"daily_limit" env:"XANNY_DAILY_LIMIT"`
}

// StorageConfig configures where data lives on disk.
type StorageConfig struct {
	// DBPath is the chat database file (empty = ~/.xanny/xanny.db)
	DBPath string `toml:"db_path" env:"XANNY_DB_PATH"`

	// ExportDir receives backup and transcript exports (empty = cwd)
	ExportDir string `toml:"export_dir" env:"XANNY_EXPORT_DIR"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level" env:"XANNY_LOG_LEVEL"`

	// File receives the JSON log stream (empty = ~/.xanny/xanny.log)
	File string `toml:"file" env:"XANNY_LOG_FILE"`
}

// UIConfig configures the terminal interface.
type UIConfig struct {
	// Theme is "dark", "light", or "auto"
	Theme string `toml:"theme" env:"XANNY_THEME"`
}

// =============================================================================
// DEFAULTS AND PATHS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultModel:  "llama-3.3-70b-versatile",
		FallbackModel: "llama-3.1-8b-instant",
		Quota:         QuotaConfig{DailyLimit: 20},
		Log:           LogConfig{Level: "info"},
		UI:            UIConfig{Theme: "auto"},
	}
}

// Dir returns the xanny config directory (~/.xanny).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".xanny"), nil
}

// Path returns the config file path (~/.xanny/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads configuration from defaults, the TOML file, and the
// environment, in that order of precedence.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads configuration with an explicit TOML path. A missing file
// is not an error; defaults and environment still apply.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	cfg.fillPaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillPaths resolves empty path fields to their conventional locations.
func (c *Config) fillPaths() {
	dir, err := Dir()
	if err != nil {
		return
	}
	if c.Storage.DBPath == "" {
		c.Storage.DBPath = filepath.Join(dir, "xanny.db")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(dir, "xanny.log")
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Quota.DailyLimit <= 0 {
		return fmt.Errorf("quota.daily_limit must be positive, got %d", c.Quota.DailyLimit)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error, got %q", c.Log.Level)
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light, or auto, got %q", c.UI.Theme)
	}
	if c.DefaultModel == "" {
		return fmt.Errorf("default_model must not be empty")
	}
	return nil
}

// Save writes the configuration to its conventional path atomically.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration as TOML to path atomically.
func SaveTo(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// 0600: the file may hold API keys.
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// =============================================================================
// DERIVED VIEWS
// =============================================================================

// ModelKeys reports which provider credentials are present.
func (c *Config) ModelKeys() model.Keys {
	return model.Keys{
		Groq:      c.Keys.Groq != "",
		OpenAI:    c.Keys.OpenAI != "",
		Anthropic: c.Keys.Anthropic != "",
		Google:    c.Keys.Google != "",
	}
}

// HasAnyKey reports whether at least one provider credential is configured.
func (c *Config) HasAnyKey() bool {
	k := c.ModelKeys()
	return k.Groq || k.OpenAI || k.Anthropic || k.Google
}
