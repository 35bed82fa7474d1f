// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.DefaultModel != "llama-3.3-70b-versatile" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.FallbackModel != "llama-3.1-8b-instant" {
		t.Errorf("FallbackModel = %q", cfg.FallbackModel)
	}
	if cfg.Quota.DailyLimit != 20 {
		t.Errorf("DailyLimit = %d, want 20", cfg.Quota.DailyLimit)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.DefaultModel != Default().DefaultModel {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Storage.DBPath == "" || cfg.Log.File == "" {
		t.Error("paths should be filled with conventional defaults")
	}
}

func TestLoadFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
default_model = "gpt-4o"
fallback_model = "gpt-4o-mini"

[quota]
daily_limit = 5

[keys]
groq = "gsk-test"

[log]
level = "debug"

[ui]
theme = "dark"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.DefaultModel != "gpt-4o" {
		t.Errorf("DefaultModel = %q", cfg.DefaultModel)
	}
	if cfg.Quota.DailyLimit != 5 {
		t.Errorf("DailyLimit = %d", cfg.Quota.DailyLimit)
	}
	if !cfg.ModelKeys().Groq {
		t.Error("Groq key should be reported present")
	}
	if cfg.ModelKeys().OpenAI {
		t.Error("OpenAI key should be reported absent")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`default_model = "from-file"`), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XANNY_DEFAULT_MODEL", "from-env")
	t.Setenv("GROQ_API_KEY", "gsk-env")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.DefaultModel != "from-env" {
		t.Errorf("DefaultModel = %q, env should win", cfg.DefaultModel)
	}
	if cfg.Keys.Groq != "gsk-env" {
		t.Errorf("Keys.Groq = %q", cfg.Keys.Groq)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero daily limit", func(c *Config) { c.Quota.DailyLimit = 0 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad theme", func(c *Config) { c.UI.Theme = "solarized" }},
		{"empty default model", func(c *Config) { c.DefaultModel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.DefaultModel = "claude-3-haiku-20240307"
	cfg.Keys.Anthropic = "sk-ant-test"
	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %o, want 0600", info.Mode().Perm())
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.DefaultModel != "claude-3-haiku-20240307" {
		t.Errorf("DefaultModel = %q", loaded.DefaultModel)
	}
	if loaded.Keys.Anthropic != "sk-ant-test" {
		t.Errorf("Keys.Anthropic = %q", loaded.Keys.Anthropic)
	}
}
