// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// xanny is a terminal chat client for hosted language models. It persists
// chats locally, enforces the limited-tier daily quota with automatic
// fallback, and runs either a full TUI or a plain REPL.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/xannyai/xanny-tui/internal/cli"
	"github.com/xannyai/xanny-tui/internal/config"
	"github.com/xannyai/xanny-tui/internal/history"
	"github.com/xannyai/xanny-tui/internal/kv"
	"github.com/xannyai/xanny-tui/internal/model"
	"github.com/xannyai/xanny-tui/internal/provider"
	"github.com/xannyai/xanny-tui/internal/quota"
	"github.com/xannyai/xanny-tui/internal/session"
	"github.com/xannyai/xanny-tui/internal/store"
	chatui "github.com/xannyai/xanny-tui/internal/ui/chat"
	"github.com/xannyai/xanny-tui/internal/ui/styles"
)

// Version is the release version, overridden at build time via
// -ldflags "-X main.Version=...".
var Version = "dev"

// groqRequestsPerSecond paces Groq calls; the free tier throttles hard.
const groqRequestsPerSecond = 0.5

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "xanny:", err)
		os.Exit(1)
	}
}

func run() error {
	// .env beside the binary mirrors how the keys are provisioned in dev.
	_ = godotenv.Load()

	args := cli.Parse(os.Args[1:])
	if args.ShowHelp {
		printUsage()
		return nil
	}
	if args.ShowVersion {
		fmt.Println("xanny", Version)
		return nil
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	logger, closeLog, err := config.SetupLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	styles.ApplyTheme(cfg.UI.Theme)

	if !cfg.HasAnyKey() {
		return fmt.Errorf("no provider API key configured; set GROQ_API_KEY (or another provider key) or edit ~/.xanny/config.toml")
	}

	backend, err := kv.OpenSQLite(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer backend.Close()

	registry := model.NewRegistry(model.Catalog(cfg.ModelKeys()))

	mux, err := buildGateway(registry, cfg)
	if err != nil {
		return err
	}

	st := store.New(backend, nil)
	qt := quota.NewTracker(backend, cfg.Quota.DailyLimit, nil)
	if err := qt.PruneStale(); err != nil {
		logger.Warn("failed to prune stale quota counters", "error", err)
	}
	hc := history.NewCache(history.DefaultMaxEntries)

	defaultModel := resolveStartModel(registry, logger, args.Model, cfg.DefaultModel)
	ctrl, err := session.NewController(session.Config{
		Logger:        logger,
		Registry:      registry,
		Gateway:       mux,
		Store:         st,
		Quota:         qt,
		History:       hc,
		DefaultModel:  defaultModel,
		FallbackModel: cfg.FallbackModel,
	})
	if err != nil {
		return err
	}

	if path, err := config.Path(); err == nil && args.ConfigPath == "" {
		watcher, err := config.Watch(path, logger, func(next *config.Config) {
			ctrl.SetFallbackModel(next.FallbackModel)
			styles.ApplyTheme(next.UI.Theme)
		})
		if err == nil {
			defer watcher.Close()
		} else {
			logger.Warn("config watching disabled", "error", err)
		}
	}

	if args.Plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		repl := cli.NewREPL(ctrl, cfg.Storage.ExportDir)
		defer repl.Close()
		return repl.Run(context.Background())
	}

	screen, err := chatui.New(ctrl, cfg.UI.Theme)
	if err != nil {
		return err
	}
	p := tea.NewProgram(screen, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// loadConfig loads from the explicit path when given, otherwise the
// conventional location.
func loadConfig(args cli.Args) (*config.Config, error) {
	if args.ConfigPath != "" {
		return config.LoadFrom(args.ConfigPath)
	}
	return config.Load()
}

// buildGateway registers one provider client per configured credential.
func buildGateway(registry *model.Registry, cfg *config.Config) (*provider.Mux, error) {
	mux := provider.NewMux(registry)

	if cfg.Keys.Groq != "" {
		mux.Register(provider.WithRateLimit(provider.NewGroq(cfg.Keys.Groq), groqRequestsPerSecond))
	}
	if cfg.Keys.OpenAI != "" {
		mux.Register(provider.NewOpenAI(cfg.Keys.OpenAI))
	}
	if cfg.Keys.Anthropic != "" {
		p, err := provider.NewAnthropic(cfg.Keys.Anthropic)
		if err != nil {
			return nil, err
		}
		mux.Register(p)
	}
	if cfg.Keys.Google != "" {
		p, err := provider.NewGoogle(context.Background(), cfg.Keys.Google)
		if err != nil {
			return nil, err
		}
		mux.Register(p)
	}
	return mux, nil
}

// resolveStartModel picks the model selected at startup: the --model flag,
// then the configured default, then the first available model.
func resolveStartModel(registry *model.Registry, logger interface{ Warn(string, ...any) }, flagModel, cfgModel string) string {
	for _, candidate := range []string{flagModel, cfgModel} {
		if candidate == "" {
			continue
		}
		if _, ok := registry.Describe(candidate); ok {
			return candidate
		}
		logger.Warn("model not available, ignoring", "model", candidate)
	}
	available := registry.Available()
	if len(available) == 0 {
		return cfgModel
	}
	return available[0].ID
}

func printUsage() {
	fmt.Print(`xanny - terminal chat client

Usage:
  xanny [flags]

Flags:
  -m, --model ID    start with a specific model
      --plain       line-based REPL instead of the TUI
      --config PATH use an alternate config file
  -v, --version     print version
  -h, --help        show this help

Environment:
  GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY
  XANNY_* overrides (see ~/.xanny/config.toml)
`)
}
