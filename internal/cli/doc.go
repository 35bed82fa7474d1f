// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the line-based chat REPL used when the terminal
// cannot run the TUI (or when --plain is given). It offers the same
// operations as the TUI through slash commands.
package cli
