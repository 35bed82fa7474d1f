// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive TUI: a transcript viewport, an
// input line, a spinner while a turn is in flight, and a toggleable chat
// sidebar. All state changes go through the session controller; the TUI
// never touches the store directly.
package chat
