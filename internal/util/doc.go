// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared helpers for the xanny-tui application.
//
// This package contains the small, dependency-light building blocks used
// throughout the application:
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - PadRight: column padding for tabular CLI output
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
