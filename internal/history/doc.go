// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps a bounded, per-model context buffer of recent
// conversation entries.
//
// The buffer is process-lifetime state, deliberately separate from the
// durable chat store: it feeds the inference request context, not the
// transcript shown to the user. Each model accumulates its own buffer so
// switching models mid-session does not leak context between them.
package history
