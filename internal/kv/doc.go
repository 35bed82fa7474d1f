// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package kv provides a small durable key-value store used for chat
// persistence and quota counters.
//
// Two implementations exist: a SQLite-backed store for production use and an
// in-memory store for tests. Values are opaque byte slices; callers own
// serialization. Keys are flat strings namespaced by convention, for example
// "chats", "current-chat", and "quota/limited/2025-01-02".
package kv
