// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session coordinates one conversation turn at a time.
//
// The Controller owns the selected model and current chat, mediates between
// the presentation layer and the store, quota tracker, history cache, and
// inference gateway, and guarantees that only one Submit is in flight.
// Everything the UI can do maps to one Controller method.
package session
