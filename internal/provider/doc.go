// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider is the inference gateway boundary.
//
// Each upstream (Groq, OpenAI, Anthropic, Google) gets one Provider
// implementation; the Mux routes a model to its provider by name, chosen
// once at configuration time. All upstream failures come back as a
// *ProviderError so callers can render them uniformly without inspecting
// vendor SDK error types.
package provider
