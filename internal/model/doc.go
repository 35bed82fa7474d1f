// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines model descriptors, usage tiers, and the registry of
// models available to the application.
//
// The registry is purely derived from configuration read once at startup:
// a model is available only when its backing provider has a credential
// configured. Descriptors are immutable; identity is the model ID.
package model
