// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package quota enforces the daily request cap on limited-tier models.
//
// Usage is counted per calendar day in the process's local time zone and
// persisted through the key-value store, so restarting the application does
// not reset the count. Standard-tier models are never limited.
package quota
