// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists chats and the current-chat selection.
//
// The whole chat collection lives under a single key in the key-value store
// and every mutation is a read-modify-write of that key. Collections stay
// small (tens of chats, not thousands), so whole-collection writes keep the
// format trivially exportable and importable.
package store
