// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "time"

// =============================================================================
// TYPES
// =============================================================================

// Message is a single exchange in a chat. Messages are append-only; once
// stored they are never edited.
type Message struct {
	// ID is a millisecond timestamp, bumped to stay strictly increasing
	// within a process
	ID int64 `json:"id"`

	// User is the user's prompt text
	User string `json:"user"`

	// AI is the assistant's reply, or the error text when IsError is set
	AI string `json:"ai"`

	// Timestamp is a human-readable time of day, for display only
	Timestamp string `json:"timestamp"`

	// ModelID identifies which model produced (or failed to produce) AI
	ModelID string `json:"modelId"`

	// IsError marks a failed exchange rendered as an inline error
	IsError bool `json:"isError,omitempty"`
}

// Chat is one conversation with its full transcript.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ModelID   string    `json:"modelId"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a deep copy of the chat.
func (c *Chat) Clone() *Chat {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return &out
}

// MessageCount returns the number of messages in the chat.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}
