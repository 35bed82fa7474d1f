// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import "sync"

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultMaxEntries is the per-model buffer cap. One exchange contributes two
// entries (user and assistant), so the default keeps the last 20 exchanges.
const DefaultMaxEntries = 40

// =============================================================================
// TYPES
// =============================================================================

// Role identifies the author of a buffered entry.
type Role string

const (
	// RoleUser marks an entry authored by the user.
	RoleUser Role = "user"

	// RoleAssistant marks an entry authored by the model.
	RoleAssistant Role = "assistant"
)

// Entry is a single buffered conversation turn half.
type Entry struct {
	Role    Role
	Content string
}

// Cache holds bounded per-model context buffers. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	max     int
	byModel map[string][]Entry
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// NewCache creates a cache with the given per-model cap. A non-positive cap
// falls back to DefaultMaxEntries.
func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Cache{
		max:     maxEntries,
		byModel: make(map[string][]Entry),
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Append records a completed exchange for modelID. When the buffer exceeds
// the cap, the oldest entries are discarded so exactly the most recent cap
// entries remain.
func (c *Cache) Append(modelID, userText, assistantText string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := append(c.byModel[modelID],
		Entry{Role: RoleUser, Content: userText},
		Entry{Role: RoleAssistant, Content: assistantText},
	)
	if len(buf) > c.max {
		buf = buf[len(buf)-c.max:]
	}
	c.byModel[modelID] = buf
}

// Get returns a copy of the buffered entries for modelID, oldest first.
// A model with no history yields an empty slice.
func (c *Cache) Get(modelID string) []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := c.byModel[modelID]
	out := make([]Entry, len(buf))
	copy(out, buf)
	return out
}

// Clear discards the buffer for modelID. Other models are untouched.
func (c *Cache) Clear(modelID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.byModel, modelID)
}

// ClearAll discards every model's buffer.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byModel = make(map[string][]Entry)
}

// Len returns the number of buffered entries for modelID.
func (c *Cache) Len(modelID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.byModel[modelID])
}
