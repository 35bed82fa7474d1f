// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package quota

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/xannyai/xanny-tui/internal/kv"
	"github.com/xannyai/xanny-tui/internal/model"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// DefaultDailyLimit is the number of limited-tier requests allowed per
// calendar day.
const DefaultDailyLimit = 20

// keyPrefix namespaces quota counters in the key-value store.
const keyPrefix = "quota/"

// =============================================================================
// TRACKER
// =============================================================================

// Tracker counts limited-tier usage per calendar day. Safe for concurrent
// use. The clock is injectable for tests; production code passes nil to use
// time.Now.
type Tracker struct {
	mu    sync.Mutex
	store kv.Store
	limit int
	now   func() time.Time
}

// NewTracker creates a tracker persisting counters in store. A non-positive
// limit falls back to DefaultDailyLimit. A nil now uses time.Now.
func NewTracker(store kv.Store, limit int, now func() time.Time) *Tracker {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	if now == nil {
		now = time.Now
	}
	return &Tracker{store: store, limit: limit, now: now}
}

// Limit returns the configured daily cap.
func (t *Tracker) Limit() int {
	return t.limit
}

// UsageToday returns the number of limited-tier requests recorded today.
func (t *Tracker) UsageToday() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.readToday()
}

// Increment records one limited-tier request for today and returns the new
// count.
func (t *Tracker) Increment() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	count, err := t.readToday()
	if err != nil {
		return 0, err
	}
	count++
	if err := t.store.Put(t.todayKey(), []byte(strconv.Itoa(count))); err != nil {
		return 0, fmt.Errorf("failed to persist quota counter: %w", err)
	}
	return count, nil
}

// Exhausted reports whether info's tier has no remaining requests today.
// Standard-tier models are never exhausted.
func (t *Tracker) Exhausted(info model.Info) (bool, error) {
	if !info.IsLimited() {
		return false, nil
	}

	count, err := t.UsageToday()
	if err != nil {
		return false, err
	}
	return count >= t.limit, nil
}

// Remaining returns how many limited-tier requests are left today, never
// negative.
func (t *Tracker) Remaining() (int, error) {
	count, err := t.UsageToday()
	if err != nil {
		return 0, err
	}
	if count >= t.limit {
		return 0, nil
	}
	return t.limit - count, nil
}

// PruneStale deletes counters for days other than today. Old counters are
// harmless but accumulate one key per day of use.
func (t *Tracker) PruneStale() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	keys, err := t.store.Keys(keyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list quota keys: %w", err)
	}
	today := t.todayKey()
	for _, k := range keys {
		if k == today {
			continue
		}
		if err := t.store.Delete(k); err != nil {
			return fmt.Errorf("failed to prune quota key %q: %w", k, err)
		}
	}
	return nil
}

// =============================================================================
// INTERNAL
// =============================================================================

func (t *Tracker) todayKey() string {
	return keyPrefix + "limited/" + t.now().Format("2006-01-02")
}

func (t *Tracker) readToday() (int, error) {
	value, ok, err := t.store.Get(t.todayKey())
	if err != nil {
		return 0, fmt.Errorf("failed to read quota counter: %w", err)
	}
	if !ok {
		return 0, nil
	}
	count, err := strconv.Atoi(string(value))
	if err != nil {
		// Corrupt counter resets to zero rather than locking the user out.
		return 0, nil
	}
	return count, nil
}
