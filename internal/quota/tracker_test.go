// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package quota

import (
	"testing"
	"time"

	"github.com/xannyai/xanny-tui/internal/kv"
	"github.com/xannyai/xanny-tui/internal/model"
)

var (
	limitedModel  = model.Info{ID: "pro", Name: "Pro", Provider: model.ProviderGroq, Tier: model.TierLimited}
	standardModel = model.Info{ID: "basic", Name: "Basic", Provider: model.ProviderGroq, Tier: model.TierStandard}
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIncrementAndUsage(t *testing.T) {
	tr := NewTracker(kv.NewMemoryStore(), 20, fixedClock(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)))

	count, err := tr.UsageToday()
	if err != nil || count != 0 {
		t.Fatalf("fresh UsageToday = %d, %v, want 0", count, err)
	}

	for i := 1; i <= 3; i++ {
		count, err = tr.Increment()
		if err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
		if count != i {
			t.Errorf("Increment #%d = %d", i, count)
		}
	}

	remaining, err := tr.Remaining()
	if err != nil || remaining != 17 {
		t.Errorf("Remaining = %d, %v, want 17", remaining, err)
	}
}

func TestExhaustedAtLimit(t *testing.T) {
	tr := NewTracker(kv.NewMemoryStore(), 20, fixedClock(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)))

	for i := 0; i < 19; i++ {
		if _, err := tr.Increment(); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}
	if exhausted, _ := tr.Exhausted(limitedModel); exhausted {
		t.Error("should not be exhausted at 19 of 20")
	}

	if _, err := tr.Increment(); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if exhausted, _ := tr.Exhausted(limitedModel); !exhausted {
		t.Error("should be exhausted at 20 of 20")
	}

	if remaining, _ := tr.Remaining(); remaining != 0 {
		t.Errorf("Remaining at limit = %d, want 0", remaining)
	}
}

func TestStandardTierNeverExhausted(t *testing.T) {
	tr := NewTracker(kv.NewMemoryStore(), 1, fixedClock(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)))

	for i := 0; i < 5; i++ {
		if _, err := tr.Increment(); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}

	if exhausted, _ := tr.Exhausted(standardModel); exhausted {
		t.Error("standard tier must never be exhausted")
	}
}

func TestCounterResetsAtMidnight(t *testing.T) {
	store := kv.NewMemoryStore()
	day1 := time.Date(2025, 1, 2, 23, 59, 0, 0, time.UTC)
	clock := day1
	tr := NewTracker(store, 20, func() time.Time { return clock })

	for i := 0; i < 20; i++ {
		if _, err := tr.Increment(); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}
	if exhausted, _ := tr.Exhausted(limitedModel); !exhausted {
		t.Fatal("should be exhausted before midnight")
	}

	clock = day1.Add(2 * time.Minute)

	count, err := tr.UsageToday()
	if err != nil || count != 0 {
		t.Errorf("UsageToday after midnight = %d, %v, want 0", count, err)
	}
	if exhausted, _ := tr.Exhausted(limitedModel); exhausted {
		t.Error("quota should reset on the new day")
	}
}

func TestCounterPersistsAcrossTrackers(t *testing.T) {
	store := kv.NewMemoryStore()
	clock := fixedClock(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC))

	tr1 := NewTracker(store, 20, clock)
	if _, err := tr1.Increment(); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}

	tr2 := NewTracker(store, 20, clock)
	count, err := tr2.UsageToday()
	if err != nil || count != 1 {
		t.Errorf("new tracker UsageToday = %d, %v, want 1", count, err)
	}
}

func TestCorruptCounterResetsToZero(t *testing.T) {
	store := kv.NewMemoryStore()
	clock := fixedClock(time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC))
	if err := store.Put("quota/limited/2025-01-02", []byte("not-a-number")); err != nil {
		t.Fatal(err)
	}

	tr := NewTracker(store, 20, clock)
	count, err := tr.UsageToday()
	if err != nil || count != 0 {
		t.Errorf("UsageToday with corrupt counter = %d, %v, want 0", count, err)
	}
}

func TestPruneStale(t *testing.T) {
	store := kv.NewMemoryStore()
	clock := fixedClock(time.Date(2025, 1, 3, 10, 0, 0, 0, time.UTC))
	store.Put("quota/limited/2025-01-01", []byte("20"))
	store.Put("quota/limited/2025-01-02", []byte("5"))
	store.Put("chats", []byte("[]"))

	tr := NewTracker(store, 20, clock)
	if _, err := tr.Increment(); err != nil {
		t.Fatal(err)
	}
	if err := tr.PruneStale(); err != nil {
		t.Fatalf("PruneStale failed: %v", err)
	}

	keys, _ := store.Keys("quota/")
	if len(keys) != 1 || keys[0] != "quota/limited/2025-01-03" {
		t.Errorf("quota keys after prune = %v", keys)
	}
	if _, ok, _ := store.Get("chats"); !ok {
		t.Error("prune must not touch non-quota keys")
	}
}
