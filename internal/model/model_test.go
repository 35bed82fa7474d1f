// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "testing"

func TestCatalogFiltersByCredential(t *testing.T) {
	all := Catalog(Keys{Groq: true, OpenAI: true, Anthropic: true, Google: true})
	if len(all) != 8 {
		t.Fatalf("full catalog size = %d, want 8", len(all))
	}

	groqOnly := Catalog(Keys{Groq: true})
	if len(groqOnly) != 2 {
		t.Fatalf("groq-only catalog size = %d, want 2", len(groqOnly))
	}
	for _, m := range groqOnly {
		if m.Provider != ProviderGroq {
			t.Errorf("unexpected provider %q in groq-only catalog", m.Provider)
		}
	}

	if got := Catalog(Keys{}); len(got) != 0 {
		t.Errorf("no credentials should yield empty catalog, got %d models", len(got))
	}
}

func TestCatalogGroupsByProvider(t *testing.T) {
	all := Catalog(Keys{Groq: true, OpenAI: true, Anthropic: true, Google: true})

	// Models of the same provider must be contiguous and ordering stable
	// across calls.
	lastProvider := ""
	seen := make(map[string]bool)
	for _, m := range all {
		if m.Provider != lastProvider {
			if seen[m.Provider] {
				t.Errorf("provider %q appears in two separate groups", m.Provider)
			}
			seen[m.Provider] = true
			lastProvider = m.Provider
		}
	}
}

func TestRegistryDescribe(t *testing.T) {
	reg := NewRegistry(Catalog(Keys{Groq: true}))

	info, ok := reg.Describe("llama-3.3-70b-versatile")
	if !ok {
		t.Fatal("expected to find llama-3.3-70b-versatile")
	}
	if info.Name != "Xanny Pro" {
		t.Errorf("Name = %q, want %q", info.Name, "Xanny Pro")
	}
	if !info.IsLimited() {
		t.Error("Xanny Pro should be Limited tier")
	}

	if _, ok := reg.Describe("gpt-4o"); ok {
		t.Error("gpt-4o should not be available without an OpenAI key")
	}
}

func TestRegistryAvailableIsCopy(t *testing.T) {
	reg := NewRegistry(Catalog(Keys{Groq: true}))

	got := reg.Available()
	got[0].Name = "mutated"

	again := reg.Available()
	if again[0].Name == "mutated" {
		t.Error("Available must return a copy, not registry state")
	}
}

func TestRegistryProviders(t *testing.T) {
	reg := NewRegistry(Catalog(Keys{Groq: true, Anthropic: true}))

	providers := reg.Providers()
	if len(providers) != 2 {
		t.Fatalf("Providers() len = %d, want 2", len(providers))
	}
	if providers[0] != ProviderGroq || providers[1] != ProviderAnthropic {
		t.Errorf("Providers() = %v, want [Groq Anthropic]", providers)
	}
}
