// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// Registry holds the models usable in this process. It is built once at
// startup from the configured provider credentials and never mutated, so it
// is safe for concurrent readers without locking.
type Registry struct {
	models []Info
	byID   map[string]Info
}

// NewRegistry creates a registry over the given descriptors. Ordering of the
// slice is preserved by Available.
func NewRegistry(models []Info) *Registry {
	byID := make(map[string]Info, len(models))
	for _, m := range models {
		byID[m.ID] = m
	}
	return &Registry{models: models, byID: byID}
}

// Available returns all usable models in stable, provider-grouped order.
// The returned slice is a copy; callers may not mutate registry state.
func (r *Registry) Available() []Info {
	out := make([]Info, len(r.models))
	copy(out, r.models)
	return out
}

// Describe looks up a model descriptor by ID.
func (r *Registry) Describe(id string) (Info, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// ByProvider returns the available models served by the named provider,
// preserving catalog order.
func (r *Registry) ByProvider(provider string) []Info {
	var out []Info
	for _, m := range r.models {
		if m.Provider == provider {
			out = append(out, m)
		}
	}
	return out
}

// Providers returns the distinct provider names in catalog order.
func (r *Registry) Providers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range r.models {
		if !seen[m.Provider] {
			seen[m.Provider] = true
			out = append(out, m.Provider)
		}
	}
	return out
}

// Len returns the number of available models.
func (r *Registry) Len() int {
	return len(r.models)
}
