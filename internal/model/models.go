// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// TIER TYPE
// =============================================================================

// Tier categorizes a model's usage class.
type Tier string

const (
	// TierStandard models have no usage cap.
	TierStandard Tier = "standard"

	// TierLimited models are capped to a daily request quota.
	TierLimited Tier = "limited"
)

// String returns the string representation of the tier.
func (t Tier) String() string {
	return string(t)
}

// =============================================================================
// PROVIDER NAMES
// =============================================================================

// Provider name constants. Provider selection happens once at configuration
// time; adding a provider means adding one gateway implementation, not
// editing a dispatch branch.
const (
	ProviderGroq      = "Groq"
	ProviderOpenAI    = "OpenAI"
	ProviderAnthropic = "Anthropic"
	ProviderGoogle    = "Google"
)

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// Info describes a single model available for chat.
type Info struct {
	// ID is the model identifier used in API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Provider identifies who serves the model (Groq, OpenAI, Anthropic, Google)
	Provider string `json:"provider"`

	// Tier is the model's usage class; Limited models fall back to a
	// Standard model once the daily quota is exhausted
	Tier Tier `json:"tier"`
}

// IsLimited reports whether the model belongs to the daily-capped tier.
func (i Info) IsLimited() bool {
	return i.Tier == TierLimited
}

// =============================================================================
// BUILT-IN CATALOG
// =============================================================================

// Keys reports which provider credentials are configured. Only models whose
// provider key is present appear in the registry.
type Keys struct {
	Groq      bool
	OpenAI    bool
	Anthropic bool
	Google    bool
}

// Catalog returns the built-in model catalog filtered by configured
// providers. Ordering is stable and grouped by provider.
func Catalog(keys Keys) []Info {
	var models []Info

	if keys.Groq {
		models = append(models,
			Info{ID: "llama-3.3-70b-versatile", Name: "Xanny Pro", Provider: ProviderGroq, Tier: TierLimited},
			Info{ID: "llama-3.1-8b-instant", Name: "Xanny", Provider: ProviderGroq, Tier: TierStandard},
		)
	}
	if keys.OpenAI {
		models = append(models,
			Info{ID: "gpt-4o", Name: "GPT-4o", Provider: ProviderOpenAI, Tier: TierStandard},
			Info{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Provider: ProviderOpenAI, Tier: TierStandard},
		)
	}
	if keys.Anthropic {
		models = append(models,
			Info{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", Provider: ProviderAnthropic, Tier: TierStandard},
			Info{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Provider: ProviderAnthropic, Tier: TierStandard},
		)
	}
	if keys.Google {
		models = append(models,
			Info{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Provider: ProviderGoogle, Tier: TierStandard},
			Info{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Provider: ProviderGoogle, Tier: TierStandard},
		)
	}

	return models
}
