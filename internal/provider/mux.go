// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/xannyai/xanny-tui/internal/model"
)

// =============================================================================
// MUX
// =============================================================================

// Mux routes each model to the provider that serves it. Routes are fixed at
// construction; adding a provider means registering one more implementation,
// not editing a dispatch branch.
type Mux struct {
	registry  *model.Registry
	providers map[string]Provider
}

// NewMux creates a mux over the registry. Register wires one provider per
// provider name.
func NewMux(registry *model.Registry) *Mux {
	return &Mux{
		registry:  registry,
		providers: make(map[string]Provider),
	}
}

// Register installs the provider under its own name. The last registration
// for a name wins.
func (m *Mux) Register(p Provider) {
	m.providers[p.Name()] = p
}

// Name identifies the mux in wrapped errors.
func (m *Mux) Name() string {
	return "mux"
}

// Send routes the request to the provider serving modelID.
func (m *Mux) Send(ctx context.Context, modelID string, msgs []Message) (string, error) {
	info, ok := m.registry.Describe(modelID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownModel, modelID)
	}
	p, ok := m.providers[info.Provider]
	if !ok {
		return "", fmt.Errorf("%w: %s (provider %s not configured)", ErrUnknownModel, modelID, info.Provider)
	}
	return p.Send(ctx, modelID, msgs)
}

// =============================================================================
// RATE-LIMITED WRAPPER
// =============================================================================

// RateLimited paces requests to one provider. It is a politeness limiter,
// not a quota: it smooths bursts rather than rejecting them.
type RateLimited struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit wraps p so at most rps requests per second pass through,
// with a burst of one.
func WithRateLimit(p Provider, rps float64) *RateLimited {
	return &RateLimited{
		inner:   p,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Name returns the wrapped provider's name.
func (r *RateLimited) Name() string {
	return r.inner.Name()
}

// Send waits for the limiter, then delegates.
func (r *RateLimited) Send(ctx context.Context, modelID string, msgs []Message) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", wrapErr(r.inner.Name(), err)
	}
	return r.inner.Send(ctx, modelID, msgs)
}
