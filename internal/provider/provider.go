// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"errors"
	"fmt"
)

// =============================================================================
// REQUEST DEFAULTS
// =============================================================================

const (
	// DefaultTemperature matches the sampling temperature used for every
	// chat completion.
	DefaultTemperature = 0.7

	// DefaultMaxTokens caps the completion length.
	DefaultMaxTokens = 2048
)

// =============================================================================
// TYPES
// =============================================================================

// Role identifies a message author on the wire.
type Role string

const (
	// RoleUser is a user-authored message.
	RoleUser Role = "user"

	// RoleAssistant is a model-authored message.
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn sent to a provider.
type Message struct {
	Role    Role
	Content string
}

// Provider sends a conversation to one upstream and returns the reply text.
type Provider interface {
	// Send performs a single chat completion for modelID. msgs is the
	// context window, oldest first, ending with the new user message.
	Send(ctx context.Context, modelID string, msgs []Message) (string, error)

	// Name returns the provider's display name.
	Name() string
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrUnknownModel is returned when no provider serves the requested model.
var ErrUnknownModel = errors.New("no provider for model")

// ProviderError wraps any upstream failure with the provider's name.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// wrapErr normalizes an upstream failure into a *ProviderError, avoiding
// double wrapping.
func wrapErr(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: provider, Err: err}
}
