// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/xannyai/xanny-tui/internal/model"
)

// =============================================================================
// OPENAI-COMPATIBLE PROVIDER
// =============================================================================

// GroqBaseURL is the OpenAI-compatible endpoint Groq serves.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// OpenAICompatible talks to any OpenAI-compatible chat completion endpoint.
// It backs both the OpenAI and Groq providers; only the base URL differs.
type OpenAICompatible struct {
	name   string
	client *openai.Client
}

// NewOpenAI creates a provider for the OpenAI API proper.
func NewOpenAI(apiKey string) *OpenAICompatible {
	return &OpenAICompatible{
		name:   model.ProviderOpenAI,
		client: openai.NewClient(apiKey),
	}
}

// NewGroq creates a provider for Groq's OpenAI-compatible API.
func NewGroq(apiKey string) *OpenAICompatible {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = GroqBaseURL
	return &OpenAICompatible{
		name:   model.ProviderGroq,
		client: openai.NewClientWithConfig(cfg),
	}
}

// Name returns the provider's display name.
func (p *OpenAICompatible) Name() string {
	return p.name
}

// Send performs a single chat completion.
func (p *OpenAICompatible) Send(ctx context.Context, modelID string, msgs []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       modelID,
		Messages:    toOpenAIMessages(msgs),
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", wrapErr(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", wrapErr(p.name, fmt.Errorf("empty completion for model %s", modelID))
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}
	return out
}
