// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/xannyai/xanny-tui/internal/model"
)

// =============================================================================
// LANGCHAIN-BACKED PROVIDERS
// =============================================================================

// LangChain adapts a langchaingo model client to the Provider interface.
// Anthropic and Google are served this way.
type LangChain struct {
	name string
	llm  llms.Model
}

// NewAnthropic creates the Anthropic provider.
func NewAnthropic(apiKey string) (*LangChain, error) {
	llm, err := anthropic.New(anthropic.WithToken(apiKey))
	if err != nil {
		return nil, wrapErr(model.ProviderAnthropic, err)
	}
	return &LangChain{name: model.ProviderAnthropic, llm: llm}, nil
}

// NewGoogle creates the Google Gemini provider.
func NewGoogle(ctx context.Context, apiKey string) (*LangChain, error) {
	llm, err := googleai.New(ctx, googleai.WithAPIKey(apiKey))
	if err != nil {
		return nil, wrapErr(model.ProviderGoogle, err)
	}
	return &LangChain{name: model.ProviderGoogle, llm: llm}, nil
}

// Name returns the provider's display name.
func (p *LangChain) Name() string {
	return p.name
}

// Send performs a single chat completion.
func (p *LangChain) Send(ctx context.Context, modelID string, msgs []Message) (string, error) {
	content := make([]llms.MessageContent, 0, len(msgs))
	for _, m := range msgs {
		role := llms.ChatMessageTypeHuman
		if m.Role == RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, m.Content))
	}

	resp, err := p.llm.GenerateContent(ctx, content,
		llms.WithModel(modelID),
		llms.WithTemperature(DefaultTemperature),
		llms.WithMaxTokens(DefaultMaxTokens),
	)
	if err != nil {
		return "", wrapErr(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", wrapErr(p.name, fmt.Errorf("empty completion for model %s", modelID))
	}
	return resp.Choices[0].Content, nil
}
