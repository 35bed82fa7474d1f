// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xannyai/xanny-tui/internal/model"
)

// fakeProvider records calls and returns a canned reply or error.
type fakeProvider struct {
	name  string
	reply string
	err   error
	calls int
	last  []Message
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Send(ctx context.Context, modelID string, msgs []Message) (string, error) {
	f.calls++
	f.last = msgs
	if f.err != nil {
		return "", wrapErr(f.name, f.err)
	}
	return f.reply, nil
}

func testRegistry() *model.Registry {
	return model.NewRegistry([]model.Info{
		{ID: "pro", Name: "Pro", Provider: model.ProviderGroq, Tier: model.TierLimited},
		{ID: "sonnet", Name: "Sonnet", Provider: model.ProviderAnthropic, Tier: model.TierStandard},
	})
}

func TestMuxRoutesByProvider(t *testing.T) {
	groq := &fakeProvider{name: model.ProviderGroq, reply: "from groq"}
	anthropic := &fakeProvider{name: model.ProviderAnthropic, reply: "from anthropic"}

	mux := NewMux(testRegistry())
	mux.Register(groq)
	mux.Register(anthropic)

	reply, err := mux.Send(context.Background(), "pro", []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if reply != "from groq" {
		t.Errorf("reply = %q", reply)
	}
	if groq.calls != 1 || anthropic.calls != 0 {
		t.Errorf("calls = groq:%d anthropic:%d", groq.calls, anthropic.calls)
	}

	reply, err = mux.Send(context.Background(), "sonnet", nil)
	if err != nil || reply != "from anthropic" {
		t.Errorf("Send(sonnet) = %q, %v", reply, err)
	}
}

func TestMuxUnknownModel(t *testing.T) {
	mux := NewMux(testRegistry())
	mux.Register(&fakeProvider{name: model.ProviderGroq})

	if _, err := mux.Send(context.Background(), "nope", nil); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("unknown model error = %v", err)
	}

	// Known model but no provider registered for it.
	if _, err := mux.Send(context.Background(), "sonnet", nil); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("unregistered provider error = %v", err)
	}
}

func TestProviderErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	f := &fakeProvider{name: model.ProviderGroq, err: cause}

	_, err := f.Send(context.Background(), "pro", nil)
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error %v is not a *ProviderError", err)
	}
	if pe.Provider != model.ProviderGroq {
		t.Errorf("Provider = %q", pe.Provider)
	}
	if !errors.Is(err, cause) {
		t.Error("ProviderError must unwrap to its cause")
	}

	// Re-wrapping an already wrapped error must not nest.
	again := wrapErr("other", err)
	var pe2 *ProviderError
	errors.As(again, &pe2)
	if pe2.Provider != model.ProviderGroq {
		t.Errorf("double wrap changed provider to %q", pe2.Provider)
	}
}

func TestRateLimitedPacing(t *testing.T) {
	f := &fakeProvider{name: model.ProviderGroq, reply: "ok"}
	limited := WithRateLimit(f, 50)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := limited.Send(context.Background(), "pro", nil); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}
	// Burst of one, so calls two and three wait roughly 20ms each.
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("3 calls at 50 rps finished in %v, expected pacing", elapsed)
	}
	if f.calls != 3 {
		t.Errorf("calls = %d, want 3", f.calls)
	}
}

func TestRateLimitedCancelledContext(t *testing.T) {
	f := &fakeProvider{name: model.ProviderGroq, reply: "ok"}
	limited := WithRateLimit(f, 0.001)

	// First call consumes the burst token.
	if _, err := limited.Send(context.Background(), "pro", nil); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := limited.Send(ctx, "pro", nil)
	if err == nil {
		t.Fatal("expected error from cancelled wait")
	}
	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Errorf("limiter error not wrapped: %v", err)
	}
}

func TestToOpenAIMessagesRoles(t *testing.T) {
	msgs := toOpenAIMessages([]Message{
		{Role: RoleUser, Content: "q"},
		{Role: RoleAssistant, Content: "a"},
	})
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Errorf("roles = %q, %q", msgs[0].Role, msgs[1].Role)
	}
	if msgs[0].Content != "q" || msgs[1].Content != "a" {
		t.Errorf("contents = %q, %q", msgs[0].Content, msgs[1].Content)
	}
}
