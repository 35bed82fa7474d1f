// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xannyai/xanny-tui/internal/history"
	"github.com/xannyai/xanny-tui/internal/kv"
	"github.com/xannyai/xanny-tui/internal/model"
	"github.com/xannyai/xanny-tui/internal/provider"
	"github.com/xannyai/xanny-tui/internal/quota"
	"github.com/xannyai/xanny-tui/internal/store"
)

// blockingGateway lets a test hold a Send in flight until released.
type blockingGateway struct {
	mu      sync.Mutex
	reply   string
	err     error
	block   chan struct{}
	started chan struct{}
	calls   int
	lastCtx []provider.Message
}

func (g *blockingGateway) Name() string { return "fake" }

func (g *blockingGateway) Send(ctx context.Context, modelID string, msgs []provider.Message) (string, error) {
	g.mu.Lock()
	g.calls++
	g.lastCtx = msgs
	g.mu.Unlock()

	if g.started != nil {
		close(g.started)
		g.started = nil
	}
	if g.block != nil {
		<-g.block
	}
	if g.err != nil {
		return "", &provider.ProviderError{Provider: "fake", Err: g.err}
	}
	return g.reply, nil
}

type fixture struct {
	ctrl    *Controller
	gateway *blockingGateway
	store   *store.Store
	quota   *quota.Tracker
	history *history.Cache
	backend *kv.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	backend := kv.NewMemoryStore()
	clock := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	tick := func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	reg := model.NewRegistry([]model.Info{
		{ID: "pro", Name: "Xanny Pro", Provider: model.ProviderGroq, Tier: model.TierLimited},
		{ID: "basic", Name: "Xanny", Provider: model.ProviderGroq, Tier: model.TierStandard},
	})
	gw := &blockingGateway{reply: "hello from the model"}
	st := store.New(backend, tick)
	qt := quota.NewTracker(backend, 20, tick)
	hc := history.NewCache(40)

	ctrl, err := NewController(Config{
		Logger:        slog.New(slog.DiscardHandler),
		Registry:      reg,
		Gateway:       gw,
		Store:         st,
		Quota:         qt,
		History:       hc,
		DefaultModel:  "pro",
		FallbackModel: "basic",
	})
	require.NoError(t, err)

	return &fixture{ctrl: ctrl, gateway: gw, store: st, quota: qt, history: hc, backend: backend}
}

func TestSubmitHappyPath(t *testing.T) {
	f := newFixture(t)

	res, err := f.ctrl.Submit(context.Background(), "  what is a channel?  ")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.False(t, res.IsError)
	assert.False(t, res.FellBack)
	assert.Equal(t, "pro", res.ModelID)
	assert.Equal(t, "hello from the model", res.Reply)

	// A chat was created and selected, with the trimmed exchange stored.
	require.Len(t, res.Chat.Messages, 1)
	assert.Equal(t, "what is a channel?", res.Chat.Messages[0].User)
	assert.Equal(t, "what is a channel?", res.Chat.Title)

	current, err := f.ctrl.Current()
	require.NoError(t, err)
	assert.Equal(t, res.Chat.ID, current.ID)

	// History buffered the exchange and quota counted the limited request.
	assert.Equal(t, 2, f.history.Len("pro"))
	usage, err := f.quota.UsageToday()
	require.NoError(t, err)
	assert.Equal(t, 1, usage)
}

func TestSubmitEmptyInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Submit(context.Background(), "   \n\t ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, 0, f.gateway.calls)
}

func TestSubmitReentrancyGuard(t *testing.T) {
	f := newFixture(t)
	f.gateway.block = make(chan struct{})
	f.gateway.started = make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := f.ctrl.Submit(context.Background(), "first")
		assert.NoError(t, err)
	}()

	<-f.gateway.started
	assert.Equal(t, StateSending, f.ctrl.State())

	_, err := f.ctrl.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrBusy)

	close(f.gateway.block)
	<-done
	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, 1, f.gateway.calls)
}

func TestSubmitProviderFailure(t *testing.T) {
	f := newFixture(t)
	f.gateway.err = errors.New("connection refused")

	res, err := f.ctrl.Submit(context.Background(), "hello?")
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.IsError)
	require.Len(t, res.Chat.Messages, 1)
	msg := res.Chat.Messages[0]
	assert.True(t, msg.IsError)
	assert.Contains(t, msg.AI, "Error with Xanny Pro:")
	assert.Contains(t, msg.AI, "connection refused")

	// Failures are not buffered as context and do not consume quota.
	assert.Equal(t, 0, f.history.Len("pro"))
	usage, _ := f.quota.UsageToday()
	assert.Equal(t, 0, usage)
}

func TestQuotaFallback(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 20; i++ {
		_, err := f.quota.Increment()
		require.NoError(t, err)
	}

	res, err := f.ctrl.Submit(context.Background(), "over the limit")
	require.NoError(t, err)

	assert.True(t, res.FellBack)
	assert.Equal(t, "basic", res.ModelID)
	assert.Equal(t, "basic", res.Chat.Messages[0].ModelID)

	// Selection moved to the fallback for subsequent turns.
	assert.Equal(t, "basic", f.ctrl.SelectedModel().ID)

	// Standard tier does not consume quota.
	usage, _ := f.quota.UsageToday()
	assert.Equal(t, 20, usage)
}

func TestSubmitSendsHistoryContext(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Submit(context.Background(), "first question")
	require.NoError(t, err)

	_, err = f.ctrl.Submit(context.Background(), "second question")
	require.NoError(t, err)

	// Second call carries the first exchange plus the new message.
	require.Len(t, f.gateway.lastCtx, 3)
	assert.Equal(t, provider.RoleUser, f.gateway.lastCtx[0].Role)
	assert.Equal(t, "first question", f.gateway.lastCtx[0].Content)
	assert.Equal(t, provider.RoleAssistant, f.gateway.lastCtx[1].Role)
	assert.Equal(t, "second question", f.gateway.lastCtx[2].Content)
}

func TestDeleteCurrentSelectsMostRecent(t *testing.T) {
	f := newFixture(t)

	a, err := f.ctrl.NewChat()
	require.NoError(t, err)
	b, err := f.ctrl.NewChat()
	require.NoError(t, err)

	// b is current and most recent; delete it.
	next, err := f.ctrl.DeleteChat(b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, next.ID)

	current, err := f.ctrl.Current()
	require.NoError(t, err)
	assert.Equal(t, a.ID, current.ID)
}

func TestDeleteLastChatCreatesFresh(t *testing.T) {
	f := newFixture(t)

	only, err := f.ctrl.NewChat()
	require.NoError(t, err)

	next, err := f.ctrl.DeleteChat(only.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.NotEqual(t, only.ID, next.ID)
	assert.Equal(t, "New Chat", next.Title)
	assert.Empty(t, next.Messages)
}

func TestDeleteNonCurrentKeepsSelection(t *testing.T) {
	f := newFixture(t)

	a, _ := f.ctrl.NewChat()
	b, _ := f.ctrl.NewChat()

	next, err := f.ctrl.DeleteChat(a.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, next.ID)
}

func TestSelectChatAdoptsItsModel(t *testing.T) {
	f := newFixture(t)

	chat, err := f.ctrl.NewChat()
	require.NoError(t, err)

	_, err = f.ctrl.ChangeModel("basic")
	require.NoError(t, err)
	other, err := f.ctrl.NewChat()
	require.NoError(t, err)
	assert.Equal(t, "basic", other.ModelID)

	_, err = f.ctrl.SelectChat(chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", f.ctrl.SelectedModel().ID)
}

func TestChangeModelUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.ChangeModel("gpt-99")
	assert.ErrorIs(t, err, ErrUnknownModel)
	assert.Equal(t, "pro", f.ctrl.SelectedModel().ID)
}

func TestClearChatDropsHistoryBuffer(t *testing.T) {
	f := newFixture(t)

	res, err := f.ctrl.Submit(context.Background(), "remember this")
	require.NoError(t, err)
	require.Equal(t, 2, f.history.Len("pro"))

	require.NoError(t, f.ctrl.ClearChat(res.Chat.ID))

	got, err := f.store.Get(res.Chat.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Messages)
	assert.Equal(t, 0, f.history.Len("pro"))
}

func TestExportImportThroughController(t *testing.T) {
	f := newFixture(t)

	_, err := f.ctrl.Submit(context.Background(), "to be exported")
	require.NoError(t, err)

	data, err := f.ctrl.Export()
	require.NoError(t, err)

	f2 := newFixture(t)
	require.NoError(t, f2.ctrl.Import(data))

	chats, err := f2.ctrl.Chats()
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "to be exported", chats[0].Title)

	err = f2.ctrl.Import([]byte("garbage"))
	assert.ErrorIs(t, err, store.ErrBadFormat)
}

func TestNewControllerRejectsUnknownDefault(t *testing.T) {
	reg := model.NewRegistry(nil)
	_, err := NewController(Config{
		Registry:     reg,
		DefaultModel: "missing",
	})
	assert.ErrorIs(t, err, ErrUnknownModel)
}
