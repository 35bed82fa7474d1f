// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/xannyai/xanny-tui/internal/history"
	"github.com/xannyai/xanny-tui/internal/model"
	"github.com/xannyai/xanny-tui/internal/provider"
	"github.com/xannyai/xanny-tui/internal/quota"
	"github.com/xannyai/xanny-tui/internal/store"
)

// =============================================================================
// STATES AND ERRORS
// =============================================================================

// State is the controller's turn lifecycle state.
type State int

const (
	// StateIdle means no turn is in flight.
	StateIdle State = iota

	// StateSending means a turn is awaiting the provider.
	StateSending
)

// String returns the state's name.
func (s State) String() string {
	if s == StateSending {
		return "sending"
	}
	return "idle"
}

var (
	// ErrBusy is returned by Submit while another turn is in flight.
	ErrBusy = errors.New("a message is already being sent")

	// ErrEmptyInput is returned by Submit for blank input.
	ErrEmptyInput = errors.New("message is empty")

	// ErrUnknownModel is returned when a model ID is not in the registry.
	ErrUnknownModel = errors.New("unknown model")
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller mediates between the presentation layer and the chat core.
// Safe for concurrent use; at most one Submit runs at a time.
type Controller struct {
	mu      sync.Mutex
	sending bool

	log      *slog.Logger
	registry *model.Registry
	gateway  provider.Provider
	store    *store.Store
	quota    *quota.Tracker
	history  *history.Cache

	selectedModel string
	fallbackModel string
}

// Config wires the controller's collaborators.
type Config struct {
	Logger   *slog.Logger
	Registry *model.Registry
	Gateway  provider.Provider
	Store    *store.Store
	Quota    *quota.Tracker
	History  *history.Cache

	// DefaultModel is selected at startup; FallbackModel takes over when a
	// limited-tier model's daily quota is exhausted.
	DefaultModel  string
	FallbackModel string
}

// NewController creates a controller. The default model must exist in the
// registry; the fallback is checked lazily since it only matters once a
// quota runs out.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if _, ok := cfg.Registry.Describe(cfg.DefaultModel); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, cfg.DefaultModel)
	}
	return &Controller{
		log:           cfg.Logger,
		registry:      cfg.Registry,
		gateway:       cfg.Gateway,
		store:         cfg.Store,
		quota:         cfg.Quota,
		history:       cfg.History,
		selectedModel: cfg.DefaultModel,
		fallbackModel: cfg.FallbackModel,
	}, nil
}

// State reports whether a turn is in flight.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sending {
		return StateSending
	}
	return StateIdle
}

// SetFallbackModel updates the quota fallback target, used when the config
// file is reloaded at runtime.
func (c *Controller) SetFallbackModel(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fallbackModel = id
}

// Registry exposes the model registry for presentation-layer listings.
func (c *Controller) Registry() *model.Registry {
	return c.registry
}

// SelectedModel returns the descriptor of the currently selected model.
func (c *Controller) SelectedModel() model.Info {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, _ := c.registry.Describe(c.selectedModel)
	return info
}

// =============================================================================
// SUBMIT
// =============================================================================

// Result is the outcome of one completed turn. When IsError is set the
// provider call failed and Chat's last message carries the error text.
type Result struct {
	Chat     *store.Chat
	ModelID  string
	Reply    string
	IsError  bool
	FellBack bool
}

// Submit runs one conversation turn: resolve the effective model, ensure a
// current chat exists, call the provider with the model's recent history,
// and persist the exchange. A provider failure is a handled outcome (the
// chat records an error-marked message); only infrastructure failures and
// precondition violations return an error. No automatic retry.
func (c *Controller) Submit(ctx context.Context, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.sending = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.mu.Unlock()
	}()

	turnID := uuid.NewString()
	log := c.log.With("turn", turnID)

	info, fellBack, err := c.resolveModel(log)
	if err != nil {
		return nil, err
	}

	chat, err := c.ensureCurrentChat(info.ID)
	if err != nil {
		return nil, err
	}

	msgs := c.contextWindow(info.ID, text)
	log.Info("sending message", "model", info.ID, "chat", chat.ID, "context_len", len(msgs))

	reply, sendErr := c.gateway.Send(ctx, info.ID, msgs)
	if sendErr != nil {
		log.Warn("provider call failed", "model", info.ID, "error", sendErr)
		errText := fmt.Sprintf("Error with %s: %v", info.Name, sendErr)
		updated, storeErr := c.store.AppendMessage(chat.ID, text, errText, info.ID, true)
		if storeErr != nil {
			return nil, storeErr
		}
		return &Result{Chat: updated, ModelID: info.ID, Reply: errText, IsError: true, FellBack: fellBack}, nil
	}

	c.history.Append(info.ID, text, reply)
	if info.IsLimited() {
		if _, err := c.quota.Increment(); err != nil {
			log.Warn("failed to record quota usage", "error", err)
		}
	}

	updated, err := c.store.AppendMessage(chat.ID, text, reply, info.ID, false)
	if err != nil {
		return nil, err
	}
	log.Info("turn complete", "chat", updated.ID, "messages", updated.MessageCount())

	return &Result{Chat: updated, ModelID: info.ID, Reply: reply, FellBack: fellBack}, nil
}

// resolveModel applies the quota fallback: an exhausted limited-tier model
// is replaced by the configured fallback for this and later turns. Past
// messages keep the model they were produced with.
func (c *Controller) resolveModel(log *slog.Logger) (model.Info, bool, error) {
	c.mu.Lock()
	selected := c.selectedModel
	fallbackID := c.fallbackModel
	c.mu.Unlock()

	info, ok := c.registry.Describe(selected)
	if !ok {
		return model.Info{}, false, fmt.Errorf("%w: %s", ErrUnknownModel, selected)
	}

	exhausted, err := c.quota.Exhausted(info)
	if err != nil {
		return model.Info{}, false, err
	}
	if !exhausted {
		return info, false, nil
	}

	fallback, ok := c.registry.Describe(fallbackID)
	if !ok {
		return model.Info{}, false, fmt.Errorf("daily limit reached for %s and no fallback model available", info.Name)
	}
	log.Info("daily limit reached, falling back", "from", info.ID, "to", fallback.ID)

	c.mu.Lock()
	c.selectedModel = fallback.ID
	c.mu.Unlock()

	return fallback, true, nil
}

// ensureCurrentChat returns the current chat, creating and selecting one
// when nothing is selected.
func (c *Controller) ensureCurrentChat(modelID string) (*store.Chat, error) {
	id, err := c.store.CurrentID()
	if err != nil {
		return nil, err
	}
	if id != "" {
		return c.store.Get(id)
	}

	chat, err := c.store.Create("", modelID)
	if err != nil {
		return nil, err
	}
	if err := c.store.SetCurrentID(chat.ID); err != nil {
		return nil, err
	}
	return chat, nil
}

// contextWindow builds the provider payload: the model's buffered history,
// oldest first, ending with the new user message.
func (c *Controller) contextWindow(modelID, text string) []provider.Message {
	entries := c.history.Get(modelID)
	msgs := make([]provider.Message, 0, len(entries)+1)
	for _, e := range entries {
		role := provider.RoleUser
		if e.Role == history.RoleAssistant {
			role = provider.RoleAssistant
		}
		msgs = append(msgs, provider.Message{Role: role, Content: e.Content})
	}
	return append(msgs, provider.Message{Role: provider.RoleUser, Content: text})
}

// =============================================================================
// CHAT EVENTS
// =============================================================================

// Current returns the selected chat, or nil when nothing is selected.
func (c *Controller) Current() (*store.Chat, error) {
	id, err := c.store.CurrentID()
	if err != nil || id == "" {
		return nil, err
	}
	return c.store.Get(id)
}

// Chats lists all chats, most recently updated first.
func (c *Controller) Chats() ([]*store.Chat, error) {
	return c.store.ListByRecency()
}

// SelectChat makes the chat current and adopts its model when that model is
// still available.
func (c *Controller) SelectChat(id string) (*store.Chat, error) {
	chat, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	if err := c.store.SetCurrentID(id); err != nil {
		return nil, err
	}

	if _, ok := c.registry.Describe(chat.ModelID); ok {
		c.mu.Lock()
		c.selectedModel = chat.ModelID
		c.mu.Unlock()
	}
	return chat, nil
}

// NewChat creates an empty chat on the selected model and makes it current.
func (c *Controller) NewChat() (*store.Chat, error) {
	c.mu.Lock()
	modelID := c.selectedModel
	c.mu.Unlock()

	chat, err := c.store.Create("", modelID)
	if err != nil {
		return nil, err
	}
	if err := c.store.SetCurrentID(chat.ID); err != nil {
		return nil, err
	}
	c.log.Info("created chat", "chat", chat.ID, "model", modelID)
	return chat, nil
}

// DeleteChat removes the chat. When the current chat is deleted, the most
// recently updated remaining chat becomes current; with none left a fresh
// chat is created and selected. Returns the chat that is current afterwards.
func (c *Controller) DeleteChat(id string) (*store.Chat, error) {
	currentID, err := c.store.CurrentID()
	if err != nil {
		return nil, err
	}

	if err := c.store.Delete(id); err != nil {
		return nil, err
	}
	c.log.Info("deleted chat", "chat", id)

	if currentID != id {
		return c.Current()
	}

	remaining, err := c.store.ListByRecency()
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return c.SelectChat(remaining[0].ID)
	}
	return c.NewChat()
}

// RenameChat sets the chat's title. Returns false for a blank title or an
// unknown chat.
func (c *Controller) RenameChat(id, title string) (bool, error) {
	return c.store.Rename(id, title)
}

// ClearChat empties the chat's transcript and drops its model's context
// buffer so the next turn starts clean.
func (c *Controller) ClearChat(id string) error {
	chat, err := c.store.Get(id)
	if err != nil {
		return err
	}
	if err := c.store.ClearMessages(id); err != nil {
		return err
	}
	c.history.Clear(chat.ModelID)
	return nil
}

// ChangeModel selects a different model for subsequent turns.
func (c *Controller) ChangeModel(id string) (model.Info, error) {
	info, ok := c.registry.Describe(id)
	if !ok {
		return model.Info{}, fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}

	c.mu.Lock()
	c.selectedModel = id
	c.mu.Unlock()

	c.log.Info("model changed", "model", id)
	return info, nil
}

// Export returns the whole chat collection as indented JSON.
func (c *Controller) Export() ([]byte, error) {
	return c.store.ExportAll()
}

// Import replaces the chat collection with the given JSON payload.
func (c *Controller) Import(data []byte) error {
	if err := c.store.ImportAll(data); err != nil {
		return err
	}
	c.history.ClearAll()
	c.log.Info("imported chat collection")
	return nil
}
