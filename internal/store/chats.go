// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/xannyai/xanny-tui/internal/kv"
)

// =============================================================================
// CONSTANTS AND ERRORS
// =============================================================================

const (
	// chatsKey holds the whole chat collection as a JSON array.
	chatsKey = "chats"

	// currentKey holds the selected chat's ID.
	currentKey = "current-chat"

	// DefaultTitle is the title of a chat before its first message.
	DefaultTitle = "New Chat"

	// titleMaxRunes caps auto-derived titles; longer first messages are cut
	// at this many runes and suffixed with an ellipsis.
	titleMaxRunes = 50

	// timestampLayout renders message times the way the transcript shows
	// them, as a local time of day.
	timestampLayout = "3:04:05 PM"
)

var (
	// ErrChatNotFound is returned when an operation names a chat ID that is
	// not in the collection.
	ErrChatNotFound = errors.New("chat not found")

	// ErrBadFormat is returned by ImportAll when the payload is not a valid
	// chat collection. The stored collection is left untouched.
	ErrBadFormat = errors.New("invalid chat collection format")
)

// =============================================================================
// STORE
// =============================================================================

// Store manages the persisted chat collection and the current-chat pointer.
// Safe for concurrent use; every mutation rewrites the collection key.
type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	now    func() time.Time
	lastID int64
}

// New creates a chat store over the given key-value backend. A nil now uses
// time.Now.
func New(backend kv.Store, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{kv: backend, now: now}
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Get returns the chat with the given ID, or ErrChatNotFound.
func (s *Store) Get(id string) (*Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, c := range chats {
		if c.ID == id {
			return c.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrChatNotFound, id)
}

// ListByRecency returns all chats ordered by UpdatedAt, newest first.
func (s *Store) ListByRecency() ([]*Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]*Chat, len(chats))
	for i, c := range chats {
		out[i] = c.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Count returns the number of stored chats.
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load()
	if err != nil {
		return 0, err
	}
	return len(chats), nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create adds a new empty chat and returns it. An empty title becomes
// DefaultTitle; the real title is derived from the first user message.
func (s *Store) Create(title, modelID string) (*Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load()
	if err != nil {
		return nil, err
	}

	if title == "" {
		title = DefaultTitle
	}
	now := s.now()
	chat := &Chat{
		ID:        s.newChatID(chats),
		Title:     title,
		ModelID:   modelID,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	chats = append(chats, chat)

	if err := s.save(chats); err != nil {
		return nil, err
	}
	return chat.Clone(), nil
}

// AppendMessage records one exchange on the chat. The chat's title is
// derived from the user text when this is the first message, and UpdatedAt
// is refreshed. Returns the updated chat.
func (s *Store) AppendMessage(chatID, userText, aiText, modelID string, isErr bool) (*Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load()
	if err != nil {
		return nil, err
	}
	chat := findChat(chats, chatID)
	if chat == nil {
		return nil, fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}

	now := s.now()
	msg := Message{
		ID:        s.nextMessageID(now),
		User:      userText,
		AI:        aiText,
		Timestamp: now.Format(timestampLayout),
		ModelID:   modelID,
		IsError:   isErr,
	}
	chat.Messages = append(chat.Messages, msg)
	if len(chat.Messages) == 1 {
		chat.Title = deriveTitle(userText)
	}
	chat.UpdatedAt = now

	if err := s.save(chats); err != nil {
		return nil, err
	}
	return chat.Clone(), nil
}

// Rename sets the chat's title. Returns false when the chat does not exist
// or the title is blank after trimming; the collection is unchanged then.
func (s *Store) Rename(chatID, title string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return false, nil
	}

	chats, err := s.load()
	if err != nil {
		return false, err
	}
	chat := findChat(chats, chatID)
	if chat == nil {
		return false, nil
	}

	chat.Title = title
	chat.UpdatedAt = s.now()
	if err := s.save(chats); err != nil {
		return false, err
	}
	return true, nil
}

// ClearMessages empties the chat's transcript but keeps the chat itself,
// its title included.
func (s *Store) ClearMessages(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load()
	if err != nil {
		return err
	}
	chat := findChat(chats, chatID)
	if chat == nil {
		return fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}

	chat.Messages = []Message{}
	chat.UpdatedAt = s.now()
	return s.save(chats)
}

// Delete removes the chat. Deleting the current chat clears the current
// pointer; the caller decides what to select next.
func (s *Store) Delete(chatID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load()
	if err != nil {
		return err
	}

	idx := -1
	for i, c := range chats {
		if c.ID == chatID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrChatNotFound, chatID)
	}

	chats = append(chats[:idx], chats[idx+1:]...)
	if err := s.save(chats); err != nil {
		return err
	}

	current, _ := s.currentID()
	if current == chatID {
		return s.kv.Delete(currentKey)
	}
	return nil
}

// =============================================================================
// CURRENT SELECTION
// =============================================================================

// CurrentID returns the selected chat's ID, or "" when nothing is selected.
// A pointer referencing a chat that no longer exists reads as "".
func (s *Store) CurrentID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.currentID()
	if err != nil || id == "" {
		return "", err
	}

	chats, err := s.load()
	if err != nil {
		return "", err
	}
	if findChat(chats, id) == nil {
		return "", nil
	}
	return id, nil
}

// SetCurrentID persists the selection. An empty ID clears it.
func (s *Store) SetCurrentID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		return s.kv.Delete(currentKey)
	}
	return s.kv.Put(currentKey, []byte(id))
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

// ExportAll returns the whole collection as indented JSON, suitable for a
// backup file and for ImportAll.
func (s *Store) ExportAll() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chats, err := s.load()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(chats, "", "  ")
}

// ImportAll replaces the whole collection with the given JSON payload.
// On ErrBadFormat the stored collection is untouched. The current pointer
// is cleared when it no longer references an imported chat.
func (s *Store) ImportAll(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var chats []*Chat
	if err := json.Unmarshal(data, &chats); err != nil {
		return fmt.Errorf("%w: %v", ErrBadFormat, err)
	}
	for _, c := range chats {
		if c == nil || c.ID == "" {
			return fmt.Errorf("%w: chat without id", ErrBadFormat)
		}
		if c.Messages == nil {
			c.Messages = []Message{}
		}
	}

	if err := s.save(chats); err != nil {
		return err
	}

	current, _ := s.currentID()
	if current != "" && findChat(chats, current) == nil {
		return s.kv.Delete(currentKey)
	}
	return nil
}

// =============================================================================
// INTERNAL
// =============================================================================

func (s *Store) load() ([]*Chat, error) {
	data, ok, err := s.kv.Get(chatsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load chats: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var chats []*Chat
	if err := json.Unmarshal(data, &chats); err != nil {
		return nil, fmt.Errorf("failed to parse stored chats: %w", err)
	}
	return chats, nil
}

func (s *Store) save(chats []*Chat) error {
	if chats == nil {
		chats = []*Chat{}
	}
	data, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("failed to encode chats: %w", err)
	}
	if err := s.kv.Put(chatsKey, data); err != nil {
		return fmt.Errorf("failed to store chats: %w", err)
	}
	return nil
}

func (s *Store) currentID() (string, error) {
	data, ok, err := s.kv.Get(currentKey)
	if err != nil {
		return "", fmt.Errorf("failed to load current chat: %w", err)
	}
	if !ok {
		return "", nil
	}
	return string(data), nil
}

// newChatID derives an ID from the creation time, bumping on collision so
// two chats created in the same millisecond stay distinct.
func (s *Store) newChatID(existing []*Chat) string {
	ms := s.now().UnixMilli()
	for {
		id := "chat_" + strconv.FormatInt(ms, 10)
		if findChat(existing, id) == nil {
			return id
		}
		ms++
	}
}

// nextMessageID keeps message IDs strictly increasing even when two
// messages land in the same millisecond.
func (s *Store) nextMessageID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func findChat(chats []*Chat, id string) *Chat {
	for _, c := range chats {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// deriveTitle builds a chat title from the first user message.
func deriveTitle(userText string) string {
	text := strings.TrimSpace(userText)
	if text == "" {
		return DefaultTitle
	}
	runes := []rune(text)
	if len(runes) <= titleMaxRunes {
		return text
	}
	return string(runes[:titleMaxRunes]) + "..."
}
