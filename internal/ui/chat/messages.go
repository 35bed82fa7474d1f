// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xannyai/xanny-tui/internal/session"
	"github.com/xannyai/xanny-tui/internal/store"
)

// =============================================================================
// TEA MESSAGES
// =============================================================================

// turnDoneMsg carries the outcome of a Submit.
type turnDoneMsg struct {
	result *session.Result
	err    error
}

// chatsRefreshedMsg carries a reloaded chat list and current chat.
type chatsRefreshedMsg struct {
	chats   []*store.Chat
	current *store.Chat
	err     error
}

// statusMsg shows a transient line in the status bar.
type statusMsg string

// clearStatusMsg removes the transient status line.
type clearStatusMsg struct{}

// =============================================================================
// COMMANDS
// =============================================================================

// submitCmd runs one turn against the controller.
func submitCmd(ctrl *session.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		res, err := ctrl.Submit(context.Background(), text)
		return turnDoneMsg{result: res, err: err}
	}
}

// refreshCmd reloads the chat list and current selection.
func refreshCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		chats, err := ctrl.Chats()
		if err != nil {
			return chatsRefreshedMsg{err: err}
		}
		current, err := ctrl.Current()
		return chatsRefreshedMsg{chats: chats, current: current, err: err}
	}
}

// flashStatusCmd shows a status line that clears itself.
func flashStatusCmd(text string) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg { return statusMsg(text) },
		tea.Tick(3*time.Second, func(time.Time) tea.Msg { return clearStatusMsg{} }),
	)
}
