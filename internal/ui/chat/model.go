// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/xannyai/xanny-tui/internal/session"
	"github.com/xannyai/xanny-tui/internal/store"
	"github.com/xannyai/xanny-tui/internal/ui/styles"
)

// =============================================================================
// MODEL
// =============================================================================

const sidebarWidth = 28

// Model is the bubbletea model for the chat screen.
type Model struct {
	ctrl *session.Controller

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	chats       []*store.Chat
	current     *store.Chat
	sending     bool
	showSidebar bool
	status      string
	width       int
	height      int
	ready       bool
}

// New creates the chat screen bound to the controller. theme is the
// configured ui.theme value.
func New(ctrl *session.Controller, theme string) (*Model, error) {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.Prompt = "> "
	input.PromptStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.GlamourStyle(theme)),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	return &Model{
		ctrl:     ctrl,
		input:    input,
		spinner:  sp,
		renderer: renderer,
	}, nil
}

// Init loads the chat list.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(refreshCmd(m.ctrl), textinput.Blink)
}

// transcriptWidth is the viewport width accounting for the sidebar.
func (m *Model) transcriptWidth() int {
	w := m.width
	if m.showSidebar {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}
