// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xannyai/xanny-tui/internal/session"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if !m.sending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case turnDoneMsg:
		return m.handleTurnDone(msg)
	case chatsRefreshedMsg:
		return m.handleRefresh(msg)
	case statusMsg:
		m.status = string(msg)
		return m, nil
	case clearStatusMsg:
		m.status = ""
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Header, status bar, and input each take one line.
	vpHeight := msg.Height - 3
	if vpHeight < 3 {
		vpHeight = 3
	}
	if !m.ready {
		m.viewport = viewport.New(m.transcriptWidth(), vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.transcriptWidth()
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 4
	m.refreshTranscript()
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.sending {
			return m, nil
		}
		m.input.Reset()
		m.sending = true
		m.status = ""
		return m, tea.Batch(submitCmd(m.ctrl, text), m.spinner.Tick)

	case "ctrl+n":
		if m.sending {
			return m, nil
		}
		if _, err := m.ctrl.NewChat(); err != nil {
			return m, flashStatusCmd("new chat failed: " + err.Error())
		}
		return m, refreshCmd(m.ctrl)

	case "ctrl+o":
		return m.cycleModel()

	case "ctrl+l":
		if m.current == nil || m.sending {
			return m, nil
		}
		if err := m.ctrl.ClearChat(m.current.ID); err != nil {
			return m, flashStatusCmd("clear failed: " + err.Error())
		}
		return m, refreshCmd(m.ctrl)

	case "ctrl+x":
		if m.current == nil || m.sending {
			return m, nil
		}
		if _, err := m.ctrl.DeleteChat(m.current.ID); err != nil {
			return m, flashStatusCmd("delete failed: " + err.Error())
		}
		return m, refreshCmd(m.ctrl)

	case "tab":
		m.showSidebar = !m.showSidebar
		m.viewport.Width = m.transcriptWidth()
		m.refreshTranscript()
		return m, nil

	case "ctrl+j":
		return m.selectAdjacentChat(1)
	case "ctrl+k":
		return m.selectAdjacentChat(-1)

	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleTurnDone(msg turnDoneMsg) (tea.Model, tea.Cmd) {
	m.sending = false

	if msg.err != nil {
		if errors.Is(msg.err, session.ErrBusy) || errors.Is(msg.err, session.ErrEmptyInput) {
			return m, nil
		}
		return m, flashStatusCmd("error: " + msg.err.Error())
	}

	var cmds []tea.Cmd
	cmds = append(cmds, refreshCmd(m.ctrl))
	if msg.result.FellBack {
		cmds = append(cmds, flashStatusCmd("daily limit reached, switched to "+m.ctrl.SelectedModel().Name))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleRefresh(msg chatsRefreshedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, flashStatusCmd("load failed: " + msg.err.Error())
	}
	m.chats = msg.chats
	m.current = msg.current
	m.refreshTranscript()
	m.viewport.GotoBottom()
	return m, nil
}

// cycleModel advances the selection through the registry's catalog order.
func (m *Model) cycleModel() (tea.Model, tea.Cmd) {
	available := m.ctrl.Registry().Available()
	if len(available) < 2 {
		return m, nil
	}
	currentID := m.ctrl.SelectedModel().ID
	next := available[0]
	for i, info := range available {
		if info.ID == currentID {
			next = available[(i+1)%len(available)]
			break
		}
	}
	info, err := m.ctrl.ChangeModel(next.ID)
	if err != nil {
		return m, flashStatusCmd("model switch failed: " + err.Error())
	}
	return m, flashStatusCmd("model: " + info.Name)
}

// selectAdjacentChat moves the selection up or down the recency-ordered
// sidebar list.
func (m *Model) selectAdjacentChat(delta int) (tea.Model, tea.Cmd) {
	if len(m.chats) == 0 || m.current == nil || m.sending {
		return m, nil
	}
	idx := -1
	for i, c := range m.chats {
		if c.ID == m.current.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m, nil
	}
	idx += delta
	if idx < 0 || idx >= len(m.chats) {
		return m, nil
	}
	if _, err := m.ctrl.SelectChat(m.chats[idx].ID); err != nil {
		return m, flashStatusCmd("select failed: " + err.Error())
	}
	return m, refreshCmd(m.ctrl)
}
