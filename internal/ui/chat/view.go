// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xannyai/xanny-tui/internal/store"
	"github.com/xannyai/xanny-tui/internal/ui/styles"
	"github.com/xannyai/xanny-tui/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	headerMetaStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(styles.UserBubbleFg).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(styles.AssistantBubbleFg).
				Bold(true)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(styles.ErrorBubbleFg)

	timestampStyle = lipgloss.NewStyle().
			Foreground(styles.TextMuted)

	statusStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)

	sidebarStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(styles.Overlay).
			Width(sidebarWidth - 1)

	sidebarSelectedStyle = lipgloss.NewStyle().
				Background(styles.SelectionBg).
				Bold(true)

	sidebarItemStyle = lipgloss.NewStyle().
				Foreground(styles.TextSecondary)
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the whole screen.
func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	header := m.renderHeader()

	transcript := m.viewport.View()
	if m.showSidebar {
		transcript = lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), transcript)
	}

	return strings.Join([]string{header, transcript, m.renderStatus(), m.input.View()}, "\n")
}

func (m *Model) renderHeader() string {
	title := "New Chat"
	if m.current != nil {
		title = m.current.Title
	}
	info := m.ctrl.SelectedModel()
	left := headerStyle.Render("xanny") + " " + util.TruncateWidth(title, 40)
	right := headerMetaStyle.Render(fmt.Sprintf("%s (%s)", info.Name, info.Provider))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderStatus() string {
	if m.sending {
		return m.spinner.View() + " thinking..."
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return headerMetaStyle.Render("enter send | tab chats | ctrl+n new | ctrl+o model | ctrl+c quit")
}

func (m *Model) renderSidebar() string {
	var lines []string
	for _, c := range m.chats {
		label := util.TruncateWidth(c.Title, sidebarWidth-4)
		if m.current != nil && c.ID == m.current.ID {
			lines = append(lines, sidebarSelectedStyle.Render("> "+label))
		} else {
			lines = append(lines, sidebarItemStyle.Render("  "+label))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, sidebarItemStyle.Render("  (no chats)"))
	}
	return sidebarStyle.Height(m.viewport.Height).Render(strings.Join(lines, "\n"))
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// refreshTranscript rebuilds the viewport content from the current chat.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	if m.current == nil || len(m.current.Messages) == 0 {
		m.viewport.SetContent(headerMetaStyle.Render("\n  Start the conversation.\n"))
		return
	}

	var sb strings.Builder
	for _, msg := range m.current.Messages {
		sb.WriteString(m.renderMessage(msg))
	}
	m.viewport.SetContent(sb.String())
}

func (m *Model) renderMessage(msg store.Message) string {
	var sb strings.Builder

	sb.WriteString(userLabelStyle.Render("You"))
	sb.WriteString(" " + timestampStyle.Render(msg.Timestamp) + "\n")
	sb.WriteString(msg.User + "\n\n")

	if msg.IsError {
		sb.WriteString(errorTextStyle.Render(msg.AI) + "\n\n")
		return sb.String()
	}

	sb.WriteString(assistantLabelStyle.Render("Assistant") + "\n")
	rendered, err := m.renderer.Render(msg.AI)
	if err != nil {
		rendered = msg.AI + "\n"
	}
	sb.WriteString(rendered + "\n")
	return sb.String()
}
