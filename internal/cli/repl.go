// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/xannyai/xanny-tui/internal/config"
	"github.com/xannyai/xanny-tui/internal/export"
	"github.com/xannyai/xanny-tui/internal/session"
	"github.com/xannyai/xanny-tui/internal/store"
	"github.com/xannyai/xanny-tui/internal/ui/styles"
	"github.com/xannyai/xanny-tui/internal/util"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle  = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	replyStyle   = lipgloss.NewStyle().Foreground(styles.AssistantBubbleFg)
	commandStyle = lipgloss.NewStyle().Foreground(styles.Emerald)
	mutedStyle   = lipgloss.NewStyle().Foreground(styles.TextMuted)
)

// =============================================================================
// REPL
// =============================================================================

// REPL is the interactive line-based chat loop.
type REPL struct {
	ctrl        *session.Controller
	exportDir   string
	line        *liner.State
	historyFile string
}

// NewREPL creates the REPL with line-editing history persisted under the
// config directory.
func NewREPL(ctrl *session.Controller, exportDir string) *REPL {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := ""
	if dir, err := config.Dir(); err == nil {
		historyFile = filepath.Join(dir, "repl_history")
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	return &REPL{
		ctrl:        ctrl,
		exportDir:   exportDir,
		line:        line,
		historyFile: historyFile,
	}
}

// Close persists input history and releases the terminal.
func (r *REPL) Close() {
	if r.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(r.historyFile), 0755); err == nil {
			if f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				r.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	r.line.Close()
}

// Run drives the loop until /quit or EOF.
func (r *REPL) Run(ctx context.Context) error {
	r.printWelcome()

	for {
		input, err := r.line.Prompt(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println(mutedStyle.Render("bye"))
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			quit, err := r.handleCommand(input)
			if err != nil {
				fmt.Println(styles.RenderError(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		r.send(ctx, input)
	}
}

// send runs one turn and prints the outcome.
func (r *REPL) send(ctx context.Context, text string) {
	res, err := r.ctrl.Submit(ctx, text)
	if err != nil {
		fmt.Println(styles.RenderError(err.Error()))
		return
	}
	if res.FellBack {
		fmt.Println(styles.RenderWarning("daily limit reached, switched to " + r.ctrl.SelectedModel().Name))
	}
	if res.IsError {
		fmt.Println(styles.RenderError(res.Reply))
		return
	}
	fmt.Println(replyStyle.Render(res.Reply))
	fmt.Println()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleCommand dispatches a /command. Returns true when the loop should
// exit.
func (r *REPL) handleCommand(input string) (bool, error) {
	fields := strings.Fields(input)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		fmt.Println(mutedStyle.Render("bye"))
		return true, nil

	case "/help", "/h":
		r.printHelp()
		return false, nil

	case "/new":
		chat, err := r.ctrl.NewChat()
		if err != nil {
			return false, err
		}
		fmt.Println(styles.RenderSuccess("new chat " + chat.ID))
		return false, nil

	case "/list", "/ls":
		return false, r.listChats()

	case "/switch":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /switch <chat-id or number>")
		}
		return false, r.switchChat(args[0])

	case "/rename":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: /rename <new title>")
		}
		return false, r.renameCurrent(strings.Join(args, " "))

	case "/clear":
		return false, r.clearCurrent()

	case "/delete", "/rm":
		return false, r.deleteCurrent()

	case "/model":
		return false, r.modelCommand(args)

	case "/export":
		return false, r.exportCommand(args)

	case "/import":
		if len(args) != 1 {
			return false, fmt.Errorf("usage: /import <file.json>")
		}
		return false, r.importBackup(args[0])

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

func (r *REPL) listChats() error {
	chats, err := r.ctrl.Chats()
	if err != nil {
		return err
	}
	if len(chats) == 0 {
		fmt.Println(mutedStyle.Render("no chats yet"))
		return nil
	}

	current, err := r.ctrl.Current()
	if err != nil {
		return err
	}
	for i, c := range chats {
		marker := " "
		if current != nil && c.ID == current.ID {
			marker = "*"
		}
		fmt.Printf("%s %2d  %s  %s  %s\n",
			marker, i+1,
			c.ID,
			util.PadRight(util.TruncateWidth(c.Title, 40), 40),
			mutedStyle.Render(c.UpdatedAt.Format("2006-01-02 15:04")),
		)
	}
	return nil
}

// switchChat accepts either a chat ID or a 1-based index into /list output.
func (r *REPL) switchChat(ref string) error {
	id := ref
	if n, err := parseIndex(ref); err == nil {
		chats, err := r.ctrl.Chats()
		if err != nil {
			return err
		}
		if n < 1 || n > len(chats) {
			return fmt.Errorf("no chat number %d", n)
		}
		id = chats[n-1].ID
	}

	chat, err := r.ctrl.SelectChat(id)
	if err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess("switched to " + chat.Title))
	r.printTranscript(chat)
	return nil
}

func (r *REPL) renameCurrent(title string) error {
	current, err := r.requireCurrent()
	if err != nil {
		return err
	}
	ok, err := r.ctrl.RenameChat(current.ID, title)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("rename rejected (blank title?)")
	}
	fmt.Println(styles.RenderSuccess("renamed"))
	return nil
}

func (r *REPL) clearCurrent() error {
	current, err := r.requireCurrent()
	if err != nil {
		return err
	}
	if err := r.ctrl.ClearChat(current.ID); err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess("cleared"))
	return nil
}

func (r *REPL) deleteCurrent() error {
	current, err := r.requireCurrent()
	if err != nil {
		return err
	}
	next, err := r.ctrl.DeleteChat(current.ID)
	if err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess("deleted; now on " + next.Title))
	return nil
}

func (r *REPL) modelCommand(args []string) error {
	if len(args) == 0 {
		selected := r.ctrl.SelectedModel()
		for _, info := range r.ctrl.Registry().Available() {
			marker := " "
			if info.ID == selected.ID {
				marker = "*"
			}
			tier := ""
			if info.IsLimited() {
				tier = mutedStyle.Render(" (daily limit)")
			}
			fmt.Printf("%s %s  %s%s\n", marker, util.PadRight(info.ID, 30), info.Name, tier)
		}
		return nil
	}

	info, err := r.ctrl.ChangeModel(args[0])
	if err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess("model: " + info.Name))
	return nil
}

func (r *REPL) exportCommand(args []string) error {
	format := "json"
	if len(args) > 0 {
		format = args[0]
	}

	switch format {
	case "json":
		data, err := r.ctrl.Export()
		if err != nil {
			return err
		}
		path, err := export.WriteBackup(r.exportDir, data)
		if err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess("backup written to " + path))
		return nil

	case "md", "markdown", "html":
		current, err := r.requireCurrent()
		if err != nil {
			return err
		}
		opts := export.DefaultOptions()
		opts.OutputDir = r.exportDir
		var exporter export.Exporter = export.NewMarkdownExporter(opts)
		if format == "html" {
			exporter = export.NewHTMLExporter(opts)
		}
		path, err := export.ToFile(current, exporter, opts)
		if err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess("exported to " + path))
		return nil

	default:
		return fmt.Errorf("usage: /export [json|md|html]")
	}
}

func (r *REPL) importBackup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := r.ctrl.Import(data); err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess("imported " + path))
	return nil
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func (r *REPL) requireCurrent() (*store.Chat, error) {
	current, err := r.ctrl.Current()
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("no chat selected (send a message or /new)")
	}
	return current, nil
}

func (r *REPL) printTranscript(chat *store.Chat) {
	for _, msg := range chat.Messages {
		fmt.Println(promptStyle.Render("you> ") + msg.User)
		if msg.IsError {
			fmt.Println(styles.RenderError(msg.AI))
		} else {
			fmt.Println(replyStyle.Render(msg.AI))
		}
		fmt.Println()
	}
}

func (r *REPL) printWelcome() {
	info := r.ctrl.SelectedModel()
	fmt.Println(promptStyle.Render("xanny") + mutedStyle.Render(" - chat with "+info.Name))
	fmt.Println(mutedStyle.Render("type a message, or /help for commands"))
	fmt.Println()
}

func (r *REPL) printHelp() {
	rows := [][2]string{
		{"/new", "start a new chat"},
		{"/list", "list chats (most recent first)"},
		{"/switch <id|n>", "switch to a chat"},
		{"/rename <title>", "rename the current chat"},
		{"/clear", "clear the current chat's messages"},
		{"/delete", "delete the current chat"},
		{"/model [id]", "list models or switch"},
		{"/export [json|md|html]", "export chats or the current transcript"},
		{"/import <file>", "replace chats from a backup file"},
		{"/quit", "exit"},
	}
	for _, row := range rows {
		fmt.Printf("  %s %s\n", commandStyle.Render(util.PadRight(row[0], 24)), row[1])
	}
}

// parseIndex parses a 1-based list index.
func parseIndex(s string) (int, error) {
	return strconv.Atoi(s)
}
