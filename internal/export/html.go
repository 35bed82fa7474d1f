// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	htmlfmt "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/xannyai/xanny-tui/internal/store"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// HTMLExporter renders a chat transcript as a standalone HTML page with
// syntax-highlighted code blocks.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export renders the chat as HTML.
func (e *HTMLExporter) Export(chat *store.Chat) ([]byte, error) {
	if chat == nil {
		return nil, fmt.Errorf("chat is nil")
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("<meta charset=\"utf-8\">\n")
	sb.WriteString(fmt.Sprintf("<title>%s</title>\n", html.EscapeString(chat.Title)))
	sb.WriteString("<style>\n")
	sb.WriteString(e.css())
	sb.WriteString("</style>\n</head>\n<body>\n")

	sb.WriteString(fmt.Sprintf("<h1>%s</h1>\n", html.EscapeString(chat.Title)))
	sb.WriteString(fmt.Sprintf("<p class=\"meta\">Model: %s &middot; %d messages</p>\n",
		html.EscapeString(chat.ModelID), len(chat.Messages)))

	for _, msg := range chat.Messages {
		e.writeTurn(&sb, "user", "You", msg.Timestamp, msg.User)

		class, label := "assistant", "Assistant"
		if msg.IsError {
			class, label = "error", "Error"
		}
		e.writeTurn(&sb, class, label, msg.Timestamp, msg.AI)
	}

	sb.WriteString("</body>\n</html>\n")
	return []byte(sb.String()), nil
}

func (e *HTMLExporter) writeTurn(sb *strings.Builder, class, label, timestamp, content string) {
	sb.WriteString(fmt.Sprintf("<div class=\"message %s\">\n", class))
	sb.WriteString(fmt.Sprintf("<div class=\"role\">%s", label))
	if e.options.IncludeTimestamps && timestamp != "" {
		sb.WriteString(fmt.Sprintf(" <span class=\"time\">%s</span>", html.EscapeString(timestamp)))
	}
	sb.WriteString("</div>\n")
	sb.WriteString(renderContent(content, e.chromaStyle()))
	sb.WriteString("</div>\n")
}

// FileExtension returns ".html".
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

func (e *HTMLExporter) chromaStyle() *chroma.Style {
	name := "monokai"
	if e.options.Theme == "light" {
		name = "github"
	}
	style := chromaStyles.Get(name)
	if style == nil {
		style = chromaStyles.Fallback
	}
	return style
}

func (e *HTMLExporter) css() string {
	bg, fg, bubble := "#1e1e1e", "#e0e0e0", "#2a2a2a"
	if e.options.Theme == "light" {
		bg, fg, bubble = "#ffffff", "#1a1a1a", "#f0f0f0"
	}
	return fmt.Sprintf(`body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; background: %s; color: %s; padding: 0 1rem; }
.meta { color: #888; }
.message { background: %s; border-radius: 8px; padding: 0.75rem 1rem; margin: 0.75rem 0; }
.message.error { border-left: 3px solid #d33; }
.role { font-weight: bold; margin-bottom: 0.5rem; }
.time { font-weight: normal; color: #888; font-size: 0.8em; }
pre { overflow-x: auto; padding: 0.75rem; border-radius: 6px; }
`, bg, fg, bubble)
}

// =============================================================================
// CONTENT RENDERING
// =============================================================================

// renderContent converts message text to HTML. Fenced code blocks are
// syntax-highlighted with chroma; everything else is escaped plain text.
func renderContent(content string, style *chroma.Style) string {
	var sb strings.Builder
	rest := content

	for {
		start := strings.Index(rest, "```")
		if start < 0 {
			writePlain(&sb, rest)
			break
		}
		writePlain(&sb, rest[:start])

		rest = rest[start+3:]
		newline := strings.IndexByte(rest, '\n')
		end := strings.Index(rest, "```")
		if newline < 0 || end < 0 || end < newline {
			// Unterminated fence, treat the remainder as plain text.
			writePlain(&sb, "```"+rest)
			break
		}

		lang := strings.TrimSpace(rest[:newline])
		code := rest[newline+1 : end]
		sb.WriteString(highlightHTML(code, lang, style))
		rest = rest[end+3:]
	}

	return sb.String()
}

func writePlain(sb *strings.Builder, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	escaped := html.EscapeString(text)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
	sb.WriteString("<p>" + escaped + "</p>\n")
}

// highlightHTML renders one code block through chroma's HTML formatter,
// falling back to an escaped <pre> on any failure.
func highlightHTML(code, language string, style *chroma.Style) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	formatter := htmlfmt.New(htmlfmt.WithClasses(false), htmlfmt.Standalone(false))

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "<pre>" + html.EscapeString(code) + "</pre>\n"
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "<pre>" + html.EscapeString(code) + "</pre>\n"
	}
	return buf.String()
}
