// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/nextai-tui/internal/model"
)

// HTMLExporter writes a self-contained HTML page with embedded CSS.
type HTMLExporter struct {
	options *Options
}

func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions(".")
	}
	return &HTMLExporter{options: opts}
}

func (e *HTMLExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("  <meta charset=\"UTF-8\">\n")
	sb.WriteString("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	fmt.Fprintf(&sb, "  <title>%s</title>\n", html.EscapeString(conv.Title))
	sb.WriteString("  <meta name=\"generator\" content=\"nextai\">\n")
	fmt.Fprintf(&sb, "  <meta name=\"date\" content=\"%s\">\n", conv.CreatedAt.Format(time.RFC3339))
	sb.WriteString(stylesheet)
	sb.WriteString("</head>\n")
	fmt.Fprintf(&sb, "<body class=\"%s\">\n<div class=\"container\">\n", e.theme())

	fmt.Fprintf(&sb, "<h1>%s</h1>\n", html.EscapeString(conv.Title))
	if e.options.IncludeMetadata {
		fmt.Fprintf(&sb, "<p class=\"meta\">%d messages · created %s · exported %s</p>\n",
			len(conv.Messages),
			formatTimestamp(conv.CreatedAt),
			formatTimestamp(time.Now()))
	}

	for i := range conv.Messages {
		msg := &conv.Messages[i]
		cls, label := "system", "System"
		switch msg.Role {
		case model.RoleUser:
			cls, label = "user", "You"
		case model.RoleAssistant:
			cls, label = "assistant", "Assistant"
		}
		fmt.Fprintf(&sb, "<div class=\"message %s\">\n", cls)
		fmt.Fprintf(&sb, "  <div class=\"role\">%s", label)
		if !msg.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, " <span class=\"time\">%s</span>", formatTimestamp(msg.CreatedAt))
		}
		sb.WriteString("</div>\n")
		if e.options.IncludeReasoning && msg.Reasoning != "" {
			fmt.Fprintf(&sb, "  <details><summary>Reasoning</summary><pre>%s</pre></details>\n",
				html.EscapeString(msg.Reasoning))
		}
		fmt.Fprintf(&sb, "  <div class=\"content\">%s</div>\n</div>\n", renderBody(msg.Content))
	}

	sb.WriteString("</div>\n</body>\n</html>\n")
	return []byte(sb.String()), nil
}

func (e *HTMLExporter) FileExtension() string { return ".html" }

func (e *HTMLExporter) theme() string {
	if e.options.Theme == "light" {
		return "light"
	}
	return "dark"
}

// renderBody escapes content but keeps fenced code blocks readable as
// <pre> sections.
func renderBody(content string) string {
	parts := strings.Split(content, "```")
	var sb strings.Builder
	for i, part := range parts {
		if i%2 == 1 {
			// Inside a fence; the first line may be a language tag.
			code := part
			if nl := strings.IndexByte(code, '\n'); nl >= 0 {
				code = code[nl+1:]
			}
			fmt.Fprintf(&sb, "<pre><code>%s</code></pre>", html.EscapeString(code))
			continue
		}
		escaped := html.EscapeString(strings.TrimSpace(part))
		if escaped != "" {
			sb.WriteString("<p>")
			sb.WriteString(strings.ReplaceAll(escaped, "\n\n", "</p><p>"))
			sb.WriteString("</p>")
		}
	}
	return sb.String()
}

const stylesheet = `  <style>
    body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; padding: 2rem 1rem; }
    body.dark { background: #1a1b26; color: #c0caf5; }
    body.light { background: #fafafa; color: #24283b; }
    .container { max-width: 760px; margin: 0 auto; }
    .meta { opacity: 0.6; font-size: 0.85rem; }
    .message { margin: 1.25rem 0; padding: 0.75rem 1rem; border-radius: 8px; }
    .dark .message.user { background: #283457; }
    .dark .message.assistant { background: #24283b; }
    .light .message.user { background: #dbeafe; }
    .light .message.assistant { background: #eef2f7; }
    .message.system { opacity: 0.7; font-style: italic; }
    .role { font-weight: 600; margin-bottom: 0.4rem; }
    .role .time { font-weight: 400; opacity: 0.6; font-size: 0.8rem; }
    pre { overflow-x: auto; padding: 0.75rem; border-radius: 6px; }
    .dark pre { background: #16161e; }
    .light pre { background: #e5e7eb; }
    details { margin-bottom: 0.5rem; opacity: 0.8; }
  </style>
`
