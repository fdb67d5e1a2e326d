// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/nextai-tui/internal/model"
)

// MarkdownExporter writes conversations as Markdown with optional YAML
// frontmatter.
type MarkdownExporter struct {
	options *Options
}

func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions(".")
	}
	return &MarkdownExporter{options: opts}
}

func (e *MarkdownExporter) Export(conv *model.Conversation) ([]byte, error) {
	if err := validate(conv); err != nil {
		return nil, err
	}

	var sb strings.Builder

	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		fmt.Fprintf(&sb, "title: %s\n", escapeYAML(conv.Title))
		fmt.Fprintf(&sb, "date: %s\n", conv.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(&sb, "updated: %s\n", conv.UpdatedAt.Format(time.RFC3339))
		fmt.Fprintf(&sb, "messages: %d\n", len(conv.Messages))
		fmt.Fprintf(&sb, "exported: %s\n", time.Now().Format(time.RFC3339))
		sb.WriteString("generator: nextai\n")
		sb.WriteString("---\n\n")
	}

	fmt.Fprintf(&sb, "# %s\n\n", conv.Title)

	for i := range conv.Messages {
		msg := &conv.Messages[i]
		switch msg.Role {
		case model.RoleUser:
			sb.WriteString("## 🙂 You")
		case model.RoleAssistant:
			sb.WriteString("## 🤖 Assistant")
		default:
			sb.WriteString("## System")
		}
		if !msg.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, " · %s", formatTimestamp(msg.CreatedAt))
		}
		sb.WriteString("\n\n")

		if e.options.IncludeReasoning && msg.Reasoning != "" {
			sb.WriteString("<details><summary>Reasoning</summary>\n\n")
			sb.WriteString(msg.Reasoning)
			sb.WriteString("\n\n</details>\n\n")
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n")
	}

	return []byte(sb.String()), nil
}

func (e *MarkdownExporter) FileExtension() string { return ".md" }

// escapeYAML quotes values that would break frontmatter parsing.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#[]{}&*!|>'\"%@`") || strings.TrimSpace(s) != s {
		return fmt.Sprintf("%q", s)
	}
	return s
}
