// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// thinkSpan is one chain-of-thought block lifted out of the text before
// Markdown rendering. open means the close tag has not arrived yet.
type thinkSpan struct {
	body string
	open bool
}

// Tag pairs recognized inline. Stored history uses <thinking>, live
// model output uses <think>.
var thinkTagPairs = [][2]string{
	{"<thinking>", "</thinking>"},
	{"<think>", "</think>"},
}

func thinkPlaceholder(i int) string {
	return fmt.Sprintf("::think-span-%d::", i)
}

// extractThinkSpans replaces think blocks with placeholder tokens so
// the Markdown renderer never sees them. An unterminated block runs to
// the end of the text and is marked open.
func extractThinkSpans(s string) (string, []thinkSpan) {
	var spans []thinkSpan
	for {
		openIdx := -1
		var pair [2]string
		for _, p := range thinkTagPairs {
			if idx := strings.Index(s, p[0]); idx >= 0 && (openIdx < 0 || idx < openIdx) {
				openIdx = idx
				pair = p
			}
		}
		if openIdx < 0 {
			return s, spans
		}

		rest := s[openIdx+len(pair[0]):]
		closeIdx := strings.Index(rest, pair[1])
		token := thinkPlaceholder(len(spans))
		if closeIdx < 0 {
			spans = append(spans, thinkSpan{body: strings.TrimSpace(rest), open: true})
			return s[:openIdx] + token, spans
		}
		spans = append(spans, thinkSpan{body: strings.TrimSpace(rest[:closeIdx])})
		s = s[:openIdx] + token + rest[closeIdx+len(pair[1]):]
	}
}

// =============================================================================
// THINK BOX
// =============================================================================

var (
	thinkHeaderStyle = lipgloss.NewStyle().
				Foreground(styles.TextMuted).
				Italic(true)

	thinkBodyStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Italic(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(styles.OverlayDim).
			PaddingLeft(1)
)

// FormatThinkDuration renders an elapsed reasoning time for the
// collapsed summary line.
func FormatThinkDuration(d time.Duration) string {
	if d < time.Second {
		return "under a second"
	}
	secs := int(d.Round(time.Second).Seconds())
	if secs < 60 {
		return fmt.Sprintf("%ds", secs)
	}
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

// renderThinkBox renders one reasoning block. Blank interiors render
// nothing at all. While the block is still streaming the interior is
// shown under a "thinking" header; once closed it collapses to a
// summary line unless expanded.
func renderThinkBox(span thinkSpan, elapsed time.Duration, expanded bool) string {
	if span.body == "" {
		return ""
	}
	if span.open {
		header := thinkHeaderStyle.Render("thinking…")
		return header + "\n" + thinkBodyStyle.Render(span.body)
	}

	summary := "thought process"
	if elapsed > 0 {
		summary = "thought for " + FormatThinkDuration(elapsed)
	}
	if !expanded {
		return thinkHeaderStyle.Render("▸ " + summary)
	}
	return thinkHeaderStyle.Render("▾ "+summary) + "\n" + thinkBodyStyle.Render(span.body)
}
