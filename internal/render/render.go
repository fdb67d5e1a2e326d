// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render turns model output into styled terminal text:
// sanitized, Markdown-formatted, with chain-of-thought blocks boxed
// and TeX math prettified.
package render

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
)

// cursorMarker is appended to the tail of a streaming reply.
const cursorMarker = "▌"

// Options control one render call.
type Options struct {
	// StreamingTail appends the cursor marker.
	StreamingTail bool
	// ThinkElapsed labels the collapsed reasoning summary.
	ThinkElapsed time.Duration
	// ExpandReasoning shows closed reasoning interiors instead of the
	// collapsed summary line.
	ExpandReasoning bool
}

// Renderer renders one message body at a time.
//
// Rendering is pure apart from a single-entry cache: the incremental
// paint loop re-renders the same accumulated buffer many times per
// second, and the identical input must return the identical output
// without re-running the pipeline.
type Renderer struct {
	mu    sync.Mutex
	md    *glamour.TermRenderer
	width int
	dark  bool

	lastText string
	lastOpts Options
	lastOut  string
	hasLast  bool
}

// New creates a renderer wrapping at width columns.
func New(width int, dark bool) (*Renderer, error) {
	r := &Renderer{width: width, dark: dark}
	if err := r.rebuild(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) rebuild() error {
	style := "light"
	if r.dark {
		style = "dark"
	}
	width := r.width
	if width < 20 {
		width = 20
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return err
	}
	r.md = md
	return nil
}

// SetWidth rewraps future renders at the new terminal width.
func (r *Renderer) SetWidth(width int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width == r.width {
		return nil
	}
	r.width = width
	r.hasLast = false
	return r.rebuild()
}

// SetDark switches between the dark and light Markdown styles.
func (r *Renderer) SetDark(dark bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if dark == r.dark {
		return nil
	}
	r.dark = dark
	r.hasLast = false
	return r.rebuild()
}

// Render runs the full pipeline over one message body.
func (r *Renderer) Render(text string, opts Options) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasLast && text == r.lastText && opts == r.lastOpts {
		return r.lastOut
	}

	out := r.renderLocked(text, opts)

	r.lastText = text
	r.lastOpts = opts
	r.lastOut = out
	r.hasLast = true
	return out
}

func (r *Renderer) renderLocked(text string, opts Options) string {
	s := StripControlSequences(text)

	// Think and math spans are lifted out before Markdown so the
	// renderer cannot mangle their interiors, then spliced back in.
	s, thinks := extractThinkSpans(s)
	s, maths := extractMathSpans(s)

	rendered, err := r.md.Render(s)
	if err != nil {
		rendered = s
	}
	rendered = strings.TrimRight(rendered, "\n")

	for i, span := range maths {
		rendered = strings.Replace(rendered, mathPlaceholder(i), renderMath(span), 1)
	}
	for i, span := range thinks {
		box := renderThinkBox(span, opts.ThinkElapsed, opts.ExpandReasoning)
		rendered = strings.Replace(rendered, thinkPlaceholder(i), box, 1)
	}

	if opts.StreamingTail {
		rendered += cursorMarker
	}
	return rendered
}

// RenderMessage renders a reply whose reasoning was already separated
// from the answer. thinking means reasoning text is still arriving and
// no answer content exists yet.
func (r *Renderer) RenderMessage(answer, reasoning string, thinking bool, opts Options) string {
	var parts []string
	if reasoning != "" {
		box := renderThinkBox(thinkSpan{body: strings.TrimSpace(reasoning), open: thinking},
			opts.ThinkElapsed, opts.ExpandReasoning)
		if box != "" {
			parts = append(parts, box)
		}
	}
	if answer != "" || !thinking {
		body := r.Render(answer, opts)
		if body != "" {
			parts = append(parts, body)
		}
	}
	return strings.Join(parts, "\n\n")
}
