// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"
	"testing"
	"time"
)

func TestStripControlSequences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"sgr color", "\x1b[31mred\x1b[0m text", "red text"},
		{"cursor movement", "\x1b[2Aup\x1b[10;20H", "up"},
		{"osc title", "\x1b]0;evil title\x07body", "body"},
		{"stray escape", "a\x1bb", "ab"},
		{"keeps newline and tab", "a\n\tb", "a\n\tb"},
		{"drops carriage return", "a\rb", "ab"},
		{"drops bell and backspace", "a\x07\x08b", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripControlSequences(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractThinkSpans(t *testing.T) {
	out, spans := extractThinkSpans("before <think>inner</think> after")
	if len(spans) != 1 || spans[0].body != "inner" || spans[0].open {
		t.Fatalf("spans = %+v", spans)
	}
	if !strings.Contains(out, thinkPlaceholder(0)) || strings.Contains(out, "<think>") {
		t.Errorf("out = %q", out)
	}
}

func TestExtractThinkSpansUnterminated(t *testing.T) {
	out, spans := extractThinkSpans("lead <think>still going")
	if len(spans) != 1 || !spans[0].open || spans[0].body != "still going" {
		t.Fatalf("spans = %+v", spans)
	}
	if out != "lead "+thinkPlaceholder(0) {
		t.Errorf("out = %q", out)
	}
}

func TestExtractThinkSpansStoredForm(t *testing.T) {
	// History uses <thinking> tags.
	_, spans := extractThinkSpans("<thinking>\nsteps\n</thinking>\n\nanswer")
	if len(spans) != 1 || spans[0].body != "steps" || spans[0].open {
		t.Fatalf("spans = %+v", spans)
	}
}

func TestRenderThinkBoxBlankInterior(t *testing.T) {
	if got := renderThinkBox(thinkSpan{body: ""}, 0, false); got != "" {
		t.Errorf("blank interior rendered %q", got)
	}
}

func TestRenderThinkBoxHeaders(t *testing.T) {
	open := renderThinkBox(thinkSpan{body: "hmm", open: true}, 0, false)
	if !strings.Contains(open, "thinking…") || !strings.Contains(open, "hmm") {
		t.Errorf("open box = %q", open)
	}

	closed := renderThinkBox(thinkSpan{body: "hmm"}, 12*time.Second, false)
	if !strings.Contains(closed, "thought for 12s") {
		t.Errorf("collapsed box = %q", closed)
	}
	if strings.Contains(closed, "hmm") {
		t.Errorf("collapsed box should hide the interior: %q", closed)
	}

	expanded := renderThinkBox(thinkSpan{body: "hmm"}, 12*time.Second, true)
	if !strings.Contains(expanded, "hmm") {
		t.Errorf("expanded box = %q", expanded)
	}
}

func TestExtractMathSpans(t *testing.T) {
	out, spans := extractMathSpans("solve $$x^2 = 4$$ then $y_i$ follows")
	if len(spans) != 2 {
		t.Fatalf("spans = %+v", spans)
	}
	if !spans[0].display || spans[0].inner != "x^2 = 4" {
		t.Errorf("display span = %+v", spans[0])
	}
	if spans[1].display || spans[1].inner != "y_i" {
		t.Errorf("inline span = %+v", spans[1])
	}
	if strings.Contains(out, "$") {
		t.Errorf("out = %q", out)
	}
}

func TestExtractMathSpansDollarAmounts(t *testing.T) {
	in := "costs $5 and $10 total"
	out, spans := extractMathSpans(in)
	if len(spans) != 0 {
		t.Fatalf("dollar amounts treated as math: %+v", spans)
	}
	if out != in {
		t.Errorf("out = %q", out)
	}
}

func TestRenderMathSymbols(t *testing.T) {
	got := renderMath(mathSpan{inner: `a \times b \leq c^2`})
	for _, want := range []string{"×", "≤", "²"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}

func TestRenderMathFrac(t *testing.T) {
	got := renderMath(mathSpan{inner: `\frac{a}{b}`})
	if !strings.Contains(got, "a/b") {
		t.Errorf("got %q", got)
	}
}

func TestRenderMathFallsBackOnUnknown(t *testing.T) {
	// Untranslatable source comes back verbatim with delimiters.
	src := `$\mathbb{R}^n \setminus \{0\}$`
	got := renderMath(mathSpan{src: src, inner: src[1 : len(src)-1]})
	if got != src {
		t.Errorf("got %q, want raw source", got)
	}
}

func TestRenderMathFallsBackOnUnbalanced(t *testing.T) {
	src := `$\frac{a}{b$`
	got := renderMath(mathSpan{src: src, inner: `\frac{a}{b`})
	if got != src {
		t.Errorf("got %q, want raw source", got)
	}
}

func TestExtractCodeBlocks(t *testing.T) {
	text := "intro\n```go\nfmt.Println(1)\n```\nmiddle\n```\nplain\n```\n"
	blocks := ExtractCodeBlocks(text)
	if len(blocks) != 2 {
		t.Fatalf("blocks = %+v", blocks)
	}
	if blocks[0].Language != "go" || blocks[0].Code != "fmt.Println(1)" {
		t.Errorf("block 0 = %+v", blocks[0])
	}
	if blocks[1].Language != "" || blocks[1].Code != "plain" {
		t.Errorf("block 1 = %+v", blocks[1])
	}
}

func TestExtractCodeBlocksUnclosedFence(t *testing.T) {
	blocks := ExtractCodeBlocks("```python\nprint(1)")
	if len(blocks) != 1 || blocks[0].Language != "python" || blocks[0].Code != "print(1)" {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestExtractHTMLTitle(t *testing.T) {
	code := "<html><head>\n<title>My &amp; Your\nPage</title></head></html>"
	if got := ExtractHTMLTitle(code); got != "My & Your Page" {
		t.Errorf("title = %q", got)
	}
	if got := ExtractHTMLTitle("no title here"); got != "" {
		t.Errorf("title = %q", got)
	}
}

func TestCodeBlockHighlightUnknownLanguage(t *testing.T) {
	b := CodeBlock{Language: "definitely-not-a-language", Code: "some text"}
	got := b.Highlight()
	if got == "" {
		t.Error("highlight returned nothing")
	}
}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(80, true)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRendererMarkdownBody(t *testing.T) {
	r := newTestRenderer(t)
	out := r.Render("# Title\n\nsome body text", Options{})
	if !strings.Contains(out, "Title") || !strings.Contains(out, "some body text") {
		t.Errorf("out = %q", out)
	}
}

func TestRendererStreamingCursor(t *testing.T) {
	r := newTestRenderer(t)
	out := r.Render("partial reply", Options{StreamingTail: true})
	if !strings.HasSuffix(out, cursorMarker) {
		t.Errorf("out = %q, want trailing cursor", out)
	}
	out = r.Render("partial reply", Options{})
	if strings.HasSuffix(out, cursorMarker) {
		t.Errorf("out = %q, cursor without streaming", out)
	}
}

func TestRendererCacheStability(t *testing.T) {
	r := newTestRenderer(t)
	first := r.Render("stable input", Options{})
	second := r.Render("stable input", Options{})
	if first != second {
		t.Error("identical input must produce identical output")
	}
}

func TestRendererInlineThink(t *testing.T) {
	r := newTestRenderer(t)
	out := r.Render("<think>weighing</think>\n\nThe answer.", Options{ThinkElapsed: 3 * time.Second})
	if !strings.Contains(out, "thought for 3s") {
		t.Errorf("out = %q", out)
	}
	if !strings.Contains(out, "The answer.") {
		t.Errorf("out = %q", out)
	}
	if strings.Contains(out, "<think>") {
		t.Errorf("tag leaked: %q", out)
	}
}

func TestRenderMessageSeparatedReasoning(t *testing.T) {
	r := newTestRenderer(t)
	out := r.RenderMessage("final answer", "chain of thought", false, Options{ExpandReasoning: true})
	if !strings.Contains(out, "chain of thought") || !strings.Contains(out, "final answer") {
		t.Errorf("out = %q", out)
	}

	streaming := r.RenderMessage("", "still reasoning", true, Options{})
	if !strings.Contains(streaming, "thinking…") {
		t.Errorf("out = %q", streaming)
	}
}
