// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// mathSpan is one TeX expression lifted out before Markdown rendering,
// so underscores and asterisks inside formulas never turn into
// emphasis.
type mathSpan struct {
	src     string // raw source including delimiters
	inner   string
	display bool // $$…$$
}

func mathPlaceholder(i int) string {
	return fmt.Sprintf("::math-span-%d::", i)
}

// displayMathPattern matches $$…$$ including newlines.
var displayMathPattern = regexp.MustCompile(`\$\$([\s\S]+?)\$\$`)

// extractMathSpans replaces math expressions with placeholder tokens.
// Display math ($$…$$) is matched before inline math so a display
// block is never split into two bogus inline spans.
func extractMathSpans(s string) (string, []mathSpan) {
	var spans []mathSpan

	s = displayMathPattern.ReplaceAllStringFunc(s, func(m string) string {
		inner := strings.TrimSpace(m[2 : len(m)-2])
		token := mathPlaceholder(len(spans))
		spans = append(spans, mathSpan{src: m, inner: inner, display: true})
		return token
	})

	s = replaceInlineMath(s, &spans)
	return s, spans
}

// replaceInlineMath finds $…$ pairs on a single line. A dollar amount
// like "$5 and $10" is not math: the opening delimiter must be
// followed by a non-space and the closing one preceded by a non-space,
// and the closing delimiter must not sit directly before a digit.
func replaceInlineMath(s string, spans *[]mathSpan) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(s, '$')
		if open < 0 {
			b.WriteString(s)
			return b.String()
		}
		close := -1
		for j := open + 1; j < len(s); j++ {
			if s[j] == '\n' {
				break
			}
			if s[j] == '$' {
				close = j
				break
			}
		}
		valid := close > open+1 &&
			s[open+1] != ' ' && s[close-1] != ' ' &&
			(close+1 >= len(s) || s[close+1] < '0' || s[close+1] > '9')
		if !valid {
			b.WriteString(s[:open+1])
			s = s[open+1:]
			continue
		}

		token := mathPlaceholder(len(*spans))
		*spans = append(*spans, mathSpan{src: s[open : close+1], inner: s[open+1 : close]})
		b.WriteString(s[:open])
		b.WriteString(token)
		s = s[close+1:]
	}
}

// =============================================================================
// TEX PRETTIFICATION
// =============================================================================

var mathStyle = lipgloss.NewStyle().Foreground(styles.Cyan).Italic(true)

var texSymbols = strings.NewReplacer(
	`\times`, "×",
	`\cdot`, "·",
	`\pm`, "±",
	`\leq`, "≤",
	`\geq`, "≥",
	`\neq`, "≠",
	`\approx`, "≈",
	`\infty`, "∞",
	`\pi`, "π",
	`\alpha`, "α",
	`\beta`, "β",
	`\gamma`, "γ",
	`\theta`, "θ",
	`\lambda`, "λ",
	`\mu`, "μ",
	`\sigma`, "σ",
	`\sum`, "Σ",
	`\int`, "∫",
	`\sqrt`, "√",
	`\rightarrow`, "→",
	`\to`, "→",
	`\left`, "",
	`\right`, "",
)

var fracPattern = regexp.MustCompile(`\\frac\{([^{}]*)\}\{([^{}]*)\}`)

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
	'n': 'ⁿ', '-': '⁻', '+': '⁺',
}

var superPattern = regexp.MustCompile(`\^(\{[^{}]+\}|.)`)

// renderMath converts one TeX expression to plain unicode text. When
// the source cannot be translated cleanly the raw delimited source is
// returned untouched, which is always readable.
func renderMath(span mathSpan) string {
	inner := span.inner
	if strings.Count(inner, "{") != strings.Count(inner, "}") {
		return span.src
	}

	out := fracPattern.ReplaceAllString(inner, "$1/$2")
	out = texSymbols.Replace(out)
	out = superPattern.ReplaceAllStringFunc(out, func(m string) string {
		body := strings.Trim(m[1:], "{}")
		var b strings.Builder
		for _, r := range body {
			sup, ok := superscripts[r]
			if !ok {
				return "^" + body
			}
			b.WriteRune(sup)
		}
		return b.String()
	})
	out = strings.ReplaceAll(out, "{", "")
	out = strings.ReplaceAll(out, "}", "")

	// An untranslated command means the result would be garbled.
	if strings.Contains(out, `\`) {
		return span.src
	}

	styled := mathStyle.Render(strings.TrimSpace(out))
	if span.display {
		return "\n" + styled + "\n"
	}
	return styled
}
