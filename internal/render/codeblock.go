// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"html"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"

	"github.com/jeranaias/nextai-tui/internal/util"
)

// CodeBlock is one fenced block extracted from a reply, used by the
// copy picker and the HTML preview header.
type CodeBlock struct {
	Language string
	Code     string
}

// ExtractCodeBlocks returns the fenced code blocks in text, in order.
// An unclosed fence at the end of a streaming reply still counts.
func ExtractCodeBlocks(text string) []CodeBlock {
	var blocks []CodeBlock
	var code []string
	var language string
	inBlock := false

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			if inBlock {
				blocks = append(blocks, CodeBlock{Language: language, Code: strings.Join(code, "\n")})
				code = nil
				inBlock = false
			} else {
				language = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "```"))
				inBlock = true
			}
			continue
		}
		if inBlock {
			code = append(code, line)
		}
	}
	if inBlock && len(code) > 0 {
		blocks = append(blocks, CodeBlock{Language: language, Code: strings.Join(code, "\n")})
	}
	return blocks
}

// Copy puts the block's code on the system clipboard.
func (b CodeBlock) Copy() error {
	return clipboard.WriteAll(b.Code)
}

// Label returns a short descriptor for the copy picker: the language
// (or HTML page title) plus the first line of code.
func (b CodeBlock) Label(maxWidth int) string {
	name := b.Language
	if name == "" {
		name = "code"
	}
	if title := ExtractHTMLTitle(b.Code); title != "" {
		name = name + ": " + title
	}
	first := strings.TrimSpace(strings.SplitN(b.Code, "\n", 2)[0])
	return util.TruncateWidth(name+" · "+first, maxWidth)
}

var htmlTitlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// ExtractHTMLTitle pulls the <title> text out of an HTML snippet for
// preview headers. Entities are decoded and the result is collapsed to
// a single line.
func ExtractHTMLTitle(code string) string {
	m := htmlTitlePattern.FindStringSubmatch(code)
	if m == nil {
		return ""
	}
	return util.CollapseWhitespace(html.UnescapeString(m[1]))
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// Highlight applies terminal syntax highlighting to the block. Unknown
// languages degrade to content analysis and finally to plain text.
func (b CodeBlock) Highlight() string {
	lexer := lexers.Get(b.Language)
	if lexer == nil {
		lexer = lexers.Analyse(b.Code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, b.Code)
	if err != nil {
		return b.Code
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return b.Code
	}
	return buf.String()
}
