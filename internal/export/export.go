// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes conversations to shareable files. Markdown,
// JSON, and HTML formats are supported; exports land in ~/.nextai/exports
// by default.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/nextai-tui/internal/model"
)

// Format selects an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// Exporter converts one conversation to a target format.
type Exporter interface {
	Export(conv *model.Conversation) ([]byte, error)
	FileExtension() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written.
	OutputDir string
	// IncludeMetadata adds a header with title, dates, and counts.
	IncludeMetadata bool
	// IncludeReasoning includes stored chain-of-thought sections.
	IncludeReasoning bool
	// Theme picks the HTML stylesheet ("dark" or "light").
	Theme string
}

// DefaultOptions returns the defaults used by the UI.
func DefaultOptions(outputDir string) *Options {
	return &Options{
		OutputDir:        outputDir,
		IncludeMetadata:  true,
		IncludeReasoning: false,
		Theme:            "dark",
	}
}

// New returns the exporter for a format.
func New(format Format, opts *Options) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatHTML:
		return NewHTMLExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// ToFile exports a conversation and returns the written path.
func ToFile(conv *model.Conversation, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions(".")
	}
	content, err := exporter.Export(conv)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	name := fmt.Sprintf("chat_%s_%s%s",
		sanitizeFilename(conv.Title),
		time.Now().Format("20060102_150405"),
		exporter.FileExtension(),
	)
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(opts.OutputDir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// sanitizeFilename replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "untitled"
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" {
		return "untitled"
	}
	const maxLen = 40
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}

func validate(conv *model.Conversation) error {
	if conv == nil {
		return fmt.Errorf("conversation is nil")
	}
	if len(conv.Messages) == 0 {
		return fmt.Errorf("conversation has no messages")
	}
	return nil
}

func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}
