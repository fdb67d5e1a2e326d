// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import "strings"

// Tags some models emit inline instead of using a reasoning delta field.
const (
	thinkOpenTag  = "<think>"
	thinkCloseTag = "</think>"
)

// ThinkTagScanner partitions accumulated content into reasoning and
// answer when the model inlines its chain of thought in <think> tags.
//
// The tags arrive as ordinary content deltas and a tag can straddle two
// deltas, so the scanner always works on the whole accumulated buffer.
// Once a complete pair has been found the split position latches: the
// interior is reclassified as reasoning exactly once, and everything
// after the close tag stays answer text no matter what it contains.
type ThinkTagScanner struct {
	latched  bool
	openIdx  int
	closeIdx int
}

// NewThinkTagScanner creates a scanner for one streaming turn.
func NewThinkTagScanner() *ThinkTagScanner {
	return &ThinkTagScanner{openIdx: -1, closeIdx: -1}
}

// Split partitions the accumulated raw content. open reports that a
// think block has started but not yet closed, which callers use to show
// the reasoning-in-progress state.
func (s *ThinkTagScanner) Split(raw string) (reasoning, answer string, open bool) {
	if s.latched {
		reasoning = raw[s.openIdx+len(thinkOpenTag) : s.closeIdx]
		answer = raw[:s.openIdx] + raw[s.closeIdx+len(thinkCloseTag):]
		return strings.TrimSpace(reasoning), strings.TrimLeft(answer, "\n"), false
	}

	openIdx := strings.Index(raw, thinkOpenTag)
	if openIdx < 0 {
		return "", raw, false
	}
	closeIdx := strings.Index(raw[openIdx:], thinkCloseTag)
	if closeIdx < 0 {
		// Block still streaming: interior so far is reasoning.
		reasoning = raw[openIdx+len(thinkOpenTag):]
		return strings.TrimSpace(reasoning), raw[:openIdx], true
	}

	s.latched = true
	s.openIdx = openIdx
	s.closeIdx = openIdx + closeIdx
	return s.Split(raw)
}

// Latched reports whether a complete pair has been found.
func (s *ThinkTagScanner) Latched() bool {
	return s.latched
}
