// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Tags used by the persisted tagged-string form of an assistant message.
// Reasoning lives in a proper field in memory; the tagged form exists only
// at the storage boundary so old history files stay readable.
const (
	thinkingOpenTag  = "<thinking>"
	thinkingCloseTag = "</thinking>"
)

// Message is a single message in a conversation. Reasoning (the model's
// chain-of-thought stream) is kept separate from Content; they are merged
// into a single tagged string only when persisted.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Reasoning string    `json:"reasoning,omitempty"`
	// ResponseTime is the wall-clock duration of the generation that
	// produced an assistant message, zero otherwise.
	ResponseTime time.Duration `json:"response_time,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content, CreatedAt: time.Now()}
}

// NewAssistantMessage creates an assistant message with separated
// reasoning and answer text.
func NewAssistantMessage(content, reasoning string, elapsed time.Duration) Message {
	return Message{
		Role:         RoleAssistant,
		Content:      content,
		Reasoning:    reasoning,
		ResponseTime: elapsed,
		CreatedAt:    time.Now(),
	}
}

// HasReasoning reports whether the message carries a non-empty
// chain-of-thought section.
func (m Message) HasReasoning() bool {
	return strings.TrimSpace(m.Reasoning) != ""
}

// EncodeContent returns the storage form of the message body. Messages
// with reasoning are flattened to:
//
//	<thinking>
//	...reasoning...
//	</thinking>
//
//	...answer...
//
// Messages without reasoning are stored as plain content.
func (m Message) EncodeContent() string {
	if !m.HasReasoning() {
		return m.Content
	}
	var b strings.Builder
	b.WriteString(thinkingOpenTag)
	b.WriteString("\n")
	b.WriteString(strings.TrimSpace(m.Reasoning))
	b.WriteString("\n")
	b.WriteString(thinkingCloseTag)
	b.WriteString("\n\n")
	b.WriteString(m.Content)
	return b.String()
}

// DecodeContent splits a stored message body back into reasoning and
// answer. Bodies that do not start with a complete thinking block are
// returned unchanged as pure content.
func DecodeContent(stored string) (content, reasoning string) {
	trimmed := strings.TrimLeft(stored, " \t\r\n")
	if !strings.HasPrefix(trimmed, thinkingOpenTag) {
		return stored, ""
	}
	rest := trimmed[len(thinkingOpenTag):]
	end := strings.Index(rest, thinkingCloseTag)
	if end < 0 {
		// Unterminated block: treat the whole body as content so nothing
		// the user saved silently disappears.
		return stored, ""
	}
	reasoning = strings.TrimSpace(rest[:end])
	content = strings.TrimLeft(rest[end+len(thinkingCloseTag):], " \t\r\n")
	return content, reasoning
}

// DecodeMessage reconstructs an in-memory message from its stored fields.
func DecodeMessage(role Role, stored string, createdAt time.Time) Message {
	content, reasoning := DecodeContent(stored)
	return Message{Role: role, Content: content, Reasoning: reasoning, CreatedAt: createdAt}
}

// Preview returns a single-line, rune-truncated preview of the content.
func (m Message) Preview(maxRunes int) string {
	line := strings.Join(strings.Fields(m.Content), " ")
	runes := []rune(line)
	if len(runes) <= maxRunes {
		return line
	}
	if maxRunes <= 1 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-1]) + "…"
}

// IsEmpty reports whether the message has neither content nor reasoning.
func (m Message) IsEmpty() bool {
	return m.Content == "" && m.Reasoning == ""
}
