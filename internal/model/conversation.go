// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the title of a conversation before the first user
// message supplies one.
const DefaultTitle = "New Chat"

// titleMaxRunes bounds auto-generated titles.
const titleMaxRunes = 30

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat with history and metadata.
// ManuallyCreated marks conversations the user created explicitly (via the
// new-chat control) as opposed to ones auto-created by sending a first
// message; manually created empty chats survive history cleanup.
type Conversation struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Messages        []Message `json:"messages"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	ManuallyCreated bool      `json:"manually_created,omitempty"`
}

// NewConversation creates an empty conversation with a fresh ID.
func NewConversation(manual bool) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:              uuid.NewString(),
		Title:           DefaultTitle,
		Messages:        make([]Message, 0),
		CreatedAt:       now,
		UpdatedAt:       now,
		ManuallyCreated: manual,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message, bumps UpdatedAt, and auto-titles the
// conversation from the first user message.
func (c *Conversation) AddMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
}

// LastMessage returns a pointer to the most recent message, or nil.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// DropTrailingAssistant removes the final message if it is an assistant
// message, returning true when one was removed. Used by regeneration,
// which re-runs the last user turn without duplicating it.
func (c *Conversation) DropTrailingAssistant() bool {
	last := c.LastMessage()
	if last == nil || last.Role != RoleAssistant {
		return false
	}
	c.Messages = c.Messages[:len(c.Messages)-1]
	c.UpdatedAt = time.Now()
	return true
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty reports whether the conversation has no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle derives the title from the first user message when the
// conversation still carries the default title.
func (c *Conversation) updateTitle() {
	if c.Title != "" && c.Title != DefaultTitle {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && msg.Content != "" {
			c.Title = msg.Preview(titleMaxRunes)
			return
		}
	}
}

// SetTitle renames the conversation.
func (c *Conversation) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone creates a deep copy of the conversation.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return &clone
}
