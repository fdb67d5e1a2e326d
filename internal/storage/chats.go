// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"time"

	"github.com/jeranaias/nextai-tui/internal/model"
)

// ErrChatNotFound is returned when an operation names an unknown
// conversation id.
var ErrChatNotFound = errors.New("conversation not found")

// =============================================================================
// STORED FORMS
// =============================================================================

// storedMessage is the persisted shape of a message. Reasoning is folded
// into Content as a tagged string so the history file format stays a
// flat role/content list.
type storedMessage struct {
	Role         model.Role    `json:"role"`
	Content      string        `json:"content"`
	ResponseTime time.Duration `json:"response_time,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

type storedConversation struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Messages        []storedMessage `json:"messages"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	ManuallyCreated bool            `json:"manually_created,omitempty"`
}

func toStored(c *model.Conversation) storedConversation {
	out := storedConversation{
		ID:              c.ID,
		Title:           c.Title,
		Messages:        make([]storedMessage, len(c.Messages)),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		ManuallyCreated: c.ManuallyCreated,
	}
	for i, m := range c.Messages {
		out.Messages[i] = storedMessage{
			Role:         m.Role,
			Content:      m.EncodeContent(),
			ResponseTime: m.ResponseTime,
			CreatedAt:    m.CreatedAt,
		}
	}
	return out
}

func fromStored(s storedConversation) *model.Conversation {
	c := &model.Conversation{
		ID:              s.ID,
		Title:           s.Title,
		Messages:        make([]model.Message, len(s.Messages)),
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		ManuallyCreated: s.ManuallyCreated,
	}
	for i, m := range s.Messages {
		decoded := model.DecodeMessage(m.Role, m.Content, m.CreatedAt)
		decoded.ResponseTime = m.ResponseTime
		c.Messages[i] = decoded
	}
	return c
}

// =============================================================================
// CHAT STORE
// =============================================================================

// ChatStore persists the conversation list and the current-conversation
// pointer. The list is ordered newest-first; Save prepends unknown ids.
type ChatStore struct {
	kv *KV
}

// NewChatStore creates a chat store over the given KV.
func NewChatStore(kv *KV) *ChatStore {
	return &ChatStore{kv: kv}
}

func (s *ChatStore) load() ([]storedConversation, error) {
	var list []storedConversation
	if _, err := s.kv.Get(KeyChatHistory, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// List returns all conversations, newest first.
func (s *ChatStore) List() ([]*model.Conversation, error) {
	stored, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]*model.Conversation, len(stored))
	for i, sc := range stored {
		out[i] = fromStored(sc)
	}
	return out, nil
}

// Get returns one conversation by id.
func (s *ChatStore) Get(id string) (*model.Conversation, error) {
	stored, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, sc := range stored {
		if sc.ID == id {
			return fromStored(sc), nil
		}
	}
	return nil, ErrChatNotFound
}

// Save upserts a conversation. Existing entries are replaced in place;
// new entries go to the front of the list.
func (s *ChatStore) Save(c *model.Conversation) error {
	stored, err := s.load()
	if err != nil {
		return err
	}
	entry := toStored(c)
	for i, sc := range stored {
		if sc.ID == c.ID {
			stored[i] = entry
			return s.kv.Put(KeyChatHistory, stored)
		}
	}
	stored = append([]storedConversation{entry}, stored...)
	return s.kv.Put(KeyChatHistory, stored)
}

// Rename sets a conversation's title.
func (s *ChatStore) Rename(id, title string) error {
	stored, err := s.load()
	if err != nil {
		return err
	}
	for i := range stored {
		if stored[i].ID == id {
			stored[i].Title = title
			stored[i].UpdatedAt = time.Now()
			return s.kv.Put(KeyChatHistory, stored)
		}
	}
	return ErrChatNotFound
}

// Delete removes a conversation. Deleting the last conversation leaves
// an empty list; no replacement is auto-created. The current pointer is
// cleared when it referenced the deleted chat.
func (s *ChatStore) Delete(id string) error {
	stored, err := s.load()
	if err != nil {
		return err
	}
	found := false
	out := stored[:0]
	for _, sc := range stored {
		if sc.ID == id {
			found = true
			continue
		}
		out = append(out, sc)
	}
	if !found {
		return ErrChatNotFound
	}
	if err := s.kv.Put(KeyChatHistory, out); err != nil {
		return err
	}
	if cur, err := s.CurrentID(); err == nil && cur == id {
		return s.SetCurrentID("")
	}
	return nil
}

// Clear removes every conversation and the current pointer.
func (s *ChatStore) Clear() error {
	if err := s.kv.Put(KeyChatHistory, []storedConversation{}); err != nil {
		return err
	}
	return s.SetCurrentID("")
}

// CurrentID returns the id of the conversation open in the view, or ""
// when none is selected.
func (s *ChatStore) CurrentID() (string, error) {
	var id string
	if _, err := s.kv.Get(KeyCurrentChat, &id); err != nil {
		return "", err
	}
	return id, nil
}

// SetCurrentID persists the current-conversation pointer.
func (s *ChatStore) SetCurrentID(id string) error {
	return s.kv.Put(KeyCurrentChat, id)
}
