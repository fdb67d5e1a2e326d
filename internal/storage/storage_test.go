// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/jeranaias/nextai-tui/internal/model"
)

func newTestStore(t *testing.T) *ChatStore {
	t.Helper()
	kv, err := OpenKV(t.TempDir())
	if err != nil {
		t.Fatalf("OpenKV failed: %v", err)
	}
	return NewChatStore(kv)
}

func TestKVGetMissingKey(t *testing.T) {
	kv, err := OpenKV(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var v map[string]int
	found, err := kv.Get("never_written", &v)
	if err != nil || found {
		t.Errorf("missing key: found=%v err=%v, want false/nil", found, err)
	}
}

func TestKVRejectsBadKeys(t *testing.T) {
	kv, err := OpenKV(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"../escape", "UPPER", "with space", ""} {
		if err := kv.Put(key, 1); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Put(%q) err = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestChatStoreSaveAndList(t *testing.T) {
	s := newTestStore(t)

	first := model.NewConversation(false)
	first.AddMessage(model.NewUserMessage("first chat"))
	if err := s.Save(first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := model.NewConversation(false)
	second.AddMessage(model.NewUserMessage("second chat"))
	if err := s.Save(second); err != nil {
		t.Fatal(err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("list length = %d, want 2", len(list))
	}
	// Newest first.
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Error("list not ordered newest-first")
	}

	// Upsert replaces in place, not duplicates.
	first.AddMessage(model.NewAssistantMessage("reply", "", 0))
	if err := s.Save(first); err != nil {
		t.Fatal(err)
	}
	list, _ = s.List()
	if len(list) != 2 {
		t.Errorf("upsert duplicated entry, length = %d", len(list))
	}
}

func TestChatStoreReasoningRoundTrip(t *testing.T) {
	s := newTestStore(t)

	c := model.NewConversation(false)
	c.AddMessage(model.NewUserMessage("why?"))
	c.AddMessage(model.NewAssistantMessage("because.", "thinking it through", 2*time.Second))
	if err := s.Save(c); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(c.ID)
	if err != nil {
		t.Fatal(err)
	}
	reply := got.Messages[1]
	if reply.Content != "because." {
		t.Errorf("content = %q", reply.Content)
	}
	if reply.Reasoning != "thinking it through" {
		t.Errorf("reasoning = %q", reply.Reasoning)
	}
	if reply.ResponseTime != 2*time.Second {
		t.Errorf("response time = %v", reply.ResponseTime)
	}
}

func TestChatStoreDeleteLastConversation(t *testing.T) {
	s := newTestStore(t)

	c := model.NewConversation(false)
	c.AddMessage(model.NewUserMessage("only chat"))
	if err := s.Save(c); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCurrentID(c.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.Delete(c.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("list length after deleting last = %d, want 0", len(list))
	}
	cur, _ := s.CurrentID()
	if cur != "" {
		t.Errorf("current pointer = %q, want cleared", cur)
	}
}

func TestChatStoreDeleteUnknown(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete("no-such-id"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("err = %v, want ErrChatNotFound", err)
	}
}

func TestChatStoreRename(t *testing.T) {
	s := newTestStore(t)
	c := model.NewConversation(false)
	c.AddMessage(model.NewUserMessage("hello"))
	if err := s.Save(c); err != nil {
		t.Fatal(err)
	}
	if err := s.Rename(c.ID, "Renamed"); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Get(c.ID)
	if got.Title != "Renamed" {
		t.Errorf("title = %q", got.Title)
	}
}

func TestChatStoreClear(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		c := model.NewConversation(false)
		c.AddMessage(model.NewUserMessage("chat"))
		if err := s.Save(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	list, _ := s.List()
	if len(list) != 0 {
		t.Errorf("list length after clear = %d", len(list))
	}
}
