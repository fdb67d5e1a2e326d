// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeDecodeContentRoundTrip(t *testing.T) {
	msg := NewAssistantMessage("The answer is 4.", "2+2 is basic arithmetic.", time.Second)

	stored := msg.EncodeContent()
	if !strings.HasPrefix(stored, "<thinking>\n") {
		t.Errorf("stored form should open with a thinking tag, got %q", stored)
	}

	content, reasoning := DecodeContent(stored)
	if content != msg.Content {
		t.Errorf("content = %q, want %q", content, msg.Content)
	}
	if reasoning != msg.Reasoning {
		t.Errorf("reasoning = %q, want %q", reasoning, msg.Reasoning)
	}
}

func TestEncodeContentWithoutReasoning(t *testing.T) {
	msg := NewAssistantMessage("plain answer", "", 0)
	if got := msg.EncodeContent(); got != "plain answer" {
		t.Errorf("EncodeContent = %q, want plain content", got)
	}
}

func TestDecodeContentPlainBody(t *testing.T) {
	content, reasoning := DecodeContent("just text, no tags")
	if content != "just text, no tags" || reasoning != "" {
		t.Errorf("plain body should decode unchanged, got (%q, %q)", content, reasoning)
	}
}

func TestDecodeContentUnterminatedBlock(t *testing.T) {
	body := "<thinking>\nnever closed"
	content, reasoning := DecodeContent(body)
	if content != body || reasoning != "" {
		t.Errorf("unterminated block should be treated as content, got (%q, %q)", content, reasoning)
	}
}

func TestDecodeContentMentionedTagInAnswer(t *testing.T) {
	// A <thinking> tag that is not the leading block stays in the answer.
	body := "use the <thinking> tag like this"
	content, reasoning := DecodeContent(body)
	if reasoning != "" {
		t.Errorf("mid-text tag must not be parsed as reasoning, got %q", reasoning)
	}
	if content != body {
		t.Errorf("content = %q, want %q", content, body)
	}
}

func TestAutoTitleFromFirstUserMessage(t *testing.T) {
	c := NewConversation(false)
	if c.Title != DefaultTitle {
		t.Fatalf("new conversation title = %q, want %q", c.Title, DefaultTitle)
	}

	c.AddMessage(NewUserMessage("How do goroutines get scheduled?"))
	if c.Title != "How do goroutines get scheduled?" {
		t.Errorf("title = %q, want first user message", c.Title)
	}

	// A second user message must not retitle.
	c.AddMessage(NewUserMessage("And channels?"))
	if c.Title != "How do goroutines get scheduled?" {
		t.Errorf("title changed on second message: %q", c.Title)
	}
}

func TestAutoTitleTruncatesRunes(t *testing.T) {
	c := NewConversation(false)
	long := strings.Repeat("字", 60)
	c.AddMessage(NewUserMessage(long))
	runes := []rune(c.Title)
	if len(runes) != 30 {
		t.Errorf("title rune length = %d, want 30", len(runes))
	}
	if runes[len(runes)-1] != '…' {
		t.Errorf("truncated title should end with ellipsis, got %q", c.Title)
	}
}

func TestDropTrailingAssistant(t *testing.T) {
	c := NewConversation(false)
	c.AddMessage(NewUserMessage("hi"))
	c.AddMessage(NewAssistantMessage("hello", "", 0))

	if !c.DropTrailingAssistant() {
		t.Fatal("should drop trailing assistant message")
	}
	if c.MessageCount() != 1 || c.LastMessage().Role != RoleUser {
		t.Errorf("expected only the user message to remain")
	}
	if c.DropTrailingAssistant() {
		t.Error("trailing user message must not be dropped")
	}
}

func TestPreviewCollapsesNewlines(t *testing.T) {
	msg := NewUserMessage("line one\nline two")
	if got := msg.Preview(50); got != "line one line two" {
		t.Errorf("Preview = %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	c := NewConversation(true)
	c.AddMessage(NewUserMessage("original"))
	clone := c.Clone()
	clone.Messages[0].Content = "mutated"
	if c.Messages[0].Content != "original" {
		t.Error("Clone shares message backing array")
	}
}
