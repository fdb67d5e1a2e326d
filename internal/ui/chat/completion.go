// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/jeranaias/nextai-tui/internal/roles"
)

// mentionState tracks the @role autocomplete popup.
//
// The popup opens when the composer text ends in an @word that starts
// at a word boundary, filters live as the user types, and closes on
// Escape, on selection, or when the trigger text no longer matches.
type mentionState struct {
	active   bool
	query    string
	start    int // byte offset of '@' in the composer text
	items    []roles.Role
	selected int
}

// mentionTrigger finds an active @mention at the end of text. It
// returns the byte offset of the '@' and the query typed so far, or
// ok=false when the tail is not a mention.
func mentionTrigger(text string) (start int, query string, ok bool) {
	at := strings.LastIndexByte(text, '@')
	if at < 0 {
		return 0, "", false
	}
	// Word boundary: start of text or whitespace before the '@'.
	if at > 0 {
		prev := text[at-1]
		if prev != ' ' && prev != '\n' && prev != '\t' {
			return 0, "", false
		}
	}
	tail := text[at+1:]
	if strings.ContainsAny(tail, " \n\t") {
		return 0, "", false
	}
	return at, tail, true
}

// refresh recomputes the popup against the composer text.
func (m *mentionState) refresh(text string, mgr *roles.Manager) {
	start, query, ok := mentionTrigger(text)
	if !ok {
		m.close()
		return
	}

	items := mgr.Search(query)
	if len(items) == 0 {
		m.close()
		return
	}

	// Keep the highlight stable across keystrokes when possible.
	if !m.active || m.query != query {
		if m.selected >= len(items) {
			m.selected = 0
		}
	}
	if !m.active {
		m.selected = 0
	}
	m.active = true
	m.query = query
	m.start = start
	m.items = items
}

func (m *mentionState) close() {
	m.active = false
	m.query = ""
	m.items = nil
	m.selected = 0
}

func (m *mentionState) moveUp() {
	if m.selected > 0 {
		m.selected--
	}
}

func (m *mentionState) moveDown() {
	if m.selected < len(m.items)-1 {
		m.selected++
	}
}

// choice returns the highlighted role.
func (m *mentionState) choice() (roles.Role, bool) {
	if !m.active || m.selected < 0 || m.selected >= len(m.items) {
		return roles.Role{}, false
	}
	return m.items[m.selected], true
}

// apply removes the @query from the composer text and returns the new
// text; the caller switches the current role to the chosen one.
func (m *mentionState) apply(text string) string {
	if !m.active || m.start > len(text) {
		return text
	}
	return strings.TrimRight(text[:m.start], " ")
}
