// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nextai-tui/internal/model"
	"github.com/jeranaias/nextai-tui/internal/ui/styles"
	"github.com/jeranaias/nextai-tui/internal/util"
)

// Sidebar lists the stored conversations for switching, renaming and
// deleting. It is a passive view; the chat model owns the key handling.
type Sidebar struct {
	theme     *styles.Theme
	items     []*model.Conversation
	selected  int
	activeID  string
	width     int
	height    int
	Collapsed bool
}

// NewSidebar creates a sidebar.
func NewSidebar(theme *styles.Theme) Sidebar {
	return Sidebar{theme: theme, width: 28}
}

// SetSize sets the rendered dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetItems replaces the conversation list, keeping the selection on
// the active conversation when possible.
func (s *Sidebar) SetItems(items []*model.Conversation, activeID string) {
	s.items = items
	s.activeID = activeID
	s.selected = 0
	for i, c := range items {
		if c.ID == activeID {
			s.selected = i
			break
		}
	}
}

// Items returns the current list.
func (s Sidebar) Items() []*model.Conversation {
	return s.items
}

// Selected returns the highlighted conversation, or nil when the list
// is empty.
func (s Sidebar) Selected() *model.Conversation {
	if len(s.items) == 0 || s.selected < 0 || s.selected >= len(s.items) {
		return nil
	}
	return s.items[s.selected]
}

// MoveUp moves the highlight up.
func (s *Sidebar) MoveUp() {
	if s.selected > 0 {
		s.selected--
	}
}

// MoveDown moves the highlight down.
func (s *Sidebar) MoveDown() {
	if s.selected < len(s.items)-1 {
		s.selected++
	}
}

// View renders the conversation list.
func (s Sidebar) View() string {
	if s.Collapsed {
		return ""
	}

	var b strings.Builder
	b.WriteString(s.theme.SidebarTitle.Render("Chats"))
	b.WriteString("\n\n")

	if len(s.items) == 0 {
		b.WriteString(s.theme.SessionMeta.Render("no chats yet"))
	}

	inner := s.width - 2
	visible := s.items
	maxRows := s.height - 3
	if maxRows > 0 && len(visible) > maxRows {
		// Keep the highlight on screen.
		start := s.selected - maxRows/2
		if start < 0 {
			start = 0
		}
		if start+maxRows > len(visible) {
			start = len(visible) - maxRows
		}
		visible = visible[start : start+maxRows]
	}

	for _, c := range visible {
		title := util.TruncateWidth(c.Title, inner)
		line := s.theme.SessionItem.Render(title)
		if c.ID == s.activeID {
			line = s.theme.SessionItem.Render("· " + util.TruncateWidth(c.Title, inner-2))
		}
		if sel := s.Selected(); sel != nil && sel.ID == c.ID {
			line = s.theme.SessionItemSelected.Render(util.TruncateWidth(c.Title, inner))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.theme.SessionMeta.Render("f2 rename · del delete\nx export · ^l clear all"))

	return s.theme.Sidebar.Width(s.width).Height(s.height).Render(
		lipgloss.NewStyle().MaxWidth(s.width).Render(b.String()))
}
