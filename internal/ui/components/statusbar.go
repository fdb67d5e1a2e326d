// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// StatusBar shows the active provider/model, the current role, and the
// key hints along the bottom of the screen.
type StatusBar struct {
	theme    *styles.Theme
	width    int
	Provider string
	Model    string
	Role     string
	Scenario string
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme}
}

// SetWidth sets the rendered width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

type shortcut struct {
	key  string
	desc string
}

var statusShortcuts = []shortcut{
	{"^N", "new"},
	{"^B", "chats"},
	{"^P", "model"},
	{"^R", "roles"},
	{"^S", "settings"},
	{"^T", "theme"},
	{"^C", "quit"},
}

// View renders the bar.
func (s StatusBar) View() string {
	left := s.theme.StatusModel.Render(s.Provider+"/"+s.Model) +
		"  " + s.theme.StatusRole.Render("@"+s.Role)
	if s.Scenario != "" {
		left += "  " + s.theme.ShortcutDesc.Render("["+s.Scenario+"]")
	}

	var hints []string
	for _, sc := range statusShortcuts {
		hints = append(hints, s.theme.ShortcutKey.Render(sc.key)+" "+s.theme.ShortcutDesc.Render(sc.desc))
	}
	right := strings.Join(hints, " ")

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Narrow terminal: drop the hints before the identity.
		return s.theme.StatusBar.Width(s.width).Render(left)
	}
	return s.theme.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}
