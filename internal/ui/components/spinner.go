// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// Spinner is the waiting indicator shown between dispatching a request
// and the first frame arriving.
type Spinner struct {
	inner     spinner.Model
	theme     *styles.Theme
	message   string
	startTime time.Time
	active    bool
}

// NewSpinner creates a spinner with the theme's accent styling.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner
	return Spinner{inner: s, theme: theme, message: "thinking"}
}

// Start activates the spinner and resets its timer.
func (s *Spinner) Start() tea.Cmd {
	s.active = true
	s.startTime = time.Now()
	return s.inner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s Spinner) Active() bool {
	return s.active
}

// SetMessage changes the label next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.message = message
}

// Update advances the animation.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if !s.active {
		return s, nil
	}
	var cmd tea.Cmd
	s.inner, cmd = s.inner.Update(msg)
	return s, cmd
}

// View renders "⣾ thinking… 3s".
func (s Spinner) View() string {
	if !s.active {
		return ""
	}
	out := s.inner.View() + " " + s.theme.ThinkingText.Render(s.message+"…")
	if elapsed := time.Since(s.startTime); elapsed >= time.Second {
		secs := int(elapsed.Seconds())
		out += " " + s.theme.ThinkingTime.Render(formatSeconds(secs)+"s")
	}
	return out
}

// formatSeconds converts a small positive int to its decimal form.
func formatSeconds(secs int) string {
	if secs <= 0 {
		return "0"
	}
	var digits []byte
	for secs > 0 {
		digits = append([]byte{byte('0' + secs%10)}, digits...)
		secs /= 10
	}
	return string(digits)
}
