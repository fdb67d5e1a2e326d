// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// paintInterval caps incremental repaints at ~60fps. Tokens arrive far
// faster than that; painting each one would burn a render per token.
const paintInterval = 16 * time.Millisecond

// paintMsg fires a scheduled repaint. The paint reads whatever the
// turn buffers hold at fire time, so frames that arrived after the
// schedule are included for free.
type paintMsg struct {
	at time.Time
}

// frameScheduler coalesces repaint requests into one-shot ticks.
//
// A request while idle arms a single tick; requests while one is
// already armed are absorbed. The scheduler therefore never has more
// than one tick outstanding, and a request burst costs one repaint.
type frameScheduler struct {
	scheduled bool
}

// request asks for a repaint. It returns the tick command when one was
// armed, nil when a tick is already pending.
func (s *frameScheduler) request() tea.Cmd {
	if s.scheduled {
		return nil
	}
	s.scheduled = true
	return tea.Tick(paintInterval, func(t time.Time) tea.Msg {
		return paintMsg{at: t}
	})
}

// fired marks the pending tick as delivered.
func (s *frameScheduler) fired() {
	s.scheduled = false
}

// pending reports whether a tick is armed.
func (s *frameScheduler) pending() bool {
	return s.scheduled
}
