// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nextai-tui/internal/config"
)

// streamEvent crosses from the network goroutine to the update loop.
type streamEventKind int

const (
	// eventFrame signals that frames were folded into the turn
	// buffers. The event carries no text; the paint reads the buffers.
	eventFrame streamEventKind = iota
	// eventDone signals the stream ended, err carrying the outcome.
	eventDone
)

type streamEvent struct {
	kind streamEventKind
	err  error
}

// streamEventMsg delivers the next stream event to Update.
type streamEventMsg struct {
	turnID int
	event  streamEvent
}

// imageResultMsg delivers an image generation result.
type imageResultMsg struct {
	turnID int
	url    string
	err    error
	took   time.Duration
}

// typewriterTickMsg reveals the next slice of a non-streamed reply.
type typewriterTickMsg struct{}

// configReloadedMsg carries a config hot-reloaded from disk.
type configReloadedMsg struct {
	cfg *config.Config
}

// ConfigReloaded wraps a freshly loaded config as a message for
// program.Send. The watcher goroutine lives outside this package.
func ConfigReloaded(cfg *config.Config) tea.Msg {
	return configReloadedMsg{cfg: cfg}
}

// clipboardDoneMsg reports a clipboard copy attempt.
type clipboardDoneMsg struct {
	err error
}

// keyValidatedMsg reports a credential probe after an API key is saved.
type keyValidatedMsg struct {
	provider string
	err      error
}
