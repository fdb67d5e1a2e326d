// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/nextai-tui/internal/api"
)

// Turn accumulates one streaming response. Frames arrive on the
// network goroutine while the UI snapshots the buffers on its own
// schedule, so all access goes through the mutex.
type Turn struct {
	mu        sync.Mutex
	answer    strings.Builder
	reasoning strings.Builder
	scanner   *api.ThinkTagScanner
	sawDelta  bool
	start     time.Time
	cancel    context.CancelFunc
}

// NewTurn creates a turn bound to the request's cancel function.
func NewTurn(cancel context.CancelFunc) *Turn {
	return &Turn{
		scanner: api.NewThinkTagScanner(),
		start:   time.Now(),
		cancel:  cancel,
	}
}

// Apply folds one decoded frame into the buffers. The first delta-level
// reasoning frame disables tag scanning for the rest of the turn.
func (t *Turn) Apply(f api.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch f.Kind {
	case api.FrameReasoning:
		t.sawDelta = true
		t.reasoning.WriteString(f.Text)
	case api.FrameContent:
		t.answer.WriteString(f.Text)
	}
}

// Snapshot returns the current reasoning and answer text. When no
// delta-level reasoning was seen the accumulated content is partitioned
// by the think-tag scanner; thinking reports an inline block that has
// opened but not yet closed.
func (t *Turn) Snapshot() (reasoning, answer string, thinking bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sawDelta {
		return t.reasoning.String(), t.answer.String(), false
	}
	return t.scanner.Split(t.answer.String())
}

// HasContent reports whether any answer text has arrived. Reasoning
// alone does not count: an abort before the first answer byte commits
// the stopped notice, not a reasoning-only fragment.
func (t *Turn) HasContent() bool {
	_, answer, _ := t.Snapshot()
	return strings.TrimSpace(answer) != ""
}

// Elapsed returns the time since the request was dispatched.
func (t *Turn) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.start)
}

// Cancel aborts the in-flight request. Safe to call more than once.
func (t *Turn) Cancel() {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
