// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session drives one conversation: the streaming turn state
// machine, the context window sent upstream, and persistence on every
// terminal path.
package session

// State is the turn state machine. A turn moves Idle -> Sending on
// dispatch, Sending -> Streaming on the first frame, and back to Idle
// when the terminal outcome is committed.
type State int

const (
	// StateIdle means no request is in flight.
	StateIdle State = iota
	// StateSending means the request was dispatched but no frame has
	// arrived yet.
	StateSending
	// StateStreaming means at least one frame has arrived.
	StateStreaming
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateStreaming:
		return "streaming"
	}
	return "unknown"
}

// Outcome classifies how a turn ended.
type Outcome int

const (
	// OutcomeCompleted means the stream finished normally.
	OutcomeCompleted Outcome = iota
	// OutcomeAborted means the user stopped generation.
	OutcomeAborted
	// OutcomeFailed covers configuration, auth, and transport errors.
	OutcomeFailed
)

// Notices committed in place of a normal answer.
const (
	// StoppedNotice is persisted when the user aborts before any
	// content arrived.
	StoppedNotice = "Generation stopped."

	// FailedNotice is persisted when the upstream call fails mid-turn.
	FailedNotice = "The request failed. Try a different model."
)
