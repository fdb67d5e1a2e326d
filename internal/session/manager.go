// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeranaias/nextai-tui/internal/api"
	"github.com/jeranaias/nextai-tui/internal/model"
	"github.com/jeranaias/nextai-tui/internal/storage"
)

// ErrBusy indicates a turn is already in flight.
var ErrBusy = errors.New("a response is already being generated")

// ErrNothingToRegenerate indicates the conversation does not end with
// an assistant message.
var ErrNothingToRegenerate = errors.New("nothing to regenerate")

// Result is the committed outcome of one turn.
type Result struct {
	Outcome Outcome
	// Message is the assistant message written to the conversation.
	// Config errors commit no message; Committed is false then.
	Message   model.Message
	Committed bool
	Err       error
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns the active conversation and the turn state machine.
//
// State transitions happen on the UI goroutine; only the Turn buffers
// are touched concurrently. Every terminal path persists the
// conversation so a crash never loses more than the in-flight turn.
type Manager struct {
	chats *storage.ChatStore
	conv  *model.Conversation
	state State
	turn  *Turn
}

// NewManager loads the current conversation, falling back to a fresh
// one when the pointer is stale or nothing is stored yet.
func NewManager(chats *storage.ChatStore) (*Manager, error) {
	m := &Manager{chats: chats, state: StateIdle}

	id, err := chats.CurrentID()
	if err != nil {
		return nil, fmt.Errorf("failed to load current chat: %w", err)
	}
	if id != "" {
		conv, err := chats.Get(id)
		if err == nil {
			m.conv = conv
			return m, nil
		}
		if !errors.Is(err, storage.ErrChatNotFound) {
			return nil, err
		}
	}
	m.conv = model.NewConversation(false)
	return m, nil
}

// Conversation returns the active conversation. The manager owns it;
// callers read it between updates and never mutate it directly.
func (m *Manager) Conversation() *model.Conversation {
	return m.conv
}

// State returns the current turn state.
func (m *Manager) State() State {
	return m.state
}

// Turn returns the in-flight turn, or nil when idle.
func (m *Manager) Turn() *Turn {
	return m.turn
}

// Busy reports whether a turn is in flight.
func (m *Manager) Busy() bool {
	return m.state != StateIdle
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

// Send appends the user message, persists the conversation, and opens a
// turn. The returned context bounds the upstream request; cancelling it
// through Turn.Cancel aborts generation.
func (m *Manager) Send(ctx context.Context, text string) (*Turn, context.Context, error) {
	if m.state != StateIdle {
		return nil, nil, ErrBusy
	}
	m.conv.AddMessage(model.NewUserMessage(text))
	if err := m.persist(); err != nil {
		return nil, nil, err
	}
	return m.open(ctx)
}

// Resend opens a turn without appending a user message. Regeneration
// uses this so the prompt is never duplicated in the history.
func (m *Manager) Resend(ctx context.Context) (*Turn, context.Context, error) {
	if m.state != StateIdle {
		return nil, nil, ErrBusy
	}
	last := m.conv.LastMessage()
	if last == nil || last.Role != model.RoleUser {
		return nil, nil, ErrNothingToRegenerate
	}
	return m.open(ctx)
}

func (m *Manager) open(ctx context.Context) (*Turn, context.Context, error) {
	turnCtx, cancel := context.WithCancel(ctx)
	m.turn = NewTurn(cancel)
	m.state = StateSending
	return m.turn, turnCtx, nil
}

// MarkStreaming records the first frame of the turn.
func (m *Manager) MarkStreaming() {
	if m.state == StateSending {
		m.state = StateStreaming
	}
}

// Stop aborts the in-flight turn, if any.
func (m *Manager) Stop() {
	if m.turn != nil {
		m.turn.Cancel()
	}
}

// Window builds the wire payload for the pending turn. The trailing
// user message is the prompt; everything before it is history subject
// to the pair limit.
func (m *Manager) Window(systemPrompt string, contextPairs int) []api.ChatMessage {
	msgs := m.conv.Messages
	if len(msgs) == 0 || msgs[len(msgs)-1].Role != model.RoleUser {
		return BuildWindow(systemPrompt, msgs, "", contextPairs)
	}
	return BuildWindow(systemPrompt, msgs[:len(msgs)-1], msgs[len(msgs)-1].Content, contextPairs)
}

// Finish commits the terminal outcome of the turn and returns to Idle.
//
// nil err completes the turn with the accumulated answer. A cancelled
// context aborts it: partial content is kept verbatim, an empty turn
// commits the stopped notice instead. Configuration errors (no
// provider, missing key) commit nothing so a settings mistake does not
// pollute the history; every other error commits the failed notice the
// way the provider's own UI would. The conversation is persisted on
// every path.
func (m *Manager) Finish(err error) (Result, error) {
	turn := m.turn
	m.turn = nil
	m.state = StateIdle
	if turn == nil {
		return Result{}, errors.New("no turn in flight")
	}
	turn.Cancel()

	res := m.classify(turn, err)
	if res.Committed {
		m.conv.AddMessage(res.Message)
	}
	if perr := m.persist(); perr != nil {
		return res, perr
	}
	return res, nil
}

func (m *Manager) classify(turn *Turn, err error) Result {
	reasoning, answer, _ := turn.Snapshot()

	switch {
	case err == nil:
		return Result{
			Outcome:   OutcomeCompleted,
			Message:   model.NewAssistantMessage(answer, reasoning, turn.Elapsed()),
			Committed: true,
		}

	case errors.Is(err, context.Canceled):
		if turn.HasContent() {
			return Result{
				Outcome:   OutcomeAborted,
				Message:   model.NewAssistantMessage(answer, reasoning, turn.Elapsed()),
				Committed: true,
				Err:       err,
			}
		}
		return Result{
			Outcome:   OutcomeAborted,
			Message:   model.NewAssistantMessage(StoppedNotice, "", 0),
			Committed: true,
			Err:       err,
		}

	case errors.Is(err, api.ErrNoProvider), errors.Is(err, api.ErrMissingKey):
		return Result{Outcome: OutcomeFailed, Err: err}

	default:
		return Result{
			Outcome:   OutcomeFailed,
			Message:   model.NewAssistantMessage(FailedNotice, "", 0),
			Committed: true,
			Err:       err,
		}
	}
}

// =============================================================================
// CONVERSATION MANAGEMENT
// =============================================================================

// Regenerate drops the trailing assistant message so the last prompt
// can be resent. The caller follows up with Resend.
func (m *Manager) Regenerate() error {
	if m.state != StateIdle {
		return ErrBusy
	}
	if !m.conv.DropTrailingAssistant() {
		return ErrNothingToRegenerate
	}
	return m.persist()
}

// NewChat saves the active conversation and starts a fresh one.
func (m *Manager) NewChat() error {
	if m.state != StateIdle {
		return ErrBusy
	}
	m.conv = model.NewConversation(true)
	return m.persist()
}

// SwitchTo activates a stored conversation.
func (m *Manager) SwitchTo(id string) error {
	if m.state != StateIdle {
		return ErrBusy
	}
	conv, err := m.chats.Get(id)
	if err != nil {
		return err
	}
	m.conv = conv
	return m.chats.SetCurrentID(id)
}

// Rename retitles a stored conversation, keeping the active copy in
// sync when it is the one renamed.
func (m *Manager) Rename(id, title string) error {
	if err := m.chats.Rename(id, title); err != nil {
		return err
	}
	if m.conv.ID == id {
		m.conv.SetTitle(title)
	}
	return nil
}

// Delete removes a stored conversation. Deleting the active one
// activates the newest remaining conversation, or a fresh one when
// none are left.
func (m *Manager) Delete(id string) error {
	if m.state != StateIdle {
		return ErrBusy
	}
	if err := m.chats.Delete(id); err != nil {
		return err
	}
	if m.conv.ID != id {
		return nil
	}
	list, err := m.chats.List()
	if err != nil {
		return err
	}
	if len(list) > 0 {
		m.conv = list[0]
		return m.chats.SetCurrentID(m.conv.ID)
	}
	m.conv = model.NewConversation(false)
	return nil
}

// ClearAll removes every stored conversation and starts fresh.
func (m *Manager) ClearAll() error {
	if m.state != StateIdle {
		return ErrBusy
	}
	if err := m.chats.Clear(); err != nil {
		return err
	}
	m.conv = model.NewConversation(false)
	return nil
}

// List returns the stored conversations, newest first.
func (m *Manager) List() ([]*model.Conversation, error) {
	return m.chats.List()
}

func (m *Manager) persist() error {
	if err := m.chats.Save(m.conv); err != nil {
		return fmt.Errorf("failed to save chat: %w", err)
	}
	return m.chats.SetCurrentID(m.conv.ID)
}
