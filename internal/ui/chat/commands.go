// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nextai-tui/internal/api"
	"github.com/jeranaias/nextai-tui/internal/provider"
	"github.com/jeranaias/nextai-tui/internal/session"
)

// startChatStream opens the upstream request for the pending turn and
// pumps decoded frames into the turn buffers. Frame arrival is
// signalled through the event channel without payload; paints read the
// buffers directly.
func (m *Model) startChatStream(turn *session.Turn, ctx context.Context) tea.Cmd {
	p := provider.LookupText(m.cfg.Provider)
	var key string
	if p != nil {
		key = m.cfg.APIKey(p.ID)
	}
	client := api.NewClient(p, key)

	req := api.ChatRequest{
		Model:       m.cfg.Model,
		Messages:    m.session.Window(m.roles.CurrentPrompt(), m.cfg.ContextPairs),
		Temperature: m.cfg.Temperature,
		TopP:        m.cfg.TopP,
		MaxTokens:   m.cfg.MaxTokens,
	}

	m.turnID++
	id := m.turnID
	events := make(chan streamEvent, 16)
	m.events = events
	m.firstContent = false

	go func() {
		err := client.ChatStream(ctx, req, func(f api.Frame) {
			turn.Apply(f)
			select {
			case events <- streamEvent{kind: eventFrame}:
			default:
				// A frame signal is already queued; the paint will
				// pick this frame up from the buffers anyway.
			}
		})
		if err != nil {
			log.Printf("chat stream ended: %v", err)
		}
		events <- streamEvent{kind: eventDone, err: err}
	}()

	return waitForStream(id, events)
}

// waitForStream delivers the next stream event as a message.
func waitForStream(turnID int, events chan streamEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return streamEventMsg{turnID: turnID, event: ev}
	}
}

// startImageGeneration runs one image request. The result arrives as a
// single message; the reply is revealed with the typewriter.
func (m *Model) startImageGeneration(ctx context.Context, prompt string) tea.Cmd {
	p := provider.LookupImage(m.cfg.ImageProvider)
	var key string
	if p != nil {
		key = m.cfg.ImageAPIKey(p.ID)
	}
	client := api.NewImageClient(p, key)

	req := api.ImageRequest{
		Prompt:        prompt,
		Model:         m.cfg.ImageModel,
		Width:         m.cfg.Image.Width,
		Height:        m.cfg.Image.Height,
		Steps:         m.cfg.Image.Steps,
		GuidanceScale: m.cfg.Image.GuidanceScale,
	}

	m.turnID++
	id := m.turnID
	start := time.Now()

	return func() tea.Msg {
		url, err := client.Generate(ctx, req)
		return imageResultMsg{turnID: id, url: url, err: err, took: time.Since(start)}
	}
}

// validateKey probes a freshly saved credential against the provider's
// models endpoint.
func validateKey(providerID, key string) tea.Cmd {
	return func() tea.Msg {
		p := provider.LookupText(providerID)
		if p == nil {
			return keyValidatedMsg{provider: providerID, err: api.ErrNoProvider}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := api.NewClient(p, key).ValidateCredential(ctx)
		return keyValidatedMsg{provider: p.Name, err: err}
	}
}

// =============================================================================
// TYPEWRITER
// =============================================================================

// typewriterStep is how many characters each tick reveals.
const typewriterStep = 3

// typewriterInterval paces the reveal.
const typewriterInterval = 15 * time.Millisecond

// startTypewriter begins revealing text character by character.
func (m *Model) startTypewriter(full string) tea.Cmd {
	m.typeFull = full
	m.typeShown = 0
	return typewriterTick()
}

func typewriterTick() tea.Cmd {
	return tea.Tick(typewriterInterval, func(time.Time) tea.Msg {
		return typewriterTickMsg{}
	})
}

// advanceTypewriter reveals the next slice; done reports completion.
func (m *Model) advanceTypewriter() (done bool) {
	if m.typeShown >= len(m.typeFull) {
		return true
	}
	m.typeShown += typewriterStep
	if m.typeShown > len(m.typeFull) {
		m.typeShown = len(m.typeFull)
	}
	// Never split a multi-byte rune mid-sequence.
	for m.typeShown < len(m.typeFull) && !isRuneStart(m.typeFull[m.typeShown]) {
		m.typeShown++
	}
	return m.typeShown >= len(m.typeFull)
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// typewriterText returns the revealed portion.
func (m *Model) typewriterText() string {
	if m.typeShown >= len(m.typeFull) {
		return m.typeFull
	}
	return m.typeFull[:m.typeShown]
}
