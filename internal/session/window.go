// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"github.com/jeranaias/nextai-tui/internal/api"
	"github.com/jeranaias/nextai-tui/internal/model"
)

// BuildWindow assembles the wire payload for one request: the system
// prompt if non-empty, the last contextPairs (user, assistant)
// exchanges from history, and the new user message last.
//
// A pair starts at a user message and runs to the next one, so a
// trailing user message without a reply counts as its own pair.
// contextPairs of zero sends no history at all. Reasoning text is never
// sent back upstream; only the answer content goes on the wire.
func BuildWindow(systemPrompt string, history []model.Message, userText string, contextPairs int) []api.ChatMessage {
	out := make([]api.ChatMessage, 0, len(history)+2)
	if systemPrompt != "" {
		out = append(out, api.ChatMessage{Role: string(model.RoleSystem), Content: systemPrompt})
	}

	if contextPairs > 0 {
		cut := len(history)
		pairs := 0
		for i := len(history) - 1; i >= 0; i-- {
			if history[i].Role == model.RoleUser {
				pairs++
				cut = i
				if pairs == contextPairs {
					break
				}
			}
		}
		if pairs > 0 {
			for _, msg := range history[cut:] {
				if msg.Role != model.RoleUser && msg.Role != model.RoleAssistant {
					continue
				}
				if msg.Content == "" {
					continue
				}
				out = append(out, api.ChatMessage{Role: string(msg.Role), Content: msg.Content})
			}
		}
	}

	out = append(out, api.ChatMessage{Role: string(model.RoleUser), Content: userText})
	return out
}
