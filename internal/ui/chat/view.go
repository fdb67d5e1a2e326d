// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nextai-tui/internal/model"
	"github.com/jeranaias/nextai-tui/internal/render"
	"github.com/jeranaias/nextai-tui/internal/ui/components"
)

const welcomeText = `Welcome to NextAI.

Type a message below to start chatting.
Use @ to switch the assistant's persona, ctrl+p to pick a model,
and ctrl+s to enable providers and set API keys.`

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	chat := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.bodyView(),
		m.composerView(),
	)

	var main string
	if m.overlay == overlaySidebar || !m.sidebar.Collapsed {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(), chat)
	} else {
		main = chat
	}

	sections := []string{main}
	if toasts := m.toasts.Active(); len(toasts) > 0 {
		stack := components.RenderToastStack(m.theme, toasts, 0, 0)
		sections = append(sections, lipgloss.PlaceHorizontal(m.width, lipgloss.Right, stack))
	}
	sections = append(sections, m.status.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	title := m.theme.HeaderTitle.Render("NextAI")
	sub := m.theme.HeaderSubtitle.Render(m.session.Conversation().Title)
	return m.theme.Header.Width(m.chatWidth()).Render(title + "  " + sub)
}

// bodyView is the viewport, or a centered modal while an overlay other
// than the sidebar is open.
func (m Model) bodyView() string {
	w, h := m.chatWidth(), m.viewport.Height

	if box := m.overlayBox(); box != "" {
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
	}
	return m.viewport.View()
}

func (m Model) overlayBox() string {
	maxW := m.chatWidth() - 8
	maxRows := m.viewport.Height - 6

	switch m.overlay {
	case overlayModelPicker, overlayRoleList, overlayCodePicker:
		return m.picker.view(maxW, maxRows)

	case overlaySettings:
		return m.settings.view(m.theme, m.cfg, maxW)

	case overlayEntry:
		title := "Rename chat"
		if m.entryFor != entryRenameChat {
			title = "API key"
		}
		body := m.theme.PickerTitle.Render(title) + "\n\n" +
			m.entry.View() + "\n\n" +
			m.theme.Help.Render("enter save · esc cancel")
		return m.theme.PickerBox.MaxWidth(maxW).Render(body)

	case overlayConfirm:
		body := m.theme.PickerTitle.Render("Confirm") + "\n\n" +
			m.confirmText + "\n\n" +
			m.theme.Help.Render("y confirm · n cancel")
		return m.theme.PickerBox.MaxWidth(maxW).Render(body)

	case overlayRoleEdit:
		title := "New role"
		if m.roleEdit.editingID != "" {
			title = "Edit role"
		}
		labels := [3]string{"Name", "Description", "Prompt"}
		var b strings.Builder
		b.WriteString(m.theme.PickerTitle.Render(title))
		b.WriteString("\n\n")
		for i, f := range m.roleEdit.fields {
			b.WriteString(m.theme.SettingLabel.Render(labels[i]))
			b.WriteString("\n")
			b.WriteString(f.View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(m.theme.Help.Render("tab next field · enter save · esc cancel"))
		return m.theme.PickerBox.MaxWidth(maxW).Render(b.String())
	}
	return ""
}

func (m Model) composerView() string {
	var parts []string
	if m.mention.active {
		parts = append(parts, m.mentionPopupView())
	}

	button := m.theme.SendButton.Render(" send ")
	if m.busy() {
		button = m.theme.StopButton.Render(" stop (ctrl+x) ")
	}
	box := m.theme.InputContainer.Width(m.chatWidth() - 2).Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, m.composer.View(), " ", button),
	)
	parts = append(parts, box)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) mentionPopupView() string {
	var b strings.Builder
	for i, r := range m.mention.items {
		line := r.Avatar + " " + r.Name
		if r.Description != "" {
			line += "  " + m.theme.SessionMeta.Render(r.Description)
		}
		if i == m.mention.selected {
			b.WriteString(m.theme.CompletionSelected.Render(line))
		} else {
			b.WriteString(m.theme.CompletionItem.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Help.Render("↑/↓ move · enter switch role · esc dismiss"))
	return m.theme.CompletionPopup.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) chatWidth() int {
	if m.overlay == overlaySidebar || !m.sidebar.Collapsed {
		return m.width - 28
	}
	return m.width
}

// =============================================================================
// VIEWPORT CONTENT
// =============================================================================

// syncViewport rebuilds the transcript. streaming appends the pending
// turn's partial reply after the stored messages.
func (m *Model) syncViewport(streaming bool) {
	conv := m.session.Conversation()
	width := m.chatWidth() - 4
	wasAtBottom := m.viewport.AtBottom()

	var parts []string
	if len(conv.Messages) == 0 && !streaming {
		m.viewport.SetContent(m.theme.SystemNotice.Render(welcomeText))
		return
	}

	last := len(conv.Messages) - 1
	for i := range conv.Messages {
		msg := &conv.Messages[i]
		switch msg.Role {
		case model.RoleAssistant:
			body := msg.Content
			// The typewriter reveals the newest reply gradually.
			if i == last && m.typeFull != "" {
				body = m.typewriterText()
			}
			rendered := m.renderer.RenderMessage(body, msg.Reasoning, false, render.Options{
				ThinkElapsed: msg.ResponseTime,
			})
			parts = append(parts, components.MessageView(m.theme, msg.Role, rendered, msg.ResponseTime, width))
		default:
			parts = append(parts, components.MessageView(m.theme, msg.Role, msg.Content, 0, width))
		}
	}

	if streaming {
		if turn := m.session.Turn(); turn != nil {
			reasoning, answer, thinking := turn.Snapshot()
			if reasoning == "" && answer == "" && !thinking {
				parts = append(parts, m.spin.View())
			} else {
				rendered := m.renderer.RenderMessage(answer, reasoning, thinking, render.Options{
					StreamingTail: true,
					ThinkElapsed:  turn.Elapsed(),
				})
				parts = append(parts, components.MessageView(m.theme, model.RoleAssistant, rendered, 0, width))
			}
		}
	}

	m.viewport.SetContent(strings.Join(parts, "\n\n"))
	if streaming || wasAtBottom {
		m.viewport.GotoBottom()
	}
}
