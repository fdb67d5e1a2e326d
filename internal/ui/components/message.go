// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nextai-tui/internal/model"
	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// MessageView renders one chat message as a labelled bubble. body is
// the already-rendered content (Markdown for assistant replies, plain
// text for user messages).
func MessageView(theme *styles.Theme, role model.Role, body string, responseTime time.Duration, width int) string {
	switch role {
	case model.RoleUser:
		bubble := theme.UserBubble.MaxWidth(width).Render(body)
		label := theme.UserLabel.Render(role.DisplayName())
		return lipgloss.JoinVertical(lipgloss.Right, label, bubble)

	case model.RoleAssistant:
		bubble := theme.AssistantBubble.MaxWidth(width).Render(body)
		label := theme.AssistantLabel.Render(role.DisplayName())
		if responseTime > 0 {
			label += " " + theme.ResponseTime.Render(formatResponseTime(responseTime))
		}
		return lipgloss.JoinVertical(lipgloss.Left, label, bubble)

	default:
		return theme.SystemNotice.MaxWidth(width).Render(body)
	}
}

// formatResponseTime renders a reply duration the way the header line
// shows it, rounded to whole seconds.
func formatResponseTime(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("%ds", secs)
}
