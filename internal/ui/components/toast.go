// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the nextai TUI.
//
// Toasts are non-blocking notifications in the corner of the screen.
// They auto-dismiss, so errors never interrupt composing a message.
package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind classifies a toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast.
	ToastKindStatus ToastKind = iota
	// ToastKindSuccess confirms a completed action.
	ToastKindSuccess
	// ToastKindWarning flags a recoverable problem.
	ToastKindWarning
	// ToastKindError reports a failure.
	ToastKindError
)

// Auto-dismiss durations. Errors stay up longer so they can be read.
const (
	StatusToastDuration  = 4 * time.Second
	WarningToastDuration = 6 * time.Second
	ErrorToastDuration   = 8 * time.Second
)

// DedupWindow suppresses a repeat of the same message within this
// window. A flapping provider otherwise floods the corner with
// identical errors.
const DedupWindow = 3 * time.Second

// Toast is one notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the toast should be dismissed.
func (t Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

func durationFor(kind ToastKind) time.Duration {
	switch kind {
	case ToastKindError:
		return ErrorToastDuration
	case ToastKindWarning:
		return WarningToastDuration
	default:
		return StatusToastDuration
	}
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager holds the active toasts plus the dedup set.
//
// The dedup set maps message text to the time it may be shown again;
// entries are evicted lazily on the next insert rather than by a
// timer, so an idle manager holds no goroutine.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []Toast
	recent    map[string]time.Time
	nextID    int
	maxToasts int
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{
		recent:    make(map[string]time.Time),
		nextID:    1,
		maxToasts: 5,
	}
}

// Add queues a toast. A duplicate message inside the dedup window is
// dropped and 0 is returned; otherwise the new toast's ID is returned.
func (m *ToastManager) Add(message string, kind ToastKind) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for msg, until := range m.recent {
		if now.After(until) {
			delete(m.recent, msg)
		}
	}
	if until, ok := m.recent[message]; ok && now.Before(until) {
		return 0
	}
	m.recent[message] = now.Add(DedupWindow)

	t := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: now,
		Duration:  durationFor(kind),
	}
	m.nextID++

	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return t.ID
}

// Status queues an informational toast.
func (m *ToastManager) Status(message string) int {
	return m.Add(message, ToastKindStatus)
}

// Success queues a success toast.
func (m *ToastManager) Success(message string) int {
	return m.Add(message, ToastKindSuccess)
}

// Warning queues a warning toast.
func (m *ToastManager) Warning(message string) int {
	return m.Add(message, ToastKindWarning)
}

// Error queues an error toast.
func (m *ToastManager) Error(message string) int {
	return m.Add(message, ToastKindError)
}

// Dismiss removes a toast by ID.
func (m *ToastManager) Dismiss(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.toasts {
		if t.ID == id {
			m.toasts = append(m.toasts[:i], m.toasts[i+1:]...)
			return
		}
	}
}

// Tick drops expired toasts and returns the survivors, newest first.
func (m *ToastManager) Tick() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired() {
			active = append(active, t)
		}
	}
	m.toasts = active
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Active returns a copy of the current toasts.
func (m *ToastManager) Active() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// HasToasts reports whether anything is on screen.
func (m *ToastManager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// ToastTickMsg drives expiry while toasts are visible.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd ticks the toast stack every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

func toastStyle(theme *styles.Theme, kind ToastKind) lipgloss.Style {
	switch kind {
	case ToastKindError:
		return theme.ToastError
	case ToastKindWarning:
		return theme.ToastWarning
	case ToastKindSuccess:
		return theme.ToastSuccess
	default:
		return theme.ToastInfo
	}
}

// RenderToastStack renders the toasts stacked in the bottom-right.
func RenderToastStack(theme *styles.Theme, toasts []Toast, width, height int) string {
	if len(toasts) == 0 {
		return ""
	}

	maxWidth := 60
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		msg := t.Message
		if lipgloss.Width(msg) > maxWidth-2 {
			msg = wrapText(msg, maxWidth-2)
		}
		rendered = append(rendered, toastStyle(theme, t.Kind).MaxWidth(maxWidth).Render(msg))
	}

	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	if width > 0 && height > 0 {
		return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, stack)
	}
	return stack
}

// wrapText performs simple word wrapping.
func wrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}
	words := strings.Fields(text)
	var lines []string
	var line strings.Builder
	for _, word := range words {
		if line.Len() > 0 && line.Len()+1+len(word) > maxWidth {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
