// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat is the Bubble Tea model for the conversation view: the
// message viewport, the composer, the overlays, and the incremental
// paint loop that keeps streaming replies smooth.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nextai-tui/internal/config"
	"github.com/jeranaias/nextai-tui/internal/render"
	"github.com/jeranaias/nextai-tui/internal/roles"
	"github.com/jeranaias/nextai-tui/internal/secret"
	"github.com/jeranaias/nextai-tui/internal/session"
	"github.com/jeranaias/nextai-tui/internal/ui/components"
	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// overlay selects which modal surface, if any, sits over the chat.
type overlay int

const (
	overlayNone overlay = iota
	overlaySidebar
	overlayModelPicker
	overlayRoleList
	overlayRoleEdit
	overlaySettings
	overlayEntry
	overlayConfirm
	overlayCodePicker
)

// entryTarget says what the text entry overlay is editing.
type entryTarget int

const (
	entryRenameChat entryTarget = iota
	entryAPIKey
	entryImageAPIKey
)

// confirmAction says what the confirm overlay will do on yes.
type confirmAction int

const (
	confirmDeleteChat confirmAction = iota
	confirmClearAll
	confirmDeleteRole
)

// roleEditState is the add/edit form for custom roles.
type roleEditState struct {
	editingID string // empty when adding
	fields    [3]textinput.Model
	focus     int
}

// Model is the Bubble Tea model for the whole application.
type Model struct {
	theme    *styles.Theme
	cfg      *config.Config
	cfgPath  string
	vault    *secret.Vault
	session  *session.Manager
	roles    *roles.Manager
	renderer *render.Renderer
	toasts   *components.ToastManager

	width  int
	height int
	ready  bool

	viewport viewport.Model
	composer textarea.Model
	sidebar  components.Sidebar
	status   components.StatusBar
	spin     components.Spinner

	keys    keyMap
	mention mentionState
	sched   frameScheduler

	overlay       overlay
	picker        picker
	settings      settingsState
	entry         textinput.Model
	entryFor      entryTarget
	entryProvider string
	confirm       confirmAction
	confirmText   string
	confirmID     string
	roleEdit      roleEditState
	codeBlocks    []render.CodeBlock

	// Streaming plumbing. events is recreated per turn and turnID
	// fences stale goroutine messages after an abort.
	events       chan streamEvent
	turnID       int
	firstContent bool

	// Typewriter reveal for non-streamed bodies (image URLs).
	typeFull  string
	typeShown int

	suppressWatcher bool // our own saves should not trigger reload toasts
}

// Deps carries the wired application services into the model.
type Deps struct {
	Config   *config.Config
	CfgPath  string
	Vault    *secret.Vault
	Session  *session.Manager
	Roles    *roles.Manager
	Renderer *render.Renderer
	Theme    *styles.Theme
}

// New creates the chat model.
func New(d Deps) Model {
	composer := textarea.New()
	composer.Placeholder = "Message (@role to switch persona, Enter to send)"
	composer.CharLimit = 0
	composer.ShowLineNumbers = false
	composer.SetHeight(3)
	composer.Focus()

	m := Model{
		theme:    d.Theme,
		cfg:      d.Config,
		cfgPath:  d.CfgPath,
		vault:    d.Vault,
		session:  d.Session,
		roles:    d.Roles,
		renderer: d.Renderer,
		toasts:   components.NewToastManager(),
		viewport: viewport.New(0, 0),
		composer: composer,
		sidebar:  components.NewSidebar(d.Theme),
		status:   components.NewStatusBar(d.Theme),
		spin:     components.NewSpinner(d.Theme),
		keys:     defaultKeyMap(),
	}
	m.sidebar.Collapsed = d.Config.SidebarCollapsed
	m.refreshSidebar()
	m.refreshStatus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// refreshStatus syncs the status bar with the config and role state.
func (m *Model) refreshStatus() {
	m.status.Provider = m.cfg.Provider
	m.status.Model = m.cfg.Model
	m.status.Role = m.roles.Current().Name
	m.status.Scenario = m.cfg.Scenario
}

// refreshSidebar reloads the conversation list.
func (m *Model) refreshSidebar() {
	list, err := m.session.List()
	if err != nil {
		m.toasts.Error("failed to load chats: " + err.Error())
		return
	}
	m.sidebar.SetItems(list, m.session.Conversation().ID)
}

// saveConfig persists the config, remembering that the next watcher
// event is our own write.
func (m *Model) saveConfig() {
	m.suppressWatcher = true
	if err := config.Save(m.cfg, m.cfgPath, m.vault); err != nil {
		m.toasts.Error("failed to save settings: " + err.Error())
	}
}

// busy reports whether a turn is in flight.
func (m *Model) busy() bool {
	return m.session.Busy()
}

// turnStart is used for the "thought for" label on the final paint.
func (m *Model) turnElapsed() time.Duration {
	if t := m.session.Turn(); t != nil {
		return t.Elapsed()
	}
	return 0
}
