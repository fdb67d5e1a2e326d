// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nextai-tui/internal/api"
	"github.com/jeranaias/nextai-tui/internal/config"
	"github.com/jeranaias/nextai-tui/internal/export"
	"github.com/jeranaias/nextai-tui/internal/model"
	"github.com/jeranaias/nextai-tui/internal/render"
	"github.com/jeranaias/nextai-tui/internal/roles"
	"github.com/jeranaias/nextai-tui/internal/session"
	"github.com/jeranaias/nextai-tui/internal/ui/components"
	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case streamEventMsg:
		return m.handleStreamEvent(msg)

	case imageResultMsg:
		return m.handleImageResult(msg)

	case paintMsg:
		m.sched.fired()
		m.syncViewport(true)
		return m, nil

	case typewriterTickMsg:
		done := m.advanceTypewriter()
		m.syncViewport(false)
		if done {
			m.typeFull = ""
			return m, nil
		}
		return m, typewriterTick()

	case configReloadedMsg:
		return m.handleConfigReload(msg)

	case components.ToastTickMsg:
		m.toasts.Tick()
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case clipboardDoneMsg:
		if msg.err != nil {
			m.toasts.Error("copy failed: " + msg.err.Error())
		} else {
			m.toasts.Success("copied to clipboard")
		}
		return m, components.ToastTickCmd()

	case keyValidatedMsg:
		switch {
		case msg.err == nil:
			m.toasts.Success(msg.provider + " key verified")
		case errors.Is(msg.err, api.ErrAuthFailed):
			m.toasts.Error(msg.provider + " rejected the key")
		default:
			// Probe failures other than auth are not conclusive.
			m.toasts.Warning(msg.provider + " key saved, verification unavailable")
		}
		return m, components.ToastTickCmd()
	}

	return m, nil
}

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true

	sidebarWidth := 0
	if !m.sidebar.Collapsed {
		sidebarWidth = 28
	}
	m.sidebar.SetSize(28, msg.Height-2)
	m.status.SetWidth(msg.Width)

	chatWidth := msg.Width - sidebarWidth
	m.viewport.Width = chatWidth
	m.viewport.Height = msg.Height - 7
	m.composer.SetWidth(chatWidth - 4)

	if err := m.renderer.SetWidth(chatWidth - 10); err == nil {
		m.syncViewport(m.busy())
	}
	return m, nil
}

// =============================================================================
// STREAMING
// =============================================================================

func (m Model) handleStreamEvent(msg streamEventMsg) (tea.Model, tea.Cmd) {
	if msg.turnID != m.turnID {
		// A stale goroutine from an aborted turn; drop it.
		return m, nil
	}

	switch msg.event.kind {
	case eventFrame:
		m.session.MarkStreaming()
		var cmds []tea.Cmd
		if !m.firstContent {
			if t := m.session.Turn(); t != nil {
				if r, a, _ := t.Snapshot(); r != "" || a != "" {
					// First visible output: retire the spinner exactly
					// once for the turn.
					m.firstContent = true
					m.spin.Stop()
				}
			}
		}
		if cmd := m.sched.request(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, waitForStream(m.turnID, m.events))
		return m, tea.Batch(cmds...)

	case eventDone:
		return m.finishTurn(msg.event.err)
	}
	return m, nil
}

func (m Model) finishTurn(streamErr error) (tea.Model, tea.Cmd) {
	m.spin.Stop()
	res, err := m.session.Finish(streamErr)
	if err != nil {
		m.toasts.Error("failed to save chat: " + err.Error())
	}

	switch res.Outcome {
	case session.OutcomeAborted:
		m.toasts.Status("generation stopped")
	case session.OutcomeFailed:
		m.reportFailure(res.Err)
	}

	m.syncViewport(false)
	m.viewport.GotoBottom()
	m.refreshSidebar()
	return m, components.ToastTickCmd()
}

// reportFailure turns a terminal error into toasts, mirroring how the
// status line explains each class of failure.
func (m *Model) reportFailure(err error) {
	switch {
	case err == nil:
		return
	case errors.Is(err, api.ErrNoProvider):
		m.toasts.Error("no provider enabled, open settings (ctrl+s)")
	case errors.Is(err, api.ErrMissingKey):
		m.toasts.Error(err.Error() + ", set it in settings (ctrl+s)")
	case errors.Is(err, api.ErrAuthFailed):
		m.toasts.Error("authentication failed, check the API key in settings")
	case errors.Is(err, api.ErrRateLimited):
		m.toasts.Warning("rate limited, wait a moment and retry")
	default:
		m.toasts.Error(err.Error())
	}
}

func (m Model) handleImageResult(msg imageResultMsg) (tea.Model, tea.Cmd) {
	if msg.turnID != m.turnID {
		return m, nil
	}
	m.spin.Stop()

	if msg.err != nil {
		res, _ := m.session.Finish(msg.err)
		m.reportFailure(res.Err)
		m.syncViewport(false)
		m.refreshSidebar()
		return m, components.ToastTickCmd()
	}

	body := "![generated image](" + msg.url + ")\n\n" + msg.url
	if t := m.session.Turn(); t != nil {
		t.Apply(api.Frame{Kind: api.FrameContent, Text: body})
	}
	if _, err := m.session.Finish(nil); err != nil {
		m.toasts.Error("failed to save chat: " + err.Error())
	}
	m.refreshSidebar()
	return m, m.startTypewriter(body)
}

// =============================================================================
// KEYS
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit always works.
	if key.Matches(msg, m.keys.Quit) {
		if m.busy() {
			m.session.Stop()
		}
		return m, tea.Quit
	}

	switch m.overlay {
	case overlayNone:
		return m.handleChatKey(msg)
	case overlaySidebar:
		return m.handleSidebarKey(msg)
	case overlayModelPicker, overlayRoleList, overlayCodePicker:
		return m.handlePickerKey(msg)
	case overlaySettings:
		return m.handleSettingsKey(msg)
	case overlayEntry:
		return m.handleEntryKey(msg)
	case overlayConfirm:
		return m.handleConfirmKey(msg)
	case overlayRoleEdit:
		return m.handleRoleEditKey(msg)
	}
	return m, nil
}

func (m Model) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Stop):
		if m.busy() {
			m.session.Stop()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		if err := m.session.NewChat(); err != nil {
			m.toasts.Error(err.Error())
			return m, components.ToastTickCmd()
		}
		m.refreshSidebar()
		m.syncViewport(false)
		return m, nil

	case key.Matches(msg, m.keys.Sidebar):
		m.sidebar.Collapsed = false
		m.overlay = overlaySidebar
		m.refreshSidebar()
		return m, nil

	case key.Matches(msg, m.keys.ModelPick):
		m.openModelPicker()
		return m, nil

	case key.Matches(msg, m.keys.Roles):
		m.openRoleList()
		return m, nil

	case key.Matches(msg, m.keys.Settings):
		m.settings = newSettingsState()
		m.overlay = overlaySettings
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		return m.toggleTheme()

	case key.Matches(msg, m.keys.Regenerate):
		return m.regenerate()

	case key.Matches(msg, m.keys.CopyCode):
		m.openCodePicker()
		return m, nil
	}

	// Mention popup steals navigation keys while open.
	if m.mention.active {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.mention.moveUp()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.mention.moveDown()
			return m, nil
		case key.Matches(msg, m.keys.Escape):
			m.mention.close()
			return m, nil
		case key.Matches(msg, m.keys.Enter) && !msg.Alt:
			return m.applyMention()
		}
	}

	if key.Matches(msg, m.keys.Enter) && !msg.Alt {
		return m.send()
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	m.mention.refresh(m.composer.Value(), m.roles)
	return m, cmd
}

func (m Model) applyMention() (tea.Model, tea.Cmd) {
	role, ok := m.mention.choice()
	if !ok {
		m.mention.close()
		return m, nil
	}
	m.composer.SetValue(m.mention.apply(m.composer.Value()))
	m.mention.close()
	if err := m.roles.SetCurrent(role.ID); err != nil {
		m.toasts.Error(err.Error())
	} else {
		m.toasts.Success("role: " + role.Name)
	}
	m.refreshStatus()
	return m, components.ToastTickCmd()
}

func (m Model) send() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.composer.Value())
	if text == "" {
		return m, nil
	}
	if m.busy() {
		m.toasts.Warning("a response is already being generated")
		return m, components.ToastTickCmd()
	}

	turn, ctx, err := m.session.Send(context.Background(), text)
	if err != nil {
		m.toasts.Error(err.Error())
		return m, components.ToastTickCmd()
	}
	m.composer.Reset()
	m.mention.close()
	m.syncViewport(true)
	m.viewport.GotoBottom()
	m.refreshSidebar()

	var streamCmd tea.Cmd
	if m.cfg.Scenario == config.ScenarioImage {
		streamCmd = m.startImageGeneration(ctx, text)
	} else {
		streamCmd = m.startChatStream(turn, ctx)
	}
	return m, tea.Batch(streamCmd, m.spin.Start())
}

func (m Model) regenerate() (tea.Model, tea.Cmd) {
	if m.busy() {
		return m, nil
	}
	if err := m.session.Regenerate(); err != nil {
		if errors.Is(err, session.ErrNothingToRegenerate) {
			m.toasts.Status("nothing to regenerate")
			return m, components.ToastTickCmd()
		}
		m.toasts.Error(err.Error())
		return m, components.ToastTickCmd()
	}

	turn, ctx, err := m.session.Resend(context.Background())
	if err != nil {
		m.toasts.Error(err.Error())
		return m, components.ToastTickCmd()
	}
	m.syncViewport(true)
	return m, tea.Batch(m.startChatStream(turn, ctx), m.spin.Start())
}

func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	if m.cfg.Theme == config.ThemeDark {
		m.cfg.Theme = config.ThemeLight
	} else {
		m.cfg.Theme = config.ThemeDark
	}
	m.applyTheme()
	m.saveConfig()
	return m, nil
}

// applyTheme rebuilds every themed component after a theme change.
func (m *Model) applyTheme() {
	dark := m.cfg.Theme == config.ThemeDark
	m.theme = styles.NewTheme(dark)
	if err := m.renderer.SetDark(dark); err != nil {
		m.toasts.Error("theme switch failed: " + err.Error())
	}

	collapsed := m.sidebar.Collapsed
	m.sidebar = components.NewSidebar(m.theme)
	m.sidebar.Collapsed = collapsed
	m.status = components.NewStatusBar(m.theme)
	m.spin = components.NewSpinner(m.theme)
	m.refreshSidebar()
	m.refreshStatus()
	if m.ready {
		m.sidebar.SetSize(28, m.height-2)
		m.status.SetWidth(m.width)
	}
	m.syncViewport(m.busy())
}

// =============================================================================
// SIDEBAR KEYS
// =============================================================================

func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Sidebar):
		m.overlay = overlayNone
		m.sidebar.Collapsed = m.cfg.SidebarCollapsed
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.sidebar.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.sidebar.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		sel := m.sidebar.Selected()
		if sel == nil {
			return m, nil
		}
		if err := m.session.SwitchTo(sel.ID); err != nil {
			m.toasts.Error(err.Error())
			return m, components.ToastTickCmd()
		}
		m.overlay = overlayNone
		m.refreshSidebar()
		m.syncViewport(false)
		m.viewport.GotoBottom()
		return m, nil

	case key.Matches(msg, m.keys.Rename):
		sel := m.sidebar.Selected()
		if sel == nil {
			return m, nil
		}
		m.openEntry(entryRenameChat, sel.Title)
		m.confirmID = sel.ID
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		sel := m.sidebar.Selected()
		if sel == nil {
			return m, nil
		}
		m.confirm = confirmDeleteChat
		m.confirmID = sel.ID
		m.confirmText = "Delete chat \"" + sel.Title + "\"?"
		m.overlay = overlayConfirm
		return m, nil

	case msg.String() == "ctrl+l":
		m.confirm = confirmClearAll
		m.confirmText = "Delete ALL chats?"
		m.overlay = overlayConfirm
		return m, nil

	case msg.String() == "x":
		return m.exportSelected()
	}
	return m, nil
}

// exportSelected writes the highlighted conversation to a Markdown
// file under the data directory.
func (m Model) exportSelected() (tea.Model, tea.Cmd) {
	sel := m.sidebar.Selected()
	if sel == nil {
		return m, nil
	}
	conv := sel
	if conv.ID == m.session.Conversation().ID {
		conv = m.session.Conversation()
	}

	dir, err := config.Dir()
	if err != nil {
		m.toasts.Error(err.Error())
		return m, components.ToastTickCmd()
	}
	opts := export.DefaultOptions(filepath.Join(dir, "exports"))
	path, err := export.ToFile(conv, export.NewMarkdownExporter(opts), opts)
	if err != nil {
		m.toasts.Error("export failed: " + err.Error())
		return m, components.ToastTickCmd()
	}
	m.toasts.Success("exported to " + path)
	return m, components.ToastTickCmd()
}

// =============================================================================
// PICKER KEYS (model picker, role list, code copy)
// =============================================================================

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.overlay = overlayNone
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.picker.moveUp()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.picker.moveDown()
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		return m.pickerChoose()
	}

	// Role list extras: add and delete.
	if m.overlay == overlayRoleList {
		switch msg.String() {
		case "a":
			m.openRoleEditor("")
			return m, textinput.Blink
		case "e":
			if it, ok := m.picker.choice(); ok && strings.HasPrefix(it.id, roles.CustomPrefix) {
				m.openRoleEditor(it.id)
				return m, textinput.Blink
			}
			m.toasts.Warning("built-in roles cannot be edited")
			return m, components.ToastTickCmd()
		case "d":
			if it, ok := m.picker.choice(); ok && strings.HasPrefix(it.id, roles.CustomPrefix) {
				m.confirm = confirmDeleteRole
				m.confirmID = it.id
				m.confirmText = "Delete role \"" + it.label + "\"?"
				m.overlay = overlayConfirm
				return m, nil
			}
			m.toasts.Warning("built-in roles cannot be deleted")
			return m, components.ToastTickCmd()
		}
	}
	return m, nil
}

func (m Model) pickerChoose() (tea.Model, tea.Cmd) {
	it, ok := m.picker.choice()
	if !ok {
		return m, nil
	}

	switch m.overlay {
	case overlayModelPicker:
		providerID, modelID, found := strings.Cut(it.id, "|")
		if !found {
			return m, nil
		}
		m.cfg.Provider = providerID
		m.cfg.Model = modelID
		m.cfg.Normalize()
		m.saveConfig()
		m.refreshStatus()
		m.overlay = overlayNone
		m.toasts.Success("model: " + it.label)
		return m, components.ToastTickCmd()

	case overlayRoleList:
		if err := m.roles.SetCurrent(it.id); err != nil {
			m.toasts.Error(err.Error())
			return m, components.ToastTickCmd()
		}
		m.refreshStatus()
		m.overlay = overlayNone
		m.toasts.Success("role: " + it.label)
		return m, components.ToastTickCmd()

	case overlayCodePicker:
		idx := m.picker.selected
		m.overlay = overlayNone
		if idx < 0 || idx >= len(m.codeBlocks) {
			return m, nil
		}
		block := m.codeBlocks[idx]
		return m, func() tea.Msg {
			return clipboardDoneMsg{err: block.Copy()}
		}
	}
	return m, nil
}

// =============================================================================
// SETTINGS KEYS
// =============================================================================

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Settings):
		m.overlay = overlayNone
		m.saveConfig()
		m.refreshStatus()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.settings.moveUp()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.settings.moveDown()
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		if m.settings.adjust(m.cfg, -1) {
			m.refreshStatus()
		}
		return m, nil
	case "right", "l", "enter":
		if m.settings.adjust(m.cfg, 1) {
			m.refreshStatus()
		}
		return m, nil
	case "k":
		if p, ok := m.settings.providerAt(m.settings.selected); ok {
			m.entryProvider = p.ID
			m.openEntry(entryAPIKey, "")
			return m, textinput.Blink
		}
		return m, nil
	}
	return m, nil
}

// =============================================================================
// TEXT ENTRY KEYS (rename, API key)
// =============================================================================

func (m *Model) openEntry(target entryTarget, initial string) {
	m.entry = textinput.New()
	m.entry.SetValue(initial)
	m.entry.Focus()
	m.entry.CharLimit = 256
	if target == entryAPIKey || target == entryImageAPIKey {
		m.entry.EchoMode = textinput.EchoPassword
		m.entry.Placeholder = "paste API key (empty clears)"
	} else {
		m.entry.Placeholder = "chat title"
	}
	m.entryFor = target
	m.overlay = overlayEntry
}

func (m Model) handleEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.overlay = overlayNone
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		value := strings.TrimSpace(m.entry.Value())
		switch m.entryFor {
		case entryRenameChat:
			if value != "" {
				if err := m.session.Rename(m.confirmID, value); err != nil {
					m.toasts.Error(err.Error())
				}
				m.refreshSidebar()
			}
			m.overlay = overlaySidebar

		case entryAPIKey:
			m.cfg.SetAPIKey(m.entryProvider, value)
			m.saveConfig()
			m.overlay = overlaySettings
			if value != "" {
				return m, tea.Batch(validateKey(m.entryProvider, value), components.ToastTickCmd())
			}

		case entryImageAPIKey:
			ps := m.cfg.ImageProviders[m.entryProvider]
			ps.APIKey = value
			m.cfg.ImageProviders[m.entryProvider] = ps
			m.saveConfig()
			m.overlay = overlaySettings
		}
		return m, components.ToastTickCmd()
	}

	var cmd tea.Cmd
	m.entry, cmd = m.entry.Update(msg)
	return m, cmd
}

// =============================================================================
// CONFIRM KEYS
// =============================================================================

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		return m.confirmYes()
	case "n", "esc":
		if m.confirm == confirmDeleteRole {
			m.overlay = overlayRoleList
		} else {
			m.overlay = overlaySidebar
		}
		return m, nil
	}
	return m, nil
}

func (m Model) confirmYes() (tea.Model, tea.Cmd) {
	switch m.confirm {
	case confirmDeleteChat:
		if err := m.session.Delete(m.confirmID); err != nil {
			m.toasts.Error(err.Error())
		}
		m.overlay = overlaySidebar

	case confirmClearAll:
		if err := m.session.ClearAll(); err != nil {
			m.toasts.Error(err.Error())
		}
		m.overlay = overlaySidebar

	case confirmDeleteRole:
		if err := m.roles.RemoveCustom(m.confirmID); err != nil {
			m.toasts.Error(err.Error())
		}
		m.refreshStatus()
		m.openRoleList()
	}
	m.refreshSidebar()
	m.syncViewport(false)
	return m, components.ToastTickCmd()
}

// =============================================================================
// ROLE EDITOR KEYS
// =============================================================================

func (m *Model) openRoleEditor(editID string) {
	var name, desc, prompt string
	if editID != "" {
		if r, ok := m.roles.Find(editID); ok {
			name, desc, prompt = r.Name, r.Description, r.Prompt
		}
	}
	fields := [3]textinput.Model{textinput.New(), textinput.New(), textinput.New()}
	fields[0].Placeholder, fields[0].CharLimit = "name", 40
	fields[1].Placeholder, fields[1].CharLimit = "description", 120
	fields[2].Placeholder, fields[2].CharLimit = "system prompt", 2000
	fields[0].SetValue(name)
	fields[1].SetValue(desc)
	fields[2].SetValue(prompt)
	fields[0].Focus()

	m.roleEdit = roleEditState{editingID: editID, fields: fields}
	m.overlay = overlayRoleEdit
}

func (m Model) handleRoleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.openRoleList()
		return m, nil

	case "tab", "shift+tab", "down", "up":
		dir := 1
		if msg.String() == "shift+tab" || msg.String() == "up" {
			dir = -1
		}
		m.roleEdit.fields[m.roleEdit.focus].Blur()
		m.roleEdit.focus = (m.roleEdit.focus + dir + 3) % 3
		m.roleEdit.fields[m.roleEdit.focus].Focus()
		return m, textinput.Blink

	case "enter":
		return m.saveRoleEdit()
	}

	var cmd tea.Cmd
	m.roleEdit.fields[m.roleEdit.focus], cmd = m.roleEdit.fields[m.roleEdit.focus].Update(msg)
	return m, cmd
}

func (m Model) saveRoleEdit() (tea.Model, tea.Cmd) {
	name := strings.TrimSpace(m.roleEdit.fields[0].Value())
	desc := strings.TrimSpace(m.roleEdit.fields[1].Value())
	prompt := strings.TrimSpace(m.roleEdit.fields[2].Value())
	if name == "" || prompt == "" {
		m.toasts.Warning("name and prompt are required")
		return m, components.ToastTickCmd()
	}

	if m.roleEdit.editingID == "" {
		if _, err := m.roles.AddCustom(name, "🤖", desc, prompt); err != nil {
			m.toasts.Error(err.Error())
			return m, components.ToastTickCmd()
		}
		m.toasts.Success("role added")
	} else {
		updated, _ := m.roles.Find(m.roleEdit.editingID)
		updated.Name, updated.Description, updated.Prompt = name, desc, prompt
		if err := m.roles.EditCustom(m.roleEdit.editingID, updated); err != nil {
			m.toasts.Error(err.Error())
			return m, components.ToastTickCmd()
		}
		m.toasts.Success("role updated")
	}
	m.openRoleList()
	return m, components.ToastTickCmd()
}

// =============================================================================
// OVERLAY BUILDERS
// =============================================================================

func (m *Model) openModelPicker() {
	var items []pickerItem
	for _, p := range m.cfg.EnabledTextProviders() {
		items = append(items, pickerItem{label: p.Name, dim: true})
		for _, mdl := range p.Models {
			items = append(items, pickerItem{
				id:    p.ID + "|" + mdl.ID,
				label: mdl.Label,
				desc:  mdl.ID,
			})
		}
	}
	if len(items) == 0 {
		m.toasts.Warning("no providers enabled, open settings (ctrl+s)")
		return
	}
	m.picker = newPicker(m.theme, "Model", items)
	m.picker.selectByID(m.cfg.Provider + "|" + m.cfg.Model)
	m.overlay = overlayModelPicker
}

func (m *Model) openRoleList() {
	current := m.roles.Current()
	var items []pickerItem
	for _, r := range m.roles.All() {
		label := r.Avatar + " " + r.Name
		if r.ID == current.ID {
			label += " ·"
		}
		items = append(items, pickerItem{id: r.ID, label: label, desc: r.Description})
	}
	m.picker = newPicker(m.theme, "Roles  (a add · e edit · d delete)", items)
	m.picker.selectByID(current.ID)
	m.overlay = overlayRoleList
}

func (m *Model) openCodePicker() {
	last := m.session.Conversation().LastMessage()
	if last == nil || last.Role != model.RoleAssistant {
		m.toasts.Status("no reply to copy from")
		return
	}
	m.codeBlocks = render.ExtractCodeBlocks(last.Content)
	if len(m.codeBlocks) == 0 {
		m.toasts.Status("no code blocks in the last reply")
		return
	}
	items := make([]pickerItem, len(m.codeBlocks))
	for i, b := range m.codeBlocks {
		items[i] = pickerItem{id: b.Language, label: b.Label(60)}
	}
	m.picker = newPicker(m.theme, "Copy code block", items)
	m.overlay = overlayCodePicker
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func (m Model) handleConfigReload(msg configReloadedMsg) (tea.Model, tea.Cmd) {
	if m.suppressWatcher {
		// Our own save coming back through the watcher.
		m.suppressWatcher = false
		return m, nil
	}
	themeChanged := msg.cfg.Theme != m.cfg.Theme
	*m.cfg = *msg.cfg
	if themeChanged {
		m.applyTheme()
	}
	m.refreshStatus()
	m.toasts.Status("settings reloaded")
	return m, components.ToastTickCmd()
}
