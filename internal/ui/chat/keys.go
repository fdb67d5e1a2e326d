// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the global keyboard shortcuts.
type keyMap struct {
	Send       key.Binding
	Stop       key.Binding
	NewChat    key.Binding
	Sidebar    key.Binding
	ModelPick  key.Binding
	Roles      key.Binding
	Settings   key.Binding
	Theme      key.Binding
	Regenerate key.Binding
	CopyCode   key.Binding
	Quit       key.Binding

	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Escape key.Binding
	Delete key.Binding
	Rename key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Send:       key.NewBinding(key.WithKeys("enter")),
		Stop:       key.NewBinding(key.WithKeys("ctrl+x")),
		NewChat:    key.NewBinding(key.WithKeys("ctrl+n")),
		Sidebar:    key.NewBinding(key.WithKeys("ctrl+b")),
		ModelPick:  key.NewBinding(key.WithKeys("ctrl+p")),
		Roles:      key.NewBinding(key.WithKeys("ctrl+r")),
		Settings:   key.NewBinding(key.WithKeys("ctrl+s")),
		Theme:      key.NewBinding(key.WithKeys("ctrl+t")),
		Regenerate: key.NewBinding(key.WithKeys("ctrl+g")),
		CopyCode:   key.NewBinding(key.WithKeys("ctrl+y")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c")),

		Up:     key.NewBinding(key.WithKeys("up", "ctrl+k")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+j")),
		Enter:  key.NewBinding(key.WithKeys("enter")),
		Escape: key.NewBinding(key.WithKeys("esc")),
		Delete: key.NewBinding(key.WithKeys("delete", "ctrl+d")),
		Rename: key.NewBinding(key.WithKeys("f2")),
	}
}
