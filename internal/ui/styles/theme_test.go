// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestNewThemeInitializesStyles(t *testing.T) {
	th := NewTheme(true)
	if !th.IsDark {
		t.Error("forceDark not recorded")
	}
	// Spot-check a few styles actually got configured.
	if !th.HeaderTitle.GetBold() {
		t.Error("HeaderTitle should be bold")
	}
	if !th.SessionItemSelected.GetBold() {
		t.Error("SessionItemSelected should be bold")
	}
	if th.InputPlaceholder.GetItalic() != true {
		t.Error("InputPlaceholder should be italic")
	}
}

func TestNewThemeLight(t *testing.T) {
	th := NewTheme(false)
	if th.IsDark {
		t.Error("light theme reported dark")
	}
}
