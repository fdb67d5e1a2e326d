// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	"github.com/jeranaias/nextai-tui/internal/config"
	"github.com/jeranaias/nextai-tui/internal/roles"
	"github.com/jeranaias/nextai-tui/internal/storage"
	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// =============================================================================
// FRAME SCHEDULER
// =============================================================================

func TestSchedulerCoalescesRequests(t *testing.T) {
	var s frameScheduler

	if cmd := s.request(); cmd == nil {
		t.Fatal("first request should arm a tick")
	}
	if !s.pending() {
		t.Fatal("scheduler should report pending after arming")
	}
	for i := 0; i < 10; i++ {
		if cmd := s.request(); cmd != nil {
			t.Fatalf("request %d while armed should be absorbed", i)
		}
	}

	s.fired()
	if s.pending() {
		t.Fatal("fired should clear the pending tick")
	}
	if cmd := s.request(); cmd == nil {
		t.Fatal("request after firing should arm again")
	}
}

// =============================================================================
// MENTION TRIGGER
// =============================================================================

func TestMentionTrigger(t *testing.T) {
	tests := []struct {
		text      string
		wantOK    bool
		wantQuery string
		wantStart int
	}{
		{"@", true, "", 0},
		{"@cod", true, "cod", 0},
		{"hello @tea", true, "tea", 6},
		{"line one\n@w", true, "w", 9},
		{"email@example.com", false, "", 0},
		{"no mention here", false, "", 0},
		{"@done already", false, "", 0},
		{"", false, "", 0},
	}
	for _, tt := range tests {
		start, query, ok := mentionTrigger(tt.text)
		if ok != tt.wantOK {
			t.Errorf("mentionTrigger(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if query != tt.wantQuery || start != tt.wantStart {
			t.Errorf("mentionTrigger(%q) = (%d, %q), want (%d, %q)",
				tt.text, start, query, tt.wantStart, tt.wantQuery)
		}
	}
}

func newTestRoles(t *testing.T) *roles.Manager {
	t.Helper()
	kv, err := storage.OpenKV(t.TempDir())
	if err != nil {
		t.Fatalf("OpenKV: %v", err)
	}
	mgr, err := roles.NewManager(kv)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return mgr
}

func TestMentionStateRefresh(t *testing.T) {
	mgr := newTestRoles(t)
	var ms mentionState

	ms.refresh("hello @", mgr)
	if !ms.active {
		t.Fatal("bare @ should open the popup")
	}
	if len(ms.items) == 0 {
		t.Fatal("bare @ should list all roles")
	}

	ms.refresh("hello @zzz-no-such-role", mgr)
	if ms.active {
		t.Fatal("popup should close when nothing matches")
	}

	ms.refresh("plain text", mgr)
	if ms.active {
		t.Fatal("popup should stay closed without a trigger")
	}
}

func TestMentionApplyTrimsQuery(t *testing.T) {
	mgr := newTestRoles(t)
	var ms mentionState

	ms.refresh("explain this @cod", mgr)
	if !ms.active {
		t.Skip("no role matches 'cod' in the built-in set")
	}
	got := ms.apply("explain this @cod")
	if got != "explain this" {
		t.Errorf("apply = %q, want %q", got, "explain this")
	}
}

// =============================================================================
// PICKER
// =============================================================================

func pickerForTest(items []pickerItem) picker {
	return newPicker(styles.NewTheme(true), "test", items)
}

func TestPickerSkipsDimRows(t *testing.T) {
	p := pickerForTest([]pickerItem{
		{id: "h1", label: "Header", dim: true},
		{id: "a", label: "A"},
		{id: "b", label: "B"},
		{id: "h2", label: "Header 2", dim: true},
		{id: "c", label: "C"},
	})

	// Initial position lands on the first selectable row.
	if it, ok := p.choice(); !ok || it.id != "a" {
		t.Fatalf("initial choice = %+v, %v; want a", it, ok)
	}

	p.moveDown()
	if it, _ := p.choice(); it.id != "b" {
		t.Errorf("after down, choice = %q, want b", it.id)
	}
	p.moveDown() // skips the second header
	if it, _ := p.choice(); it.id != "c" {
		t.Errorf("after second down, choice = %q, want c", it.id)
	}
	p.moveDown() // at the end, stays
	if it, _ := p.choice(); it.id != "c" {
		t.Errorf("down at end moved to %q, want c", it.id)
	}
	p.moveUp()
	if it, _ := p.choice(); it.id != "b" {
		t.Errorf("after up, choice = %q, want b", it.id)
	}
}

func TestPickerSelectByID(t *testing.T) {
	p := pickerForTest([]pickerItem{
		{id: "a", label: "A"},
		{id: "b", label: "B"},
		{id: "c", label: "C"},
	})
	p.selectByID("c")
	if it, _ := p.choice(); it.id != "c" {
		t.Errorf("selectByID landed on %q, want c", it.id)
	}
	p.selectByID("nope")
	if it, _ := p.choice(); it.id != "c" {
		t.Errorf("unknown id moved the selection to %q", it.id)
	}
}

// =============================================================================
// SETTINGS
// =============================================================================

func TestSettingsAdjustClamps(t *testing.T) {
	cfg := config.Default()
	cfg.Normalize()
	s := newSettingsState()

	// Temperature is clamped at 2.0.
	s.selected = int(rowTemperature)
	for i := 0; i < 40; i++ {
		s.adjust(cfg, 1)
	}
	if cfg.Temperature > 2.0 {
		t.Errorf("temperature exceeded clamp: %v", cfg.Temperature)
	}

	// Context pairs never go below zero.
	s.selected = int(rowContextPairs)
	for i := 0; i < 40; i++ {
		s.adjust(cfg, -1)
	}
	if cfg.ContextPairs != 0 {
		t.Errorf("context pairs = %d, want 0", cfg.ContextPairs)
	}
}

func TestSettingsScenarioToggle(t *testing.T) {
	cfg := config.Default()
	cfg.Normalize()
	s := newSettingsState()
	s.selected = int(rowScenario)

	s.adjust(cfg, 1)
	if cfg.Scenario != config.ScenarioImage {
		t.Fatalf("scenario = %q, want image", cfg.Scenario)
	}
	s.adjust(cfg, 1)
	if cfg.Scenario != config.ScenarioChat {
		t.Fatalf("scenario = %q, want chat", cfg.Scenario)
	}
}

func TestSettingsProviderToggle(t *testing.T) {
	cfg := config.Default()
	cfg.Normalize()
	s := newSettingsState()
	if len(s.providers) == 0 {
		t.Fatal("settings should list the provider catalog")
	}

	s.selected = len(s.rows) // first provider row
	p, ok := s.providerAt(s.selected)
	if !ok {
		t.Fatal("providerAt should resolve the first provider row")
	}
	before := cfg.Providers[p.ID].Enabled
	s.adjust(cfg, 1)
	if cfg.Providers[p.ID].Enabled == before {
		t.Error("adjust on a provider row should toggle enabled")
	}
}

// =============================================================================
// TYPEWRITER
// =============================================================================

func TestTypewriterNeverSplitsRunes(t *testing.T) {
	m := &Model{}
	text := "héllo wörld ⣾⣽⣻ 日本語のテキスト"
	m.typeFull = text
	m.typeShown = 0

	var prev string
	for {
		done := m.advanceTypewriter()
		shown := m.typewriterText()
		if len(shown) < len(prev) {
			t.Fatal("typewriter went backwards")
		}
		for _, r := range shown {
			if r == 0xFFFD {
				t.Fatalf("revealed text contains a split rune: %q", shown)
			}
		}
		prev = shown
		if done {
			break
		}
	}
	if prev != text {
		t.Errorf("final text = %q, want the full input", prev)
	}
}

func TestTypewriterEmptyText(t *testing.T) {
	m := &Model{}
	m.typeFull = ""
	if !m.advanceTypewriter() {
		t.Error("empty text should be done immediately")
	}
}
