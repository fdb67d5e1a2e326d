// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/jeranaias/nextai-tui/internal/config"
	"github.com/jeranaias/nextai-tui/internal/provider"
	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// settingRow identifies one adjustable row in the settings overlay.
type settingRow int

const (
	rowScenario settingRow = iota
	rowTemperature
	rowTopP
	rowContextPairs
	rowImageProvider
	rowImageModel
	rowImageWidth
	rowImageHeight
	rowImageSteps
	rowImageGuidance
	rowProvidersHeader
	// Provider rows follow dynamically.
)

// settingsState is the settings overlay: a flat list of rows where
// left/right adjusts values, enter toggles or opens a key entry.
type settingsState struct {
	selected  int
	rows      []settingRow
	providers []*provider.Provider // row index parallel after the header
}

func newSettingsState() settingsState {
	s := settingsState{
		rows: []settingRow{
			rowScenario, rowTemperature, rowTopP, rowContextPairs,
			rowImageProvider, rowImageModel,
			rowImageWidth, rowImageHeight, rowImageSteps, rowImageGuidance,
			rowProvidersHeader,
		},
		providers: provider.Text(),
	}
	return s
}

func (s *settingsState) rowCount() int {
	return len(s.rows) + len(s.providers)
}

func (s *settingsState) moveUp() {
	if s.selected > 0 {
		s.selected--
	}
	s.skipHeader(-1)
}

func (s *settingsState) moveDown() {
	if s.selected < s.rowCount()-1 {
		s.selected++
	}
	s.skipHeader(1)
}

func (s *settingsState) skipHeader(dir int) {
	if s.selected == int(rowProvidersHeader) && len(s.providers) > 0 {
		s.selected += dir
	}
	if s.selected < 0 {
		s.selected = 0
	}
	if s.selected >= s.rowCount() {
		s.selected = s.rowCount() - 1
	}
}

// providerAt returns the provider for a row index past the header.
func (s *settingsState) providerAt(idx int) (*provider.Provider, bool) {
	i := idx - len(s.rows)
	if i < 0 || i >= len(s.providers) {
		return nil, false
	}
	return s.providers[i], true
}

// adjust applies a left/right step to the selected row. It returns
// true when the config changed.
func (s *settingsState) adjust(cfg *config.Config, delta int) bool {
	if p, ok := s.providerAt(s.selected); ok {
		ps := cfg.Providers[p.ID]
		cfg.SetProviderEnabled(p.ID, !ps.Enabled)
		cfg.Normalize()
		return true
	}

	switch s.rows[s.selected] {
	case rowScenario:
		if cfg.Scenario == config.ScenarioChat {
			cfg.Scenario = config.ScenarioImage
		} else {
			cfg.Scenario = config.ScenarioChat
		}
	case rowTemperature:
		cfg.Temperature += 0.1 * float64(delta)
	case rowTopP:
		cfg.TopP += 0.05 * float64(delta)
	case rowContextPairs:
		cfg.ContextPairs += delta
	case rowImageProvider:
		cycleImageProvider(cfg, delta)
	case rowImageModel:
		cycleImageModel(cfg, delta)
	case rowImageWidth:
		cfg.Image.Width += 128 * delta
	case rowImageHeight:
		cfg.Image.Height += 128 * delta
	case rowImageSteps:
		cfg.Image.Steps += 5 * delta
	case rowImageGuidance:
		cfg.Image.GuidanceScale += 0.5 * float64(delta)
	default:
		return false
	}
	cfg.Normalize()
	return true
}

func cycleImageProvider(cfg *config.Config, delta int) {
	all := provider.Image()
	if len(all) == 0 {
		return
	}
	cur := 0
	for i, p := range all {
		if p.ID == cfg.ImageProvider {
			cur = i
			break
		}
	}
	next := all[(cur+delta+len(all))%len(all)]
	cfg.ImageProvider = next.ID
	cfg.ImageModel = next.DefaultModel
}

func cycleImageModel(cfg *config.Config, delta int) {
	p := provider.LookupImage(cfg.ImageProvider)
	if p == nil || len(p.Models) == 0 {
		return
	}
	cur := 0
	for i, mdl := range p.Models {
		if mdl.ID == cfg.ImageModel {
			cur = i
			break
		}
	}
	cfg.ImageModel = p.Models[(cur+delta+len(p.Models))%len(p.Models)].ID
}

// view renders the settings overlay.
func (s *settingsState) view(theme *styles.Theme, cfg *config.Config, maxWidth int) string {
	var b strings.Builder
	b.WriteString(theme.PickerTitle.Render("Settings"))
	b.WriteString("\n\n")

	line := func(idx int, label, value string) {
		row := theme.SettingLabel.Render(label) + theme.SettingValue.Render(value)
		if idx == s.selected {
			row = theme.PickerItemSelected.Render(row)
		} else {
			row = theme.PickerItem.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	for i, r := range s.rows {
		switch r {
		case rowScenario:
			line(i, "Mode", cfg.Scenario)
		case rowTemperature:
			line(i, "Temperature", fmt.Sprintf("%.1f", cfg.Temperature))
		case rowTopP:
			line(i, "Top-p", fmt.Sprintf("%.2f", cfg.TopP))
		case rowContextPairs:
			line(i, "Context pairs", fmt.Sprintf("%d", cfg.ContextPairs))
		case rowImageProvider:
			line(i, "Image provider", cfg.ImageProvider)
		case rowImageModel:
			line(i, "Image model", cfg.ImageModel)
		case rowImageWidth:
			line(i, "Image width", fmt.Sprintf("%d", cfg.Image.Width))
		case rowImageHeight:
			line(i, "Image height", fmt.Sprintf("%d", cfg.Image.Height))
		case rowImageSteps:
			line(i, "Steps", fmt.Sprintf("%d", cfg.Image.Steps))
		case rowImageGuidance:
			line(i, "Guidance", fmt.Sprintf("%.1f", cfg.Image.GuidanceScale))
		case rowProvidersHeader:
			b.WriteString("\n")
			b.WriteString(theme.PickerTitle.Render("Providers"))
			b.WriteString("  ")
			b.WriteString(theme.Help.Render("enter toggles · k sets key"))
			b.WriteString("\n")
		}
	}

	for i, p := range s.providers {
		idx := len(s.rows) + i
		mark := "[ ]"
		if ps, ok := cfg.Providers[p.ID]; ok && ps.Enabled {
			mark = "[x]"
		}
		keyState := ""
		if p.RequiresKey {
			if cfg.APIKey(p.ID) == "" {
				keyState = theme.ErrorText.Render(" key missing")
			} else {
				keyState = theme.Help.Render(" key set")
			}
		}
		row := mark + " " + p.Name + keyState
		if idx == s.selected {
			row = theme.PickerItemSelected.Render(row)
		} else {
			row = theme.PickerItem.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Help.Render("←/→ adjust · esc close"))
	return theme.PickerBox.MaxWidth(maxWidth).Render(b.String())
}
