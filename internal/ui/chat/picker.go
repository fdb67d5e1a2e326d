// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/jeranaias/nextai-tui/internal/ui/styles"
	"github.com/jeranaias/nextai-tui/internal/util"
)

// pickerItem is one row in a list overlay.
type pickerItem struct {
	id    string
	label string
	desc  string
	dim   bool // not selectable (section header, disabled provider)
}

// picker is the shared list overlay behind the model picker, the chat
// action menu, and the role manager list.
type picker struct {
	theme    *styles.Theme
	title    string
	items    []pickerItem
	selected int
}

func newPicker(theme *styles.Theme, title string, items []pickerItem) picker {
	p := picker{theme: theme, title: title, items: items}
	p.clampToSelectable(1)
	return p
}

// selectByID moves the highlight to the item with the given id.
func (p *picker) selectByID(id string) {
	for i, it := range p.items {
		if it.id == id && !it.dim {
			p.selected = i
			return
		}
	}
}

func (p *picker) moveUp() {
	p.selected--
	p.clampToSelectable(-1)
}

func (p *picker) moveDown() {
	p.selected++
	p.clampToSelectable(1)
}

// clampToSelectable skips dim rows in the given direction and clamps
// at the list edges.
func (p *picker) clampToSelectable(dir int) {
	if len(p.items) == 0 {
		p.selected = 0
		return
	}
	if p.selected < 0 {
		p.selected = 0
		dir = 1
	}
	if p.selected >= len(p.items) {
		p.selected = len(p.items) - 1
		dir = -1
	}
	for p.selected >= 0 && p.selected < len(p.items) && p.items[p.selected].dim {
		p.selected += dir
	}
	if p.selected < 0 || p.selected >= len(p.items) {
		// All rows dim; park on the first.
		p.selected = 0
	}
}

// choice returns the highlighted selectable item.
func (p *picker) choice() (pickerItem, bool) {
	if p.selected < 0 || p.selected >= len(p.items) || p.items[p.selected].dim {
		return pickerItem{}, false
	}
	return p.items[p.selected], true
}

// view renders the overlay box.
func (p *picker) view(maxWidth, maxRows int) string {
	var b strings.Builder
	b.WriteString(p.theme.PickerTitle.Render(p.title))
	b.WriteString("\n\n")

	inner := maxWidth - 6
	if inner < 16 {
		inner = 16
	}

	items := p.items
	offset := 0
	if maxRows > 0 && len(items) > maxRows {
		offset = p.selected - maxRows/2
		if offset < 0 {
			offset = 0
		}
		if offset+maxRows > len(items) {
			offset = len(items) - maxRows
		}
		items = items[offset : offset+maxRows]
	}

	for i, it := range items {
		line := it.label
		if it.desc != "" {
			line += "  " + p.theme.Help.Render(it.desc)
		}
		line = util.TruncateWidth(line, inner)
		switch {
		case it.dim:
			b.WriteString(p.theme.PickerItemDim.Render(line))
		case offset+i == p.selected:
			b.WriteString(p.theme.PickerItemSelected.Render(line))
		default:
			b.WriteString(p.theme.PickerItem.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.theme.Help.Render("↑/↓ move · enter select · esc close"))
	return p.theme.PickerBox.MaxWidth(maxWidth).Render(b.String())
}
