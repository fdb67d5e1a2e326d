// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package roles manages the persona registry: built-in immutable roles
// plus user-defined custom roles. The current role's prompt becomes the
// system message of every chat request.
package roles

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/nextai-tui/internal/storage"
)

// CustomPrefix marks user-created roles. Only roles with this prefix can
// be edited or removed.
const CustomPrefix = "custom_"

// DefaultRoleID is the fallback when no role is selected or the selected
// role disappears.
const DefaultRoleID = "assistant"

var (
	// ErrRoleNotFound is returned for unknown role ids.
	ErrRoleNotFound = errors.New("role not found")
	// ErrBuiltinImmutable is returned when editing or removing a
	// built-in role.
	ErrBuiltinImmutable = errors.New("built-in roles cannot be modified")
)

// Role is one persona: an avatar glyph, a short description for pickers,
// and the system prompt it injects.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// IsCustom reports whether the role is user-defined.
func (r Role) IsCustom() bool {
	return strings.HasPrefix(r.ID, CustomPrefix)
}

// =============================================================================
// BUILT-IN ROLES
// =============================================================================

var builtin = []Role{
	{
		ID:          "assistant",
		Name:        "Assistant",
		Avatar:      "🤖",
		Description: "General-purpose assistant for questions, advice, and everyday tasks.",
		Prompt:      "You are a friendly, professional AI assistant. Answer questions in clear, concise language and offer useful information and suggestions.",
	},
	{
		ID:          "programmer",
		Name:        "Programmer",
		Avatar:      "👨‍💻",
		Description: "Expert programmer for code problems, algorithms, and learning new technology.",
		Prompt:      "You are an experienced software engineer fluent in many languages and frameworks. Provide clear code examples and best-practice advice, explain technical concepts, and weigh readability, performance, and security in your answers.",
	},
	{
		ID:          "writer",
		Name:        "Writer",
		Avatar:      "✍️",
		Description: "Writing assistant for drafting, editing, proofreading, and style advice.",
		Prompt:      "You are a professional writing assistant skilled across genres. Help users improve structure, polish phrasing, fix grammar, and develop creative ideas, with attention to logic, readability, and engagement.",
	},
	{
		ID:          "teacher",
		Name:        "Teacher",
		Avatar:      "👨‍🏫",
		Description: "Patient tutor who explains difficult concepts and plans study paths.",
		Prompt:      "You are a patient, professional tutor. Explain complex concepts in plain language, suggest step-by-step study plans, adapt to the learner's level, and encourage independent thinking.",
	},
	{
		ID:          "translator",
		Name:        "Translator",
		Avatar:      "🌐",
		Description: "Multilingual translator producing accurate, natural renderings.",
		Prompt:      "You are a professional translator fluent in many languages. Produce accurate, natural translations that fit the target language's conventions, consider context and culture, and offer alternatives with explanations where useful.",
	},
	{
		ID:          "analyst",
		Name:        "Data Analyst",
		Avatar:      "📊",
		Description: "Data analyst for statistics, analysis methods, and business insight.",
		Prompt:      "You are a professional data analyst skilled in data processing, statistics, and visualization. Give clear interpretations, valuable business insight, and recommend suitable methods and tools, with care for accuracy and the reliability of conclusions.",
	},
	{
		ID:          "designer",
		Name:        "Design Consultant",
		Avatar:      "🎨",
		Description: "Creative consultant for UI/UX, visual design, and trends.",
		Prompt:      "You are a creative design consultant versed in UI/UX, visual design, and user experience. Offer practical advice and innovative solutions, balancing aesthetics with usability, and share current trends and best practice.",
	},
	{
		ID:          "consultant",
		Name:        "Business Consultant",
		Avatar:      "💼",
		Description: "Business consultant for strategy, market analysis, and decisions.",
		Prompt:      "You are a seasoned business consultant strong in strategy, market analysis, and operations. Provide professional advice, market insight, and actionable solutions that account for trends, competition, and risk.",
	},
	{
		ID:          "psychologist",
		Name:        "Counselor",
		Avatar:      "🧠",
		Description: "Supportive counselor for emotions, mental wellbeing, and stress.",
		Prompt:      "You are a professional, empathetic counselor. Offer warm emotional support and sound mental-health guidance, help users manage feelings and stress, and stay patient, understanding, and non-judgmental.",
	},
	{
		ID:          "scientist",
		Name:        "Researcher",
		Avatar:      "🔬",
		Description: "Rigorous researcher for scientific explanation and methodology.",
		Prompt:      "You are a rigorous researcher with deep scientific knowledge. Give accurate explanations and sensible methodology advice grounded in evidence, keep an objective scientific stance, and distinguish fact from hypothesis.",
	},
}

// Builtin returns the built-in role set in display order.
func Builtin() []Role {
	out := make([]Role, len(builtin))
	copy(out, builtin)
	return out
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager holds the custom role list and the current selection, both
// persisted through the KV store.
type Manager struct {
	kv        *storage.KV
	custom    []Role
	currentID string
}

// NewManager loads persisted state. Unknown or missing current ids fall
// back to the default role.
func NewManager(kv *storage.KV) (*Manager, error) {
	m := &Manager{kv: kv, currentID: DefaultRoleID}
	if _, err := kv.Get(storage.KeyCustomRoles, &m.custom); err != nil {
		return nil, err
	}
	var id string
	if _, err := kv.Get(storage.KeyCurrentRole, &id); err != nil {
		return nil, err
	}
	if _, ok := m.find(id); ok {
		m.currentID = id
	}
	return m, nil
}

// All returns built-in roles followed by custom roles.
func (m *Manager) All() []Role {
	return append(Builtin(), m.custom...)
}

// List returns roles matching the filter, preserving display order. A
// nil filter returns everything.
func (m *Manager) List(filter func(Role) bool) []Role {
	all := m.All()
	if filter == nil {
		return all
	}
	out := make([]Role, 0, len(all))
	for _, r := range all {
		if filter(r) {
			out = append(out, r)
		}
	}
	return out
}

// Search filters roles by a case-insensitive match on name or
// description. An empty query returns everything.
func (m *Manager) Search(query string) []Role {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return m.All()
	}
	return m.List(func(r Role) bool {
		return strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Description), q)
	})
}

func (m *Manager) find(id string) (Role, bool) {
	for _, r := range m.All() {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// Find returns a role by id.
func (m *Manager) Find(id string) (Role, bool) {
	return m.find(id)
}

// Current returns the selected role.
func (m *Manager) Current() Role {
	if r, ok := m.find(m.currentID); ok {
		return r
	}
	r, _ := m.find(DefaultRoleID)
	return r
}

// CurrentPrompt returns the system prompt of the selected role.
func (m *Manager) CurrentPrompt() string {
	return m.Current().Prompt
}

// SetCurrent selects and persists the current role.
func (m *Manager) SetCurrent(id string) error {
	if _, ok := m.find(id); !ok {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, id)
	}
	m.currentID = id
	return m.kv.Put(storage.KeyCurrentRole, id)
}

// AddCustom creates a custom role and persists the custom list.
func (m *Manager) AddCustom(name, avatar, description, prompt string) (Role, error) {
	role := Role{
		ID:          fmt.Sprintf("%s%d", CustomPrefix, time.Now().UnixMilli()),
		Name:        name,
		Avatar:      avatar,
		Description: description,
		Prompt:      prompt,
	}
	m.custom = append(m.custom, role)
	if err := m.kv.Put(storage.KeyCustomRoles, m.custom); err != nil {
		return Role{}, err
	}
	return role, nil
}

// EditCustom updates a custom role in place.
func (m *Manager) EditCustom(id string, updated Role) error {
	if !strings.HasPrefix(id, CustomPrefix) {
		return ErrBuiltinImmutable
	}
	for i := range m.custom {
		if m.custom[i].ID == id {
			updated.ID = id
			m.custom[i] = updated
			return m.kv.Put(storage.KeyCustomRoles, m.custom)
		}
	}
	return fmt.Errorf("%w: %s", ErrRoleNotFound, id)
}

// RemoveCustom deletes a custom role. When the deleted role was current,
// the selection resets to the default role.
func (m *Manager) RemoveCustom(id string) error {
	if !strings.HasPrefix(id, CustomPrefix) {
		return ErrBuiltinImmutable
	}
	out := m.custom[:0]
	found := false
	for _, r := range m.custom {
		if r.ID == id {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, id)
	}
	m.custom = out
	if err := m.kv.Put(storage.KeyCustomRoles, m.custom); err != nil {
		return err
	}
	if m.currentID == id {
		return m.SetCurrent(DefaultRoleID)
	}
	return nil
}
