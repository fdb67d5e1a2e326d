// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider defines the built-in catalog of chat and image API
// providers: endpoints, header templates, and model lists. The catalog is
// immutable; per-user state (enabled flags, credentials, current
// selection) lives in the config layer.
package provider

import "strings"

// APIKeyPlaceholder is substituted in header templates at request time.
const APIKeyPlaceholder = "{API_KEY}"

// Model is one selectable model of a provider.
type Model struct {
	ID    string
	Label string
}

// Provider describes one upstream API.
type Provider struct {
	ID           string
	Name         string
	BaseURL      string
	Method       string // image providers only: "GET" or "POST"
	DefaultModel string
	Models       []Model
	Headers      map[string]string
	// RequiresKey marks providers that refuse requests without a
	// credential. Local and keyless providers leave it false.
	RequiresKey bool
}

// HasModel reports whether id is in the provider's catalog.
func (p *Provider) HasModel(id string) bool {
	for _, m := range p.Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ResolveModel returns requested if the provider carries it, otherwise
// the provider default. A selection saved under one provider never leaks
// into another provider's request.
func (p *Provider) ResolveModel(requested string) string {
	if requested != "" && p.HasModel(requested) {
		return requested
	}
	return p.DefaultModel
}

// ModelLabel returns the display label for a model id, falling back to
// the id itself.
func (p *Provider) ModelLabel(id string) string {
	for _, m := range p.Models {
		if m.ID == id {
			return m.Label
		}
	}
	return id
}

// RenderHeaders materializes the header templates with the given API key.
func (p *Provider) RenderHeaders(apiKey string) map[string]string {
	out := make(map[string]string, len(p.Headers))
	for k, v := range p.Headers {
		out[k] = strings.ReplaceAll(v, APIKeyPlaceholder, apiKey)
	}
	return out
}

// =============================================================================
// CATALOG LOOKUP
// =============================================================================

// Text returns the built-in text providers in display order.
func Text() []*Provider {
	return textProviders
}

// Image returns the built-in image providers in display order.
func Image() []*Provider {
	return imageProviders
}

// LookupText returns the text provider with the given id, or nil.
func LookupText(id string) *Provider {
	return textIndex[id]
}

// LookupImage returns the image provider with the given id, or nil.
func LookupImage(id string) *Provider {
	return imageIndex[id]
}

var (
	textIndex  = make(map[string]*Provider)
	imageIndex = make(map[string]*Provider)
)

func init() {
	for _, p := range textProviders {
		textIndex[p.ID] = p
	}
	for _, p := range imageProviders {
		imageIndex[p.ID] = p
	}
}
