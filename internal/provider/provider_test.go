// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"strings"
	"testing"
)

func TestCatalogDefaultModelsExist(t *testing.T) {
	for _, p := range append(Text(), Image()...) {
		if !p.HasModel(p.DefaultModel) {
			t.Errorf("%s: default model %q not in catalog", p.ID, p.DefaultModel)
		}
	}
}

func TestResolveModelFallsBackToDefault(t *testing.T) {
	p := LookupText("openai")
	if p == nil {
		t.Fatal("openai provider missing")
	}
	if got := p.ResolveModel("gpt-4"); got != "gpt-4" {
		t.Errorf("known model should resolve to itself, got %q", got)
	}
	// A model from another provider must reset to the default.
	if got := p.ResolveModel("claude-3-opus-20240229"); got != p.DefaultModel {
		t.Errorf("foreign model resolved to %q, want default %q", got, p.DefaultModel)
	}
	if got := p.ResolveModel(""); got != p.DefaultModel {
		t.Errorf("empty selection resolved to %q, want default", got)
	}
}

func TestRenderHeadersSubstitutesKey(t *testing.T) {
	p := LookupText("anthropic")
	headers := p.RenderHeaders("sk-test")
	if headers["x-api-key"] != "sk-test" {
		t.Errorf("x-api-key = %q, want substituted key", headers["x-api-key"])
	}
	if headers["anthropic-version"] != "2023-06-01" {
		t.Errorf("static header mangled: %q", headers["anthropic-version"])
	}
	// Templates themselves must stay untouched.
	if !strings.Contains(p.Headers["x-api-key"], APIKeyPlaceholder) {
		t.Error("RenderHeaders mutated the catalog template")
	}
}

func TestLookupUnknownProvider(t *testing.T) {
	if LookupText("nope") != nil {
		t.Error("unknown text provider should be nil")
	}
	if LookupImage("openai") != nil {
		t.Error("text provider id must not resolve in the image catalog")
	}
}

func TestImageProviderMethods(t *testing.T) {
	if p := LookupImage("pollinations_image"); p.Method != "GET" {
		t.Errorf("pollinations_image method = %q, want GET", p.Method)
	}
	if p := LookupImage("openai_dalle"); p.Method != "POST" {
		t.Errorf("openai_dalle method = %q, want POST", p.Method)
	}
}
