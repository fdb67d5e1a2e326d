// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jeranaias/nextai-tui/internal/secret"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Temperature != 0.7 || cfg.TopP != 1.0 || cfg.ContextPairs != 10 {
		t.Errorf("defaults wrong: %+v", cfg)
	}
	// Pollinations ships enabled, so the selection resolves to it.
	if cfg.Provider != "pollinations" {
		t.Errorf("default provider = %q, want pollinations", cfg.Provider)
	}
	if cfg.Model != "deepseek-reasoning" {
		t.Errorf("default model = %q", cfg.Model)
	}
}

func TestNormalizeClampsRanges(t *testing.T) {
	cfg := Default()
	cfg.Temperature = 5.0
	cfg.TopP = -1
	cfg.ContextPairs = 99
	cfg.Normalize()

	if cfg.Temperature != 2.0 {
		t.Errorf("temperature = %v, want 2.0", cfg.Temperature)
	}
	if cfg.TopP != 0 {
		t.Errorf("top_p = %v, want 0", cfg.TopP)
	}
	if cfg.ContextPairs != 25 {
		t.Errorf("context_pairs = %v, want 25", cfg.ContextPairs)
	}
}

func TestNormalizeResetsForeignModel(t *testing.T) {
	cfg := Default()
	cfg.Provider = "openai"
	cfg.Model = "claude-3-opus-20240229"
	cfg.Normalize()
	if cfg.Model != "gpt-4-turbo-preview" {
		t.Errorf("model = %q, want provider default", cfg.Model)
	}
}

func TestNormalizeUnknownProviderFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Provider = "definitely-not-real"
	cfg.Normalize()
	if cfg.Provider != "pollinations" {
		t.Errorf("provider = %q, want first enabled", cfg.Provider)
	}
}

func TestSaveLoadRoundTripEncryptsKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	vault, err := secret.Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.SetProviderEnabled("openai", true)
	cfg.SetAPIKey("openai", "sk-plaintext-key")
	if err := Save(cfg, path, vault); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// The file on disk must never contain the plaintext key.
	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "sk-plaintext-key") {
		t.Error("plaintext API key written to disk")
	}
	if !strings.Contains(string(raw), secret.EncryptedPrefix) {
		t.Error("stored key missing ENC: prefix")
	}

	loaded, err := Load(path, vault)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.APIKey("openai") != "sk-plaintext-key" {
		t.Errorf("decrypted key = %q", loaded.APIKey("openai"))
	}
	// Saving must not mutate the in-memory config's plaintext key.
	if cfg.APIKey("openai") != "sk-plaintext-key" {
		t.Errorf("Save mutated in-memory key: %q", cfg.APIKey("openai"))
	}
}

func TestEnabledTextProvidersOrder(t *testing.T) {
	cfg := Default()
	cfg.SetProviderEnabled("openai", true)
	enabled := cfg.EnabledTextProviders()
	if len(enabled) != 2 {
		t.Fatalf("enabled count = %d, want 2", len(enabled))
	}
	// Catalog display order: openai before pollinations.
	if enabled[0].ID != "openai" || enabled[1].ID != "pollinations" {
		t.Errorf("order = %s, %s", enabled[0].ID, enabled[1].ID)
	}
}
