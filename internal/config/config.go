// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for NextAI.
//
// Configuration lives at ~/.nextai/config.toml with sensible defaults and
// clamped validation. API credentials are stored encrypted (ENC: prefix)
// and decrypted through the secret vault on load.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/nextai-tui/internal/provider"
	"github.com/jeranaias/nextai-tui/internal/secret"
	"github.com/jeranaias/nextai-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Scenario selects which kind of generation the composer drives.
const (
	ScenarioChat  = "chat"
	ScenarioImage = "image"
)

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config is the complete persisted NextAI configuration.
type Config struct {
	// Text generation selection.
	Provider string `toml:"provider"`
	Model    string `toml:"model"`

	// Image generation selection.
	ImageProvider string `toml:"image_provider"`
	ImageModel    string `toml:"image_model"`

	// Sampling knobs sent with every chat request.
	Temperature float64 `toml:"temperature"`
	TopP        float64 `toml:"top_p"`
	// ContextPairs is how many (user, assistant) pairs of history are
	// sent with a request. 0 sends no history.
	ContextPairs int `toml:"context_pairs"`
	MaxTokens    int `toml:"max_tokens"`

	// UI state.
	Theme            string `toml:"theme"`
	SidebarCollapsed bool   `toml:"sidebar_collapsed"`
	Scenario         string `toml:"scenario"`

	// Image generation parameters.
	Image ImageConfig `toml:"image"`

	// Per-provider user state, keyed by provider id.
	Providers      map[string]ProviderSettings `toml:"providers"`
	ImageProviders map[string]ProviderSettings `toml:"image_providers"`
}

// ProviderSettings is the per-user state of one provider.
type ProviderSettings struct {
	Enabled bool   `toml:"enabled"`
	APIKey  string `toml:"api_key,omitempty"`
}

// ImageConfig holds image generation parameters.
type ImageConfig struct {
	Width         int     `toml:"width"`
	Height        int     `toml:"height"`
	Steps         int     `toml:"steps"`
	GuidanceScale float64 `toml:"guidance_scale"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration. Pollinations ships enabled
// so a fresh install can chat without entering a key.
func Default() *Config {
	return &Config{
		Temperature:  0.7,
		TopP:         1.0,
		ContextPairs: 10,
		MaxTokens:    2048,
		Theme:        ThemeDark,
		Scenario:     ScenarioChat,
		Image: ImageConfig{
			Width:         1024,
			Height:        1024,
			Steps:         20,
			GuidanceScale: 7.5,
		},
		Providers: map[string]ProviderSettings{
			"pollinations": {Enabled: true},
		},
		ImageProviders: map[string]ProviderSettings{
			"pollinations_image": {Enabled: true},
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the NextAI data directory (~/.nextai), creating it lazily
// is the caller's concern.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".nextai"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, applies defaults and clamps, and decrypts
// stored credentials through the vault. A missing file yields defaults.
func Load(path string, vault *secret.Vault) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.Normalize()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Normalize()

	if vault != nil {
		if err := cfg.decryptKeys(vault); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Save normalizes, encrypts credentials, and writes the config
// atomically with 0600 permissions.
func Save(cfg *Config, path string, vault *secret.Vault) error {
	cfg.Normalize()

	out := cfg.clone()
	if vault != nil {
		if err := out.encryptKeys(vault); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) clone() *Config {
	out := *c
	out.Providers = make(map[string]ProviderSettings, len(c.Providers))
	for k, v := range c.Providers {
		out.Providers[k] = v
	}
	out.ImageProviders = make(map[string]ProviderSettings, len(c.ImageProviders))
	for k, v := range c.ImageProviders {
		out.ImageProviders[k] = v
	}
	return &out
}

func (c *Config) encryptKeys(vault *secret.Vault) error {
	for id, ps := range c.Providers {
		enc, err := vault.EncryptString(ps.APIKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt key for %s: %w", id, err)
		}
		ps.APIKey = enc
		c.Providers[id] = ps
	}
	for id, ps := range c.ImageProviders {
		enc, err := vault.EncryptString(ps.APIKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt key for %s: %w", id, err)
		}
		ps.APIKey = enc
		c.ImageProviders[id] = ps
	}
	return nil
}

func (c *Config) decryptKeys(vault *secret.Vault) error {
	for id, ps := range c.Providers {
		plain, err := vault.DecryptString(ps.APIKey)
		if err != nil {
			return fmt.Errorf("failed to decrypt key for %s: %w", id, err)
		}
		ps.APIKey = plain
		c.Providers[id] = ps
	}
	for id, ps := range c.ImageProviders {
		plain, err := vault.DecryptString(ps.APIKey)
		if err != nil {
			return fmt.Errorf("failed to decrypt key for %s: %w", id, err)
		}
		ps.APIKey = plain
		c.ImageProviders[id] = ps
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// Normalize clamps out-of-range values and resolves the provider/model
// selection against the catalog. It never errors: a broken config file
// degrades to usable defaults rather than refusing to start.
func (c *Config) Normalize() {
	c.Temperature = clampFloat(c.Temperature, 0, 2)
	c.TopP = clampFloat(c.TopP, 0, 1)
	c.ContextPairs = clampInt(c.ContextPairs, 0, 25)
	if c.MaxTokens <= 0 {
		c.MaxTokens = 2048
	}
	if c.Theme != ThemeLight {
		c.Theme = ThemeDark
	}
	if c.Scenario != ScenarioImage {
		c.Scenario = ScenarioChat
	}

	c.Image.Width = clampInt(c.Image.Width, 1, 2048)
	c.Image.Height = clampInt(c.Image.Height, 1, 2048)
	c.Image.Steps = clampInt(c.Image.Steps, 1, 100)
	c.Image.GuidanceScale = clampFloat(c.Image.GuidanceScale, 1, 20)

	if c.Providers == nil {
		c.Providers = make(map[string]ProviderSettings)
	}
	if c.ImageProviders == nil {
		c.ImageProviders = make(map[string]ProviderSettings)
	}

	c.normalizeSelection()
	c.normalizeImageSelection()
}

// normalizeSelection ensures Provider names a known provider (falling
// back to the first enabled one) and Model exists in its catalog.
func (c *Config) normalizeSelection() {
	p := provider.LookupText(c.Provider)
	if p == nil {
		c.Provider, c.Model = "", ""
		for _, cand := range provider.Text() {
			if c.Providers[cand.ID].Enabled {
				p = cand
				c.Provider = cand.ID
				break
			}
		}
	}
	if p != nil {
		c.Model = p.ResolveModel(c.Model)
	}
}

func (c *Config) normalizeImageSelection() {
	p := provider.LookupImage(c.ImageProvider)
	if p == nil {
		c.ImageProvider, c.ImageModel = "", ""
		for _, cand := range provider.Image() {
			if c.ImageProviders[cand.ID].Enabled {
				p = cand
				c.ImageProvider = cand.ID
				break
			}
		}
	}
	if p != nil {
		c.ImageModel = p.ResolveModel(c.ImageModel)
	}
}

// APIKey returns the stored credential for a text provider.
func (c *Config) APIKey(providerID string) string {
	return c.Providers[providerID].APIKey
}

// ImageAPIKey returns the stored credential for an image provider.
func (c *Config) ImageAPIKey(providerID string) string {
	return c.ImageProviders[providerID].APIKey
}

// SetProviderEnabled flips a text provider's enabled flag.
func (c *Config) SetProviderEnabled(providerID string, enabled bool) {
	ps := c.Providers[providerID]
	ps.Enabled = enabled
	c.Providers[providerID] = ps
}

// SetAPIKey stores a credential for a text provider.
func (c *Config) SetAPIKey(providerID, key string) {
	ps := c.Providers[providerID]
	ps.APIKey = key
	c.Providers[providerID] = ps
}

// EnabledTextProviders returns catalog providers the user has enabled,
// in display order.
func (c *Config) EnabledTextProviders() []*provider.Provider {
	var out []*provider.Provider
	for _, p := range provider.Text() {
		if c.Providers[p.ID].Enabled {
			out = append(out, p)
		}
	}
	return out
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
