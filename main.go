// NextAI TUI - A terminal interface for multi-provider LLM chat.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/nextai-tui/internal/config"
	"github.com/jeranaias/nextai-tui/internal/render"
	"github.com/jeranaias/nextai-tui/internal/roles"
	"github.com/jeranaias/nextai-tui/internal/secret"
	"github.com/jeranaias/nextai-tui/internal/session"
	"github.com/jeranaias/nextai-tui/internal/storage"
	"github.com/jeranaias/nextai-tui/internal/ui/chat"
	"github.com/jeranaias/nextai-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("nextai %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "nextai is an interactive application and needs a terminal")
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "nextai: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir, err := config.Dir()
	if err != nil {
		return fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// The terminal belongs to the UI; logs go to a file.
	logFile, err := os.OpenFile(filepath.Join(dir, "nextai.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	vault, err := secret.Open(dir)
	if err != nil {
		return fmt.Errorf("opening secret vault: %w", err)
	}

	cfgPath, err := config.Path()
	if err != nil {
		return err
	}
	cfg, err := config.Load(cfgPath, vault)
	if err != nil {
		// A corrupt config should not brick the app.
		log.Printf("config load failed, using defaults: %v", err)
		cfg = config.Default()
		cfg.Normalize()
	}

	kv, err := storage.OpenKV(dir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	chats := storage.NewChatStore(kv)

	sess, err := session.NewManager(chats)
	if err != nil {
		return fmt.Errorf("loading chat history: %w", err)
	}
	roleMgr, err := roles.NewManager(kv)
	if err != nil {
		return fmt.Errorf("loading roles: %w", err)
	}

	dark := cfg.Theme == config.ThemeDark
	theme := styles.NewTheme(dark)
	renderer, err := render.New(80, dark)
	if err != nil {
		return fmt.Errorf("building markdown renderer: %w", err)
	}

	m := chat.New(chat.Deps{
		Config:   cfg,
		CfgPath:  cfgPath,
		Vault:    vault,
		Session:  sess,
		Roles:    roleMgr,
		Renderer: renderer,
		Theme:    theme,
	})

	program := tea.NewProgram(m, tea.WithAltScreen())

	// External config edits flow into the UI as reload messages.
	watcher, err := config.NewWatcher(cfgPath, vault, func(fresh *config.Config) {
		program.Send(chat.ConfigReloaded(fresh))
	})
	if err != nil {
		log.Printf("config watcher unavailable: %v", err)
	} else {
		if err := watcher.Watch(); err != nil {
			log.Printf("config watcher failed to start: %v", err)
		}
		defer watcher.Close()
	}

	_, err = program.Run()
	return err
}
