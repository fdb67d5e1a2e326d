// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists NextAI's collections under ~/.nextai/.
//
// Every collection is one JSON blob under one key, written whole and
// atomically. Last write wins; there is no journal and no merge. That
// matches how the data is used: collections are small, loaded once at
// startup, and rewritten on every mutation.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/jeranaias/nextai-tui/internal/util"
)

// Well-known collection keys.
const (
	KeyChatHistory = "chat_history"
	KeyCurrentChat = "current_chat"
	KeyCustomRoles = "custom_roles"
	KeyCurrentRole = "current_role"
)

var keyPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// ErrInvalidKey is returned for keys that could escape the storage
// directory or collide with other files.
var ErrInvalidKey = errors.New("invalid storage key")

// KV is a key/value store with one JSON file per key.
type KV struct {
	mu  sync.Mutex
	dir string
}

// OpenKV opens (and creates) the storage directory.
func OpenKV(dir string) (*KV, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &KV{dir: dir}, nil
}

func (kv *KV) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(kv.dir, key+".json"), nil
}

// Get unmarshals the blob under key into v. The second return is false
// when the key has never been written.
func (kv *KV) Get(key string, v any) (bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	path, err := kv.path(key)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

// Put marshals v and writes it whole under key.
func (kv *KV) Put(key string, v any) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	path, err := kv.path(key)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob under key. Deleting a missing key is a no-op.
func (kv *KV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	path, err := kv.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
