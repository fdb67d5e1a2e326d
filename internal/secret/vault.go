// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package secret protects API credentials at rest with AES-256-GCM and
// PBKDF2-SHA-256 key derivation. The master secret is a machine-local
// random key file; config files store "ENC:"-prefixed values and never
// see plaintext credentials on disk.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/jeranaias/nextai-tui/internal/util"
)

// EncryptedPrefix marks a value as encrypted (format: ENC:base64(nonce|ciphertext|tag)).
const EncryptedPrefix = "ENC:"

const (
	// NonceSize is the AES-GCM nonce size (96 bits).
	NonceSize = 12
	// KeySize is the AES-256 key size.
	KeySize = 32
	// SaltSize is the key-derivation salt size.
	SaltSize = 32
	// PBKDF2Iterations follows the OWASP 2023 recommendation for
	// PBKDF2-SHA-256.
	PBKDF2Iterations = 600000

	keyFileName = "secret.key"
)

var (
	// ErrInvalidCiphertext indicates the stored value is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")
	// ErrDecryptionFailed indicates a wrong key or tampered data.
	ErrDecryptionFailed = errors.New("decryption failed: authentication tag mismatch")
)

// zeroBytes clears key material so it does not linger in crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Vault encrypts and decrypts credential strings with a key derived from
// a machine-local key file.
type Vault struct {
	aead cipher.AEAD
}

// Open loads the key file under dir, creating it on first run, and
// returns a ready vault. The key file holds salt || master secret and is
// written 0600.
func Open(dir string) (*Vault, error) {
	keyPath := filepath.Join(dir, keyFileName)

	material, err := os.ReadFile(keyPath)
	if errors.Is(err, os.ErrNotExist) {
		material = make([]byte, SaltSize+KeySize)
		if _, err := io.ReadFull(rand.Reader, material); err != nil {
			return nil, fmt.Errorf("failed to generate key material: %w", err)
		}
		if err := util.AtomicWriteFile(keyPath, material, 0600); err != nil {
			return nil, fmt.Errorf("failed to save key file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}
	if len(material) != SaltSize+KeySize {
		return nil, fmt.Errorf("key file %s is corrupt (%d bytes)", keyPath, len(material))
	}

	salt, master := material[:SaltSize], material[SaltSize:]
	key := pbkdf2.Key(master, salt, PBKDF2Iterations, KeySize, sha256.New)
	defer zeroBytes(key)
	defer zeroBytes(material)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM cipher: %w", err)
	}
	return &Vault{aead: aead}, nil
}

// EncryptString encrypts a plaintext value to its ENC:-prefixed stored
// form. Empty and already-encrypted values pass through unchanged.
func (v *Vault) EncryptString(plaintext string) (string, error) {
	if plaintext == "" || IsEncrypted(plaintext) {
		return plaintext, nil
	}
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return EncryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString decrypts an ENC:-prefixed value. Values without the
// prefix are returned as-is so legacy plaintext configs keep working.
func (v *Vault) DecryptString(stored string) (string, error) {
	if !IsEncrypted(stored) {
		return stored, nil
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, EncryptedPrefix))
	if err != nil {
		return "", ErrInvalidCiphertext
	}
	if len(data) < NonceSize {
		return "", ErrInvalidCiphertext
	}
	plaintext, err := v.aead.Open(nil, data[:NonceSize], data[NonceSize:], nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	return string(plaintext), nil
}

// IsEncrypted reports whether a stored value carries the ENC: prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}
