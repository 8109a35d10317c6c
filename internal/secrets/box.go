// Package secrets seals small values (the SMTP password) for storage at rest.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize   = 32
	nonceSize = 24
	kdfRounds = 100000
)

var kdfSalt = []byte("spesecasa-smtp-v1")

// ErrCorrupt is returned when a sealed value cannot be opened with this key.
var ErrCorrupt = errors.New("secrets: value is corrupt or sealed with another key")

// Box seals and opens strings with a key derived from a passphrase.
type Box struct {
	key [keySize]byte
}

// NewBox derives the sealing key from passphrase.
func NewBox(passphrase string) (*Box, error) {
	if passphrase == "" {
		return nil, errors.New("secrets: empty passphrase")
	}
	b := &Box{}
	copy(b.key[:], pbkdf2.Key([]byte(passphrase), kdfSalt, kdfRounds, keySize, sha256.New))
	return b, nil
}

// NewEphemeralBox returns a box with a random key. Values it seals cannot be
// opened after a restart.
func NewEphemeralBox() (*Box, error) {
	b := &Box{}
	if _, err := io.ReadFull(rand.Reader, b.key[:]); err != nil {
		return nil, fmt.Errorf("secrets: generate key: %w", err)
	}
	return b, nil
}

// Seal encrypts plaintext and returns it base64 encoded with the nonce prefixed.
func (b *Box) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("secrets: generate nonce: %w", err)
	}
	out := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &b.key)
	return base64.URLEncoding.EncodeToString(out), nil
}

// Open reverses Seal.
func (b *Box) Open(sealed string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrCorrupt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &b.key)
	if !ok {
		return "", ErrCorrupt
	}
	return string(plain), nil
}
