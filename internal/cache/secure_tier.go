package cache

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// SecureTier is the protected cache tier: one secretbox-encrypted file per
// key under dir, with the sealing key derived from a configured secret. It
// stands in for OS keychain storage, which is not available to a headless
// process.
type SecureTier struct {
	dir string
	key [32]byte
}

// NewSecureTier creates the tier directory if needed and derives the sealing
// key from secret.
func NewSecureTier(dir, secret string) (*SecureTier, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create secure cache dir: %w", err)
	}
	return &SecureTier{
		dir: dir,
		key: sha256.Sum256([]byte(secret)),
	}, nil
}

func (t *SecureTier) Name() string { return "secure" }

func (t *SecureTier) path(key string) string {
	name := base64.RawURLEncoding.EncodeToString([]byte(key))
	return filepath.Join(t.dir, name+".bin")
}

func (t *SecureTier) Get(key string) ([]byte, error) {
	sealed, err := os.ReadFile(t.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read secure entry %s: %w", key, err)
	}
	if len(sealed) < nonceSize {
		return nil, fmt.Errorf("secure entry %s is truncated", key)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])
	value, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &t.key)
	if !ok {
		return nil, fmt.Errorf("failed to decrypt secure entry %s", key)
	}
	return value, nil
}

func (t *SecureTier) Set(key string, value []byte) error {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], value, &nonce, &t.key)
	if err := os.WriteFile(t.path(key), sealed, 0o600); err != nil {
		return fmt.Errorf("failed to write secure entry %s: %w", key, err)
	}
	return nil
}

func (t *SecureTier) Remove(key string) error {
	if err := os.Remove(t.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove secure entry %s: %w", key, err)
	}
	return nil
}
