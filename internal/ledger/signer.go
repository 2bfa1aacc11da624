package ledger

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/hkdf"
)

// Keyring derives versioned HMAC signing keys from a master secret and signs
// canonical entry payloads. Old versions stay resolvable forever so entries
// signed before a rotation still verify.
type Keyring struct {
	mu      sync.RWMutex
	secret  []byte
	current int
	keys    map[int][]byte
}

// NewKeyring builds a keyring starting at key version 1.
func NewKeyring(masterSecret string) (*Keyring, error) {
	if masterSecret == "" {
		return nil, fmt.Errorf("ledger master secret is required")
	}
	k := &Keyring{
		secret:  []byte(masterSecret),
		current: 1,
		keys:    make(map[int][]byte),
	}
	if _, err := k.key(1); err != nil {
		return nil, err
	}
	return k, nil
}

// CurrentVersion returns the version new signatures are made with.
func (k *Keyring) CurrentVersion() int {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.current
}

// Rotate advances to the next key version and returns it. Existing entries
// keep their old version and remain verifiable.
func (k *Keyring) Rotate() (int, error) {
	k.mu.Lock()
	k.current++
	v := k.current
	k.mu.Unlock()

	if _, err := k.key(v); err != nil {
		return 0, err
	}
	return v, nil
}

// Sign returns the hex HMAC-SHA256 of payload under the given key version.
func (k *Keyring) Sign(payload []byte, version int) (string, error) {
	key, err := k.key(version)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether signature matches payload under the given key
// version. Comparison is constant time.
func (k *Keyring) Verify(payload []byte, version int, signature string) (bool, error) {
	expected, err := k.Sign(payload, version)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(expected), []byte(signature)), nil
}

// key returns the derived key for a version, deriving and caching on first use.
func (k *Keyring) key(version int) ([]byte, error) {
	if version < 1 {
		return nil, fmt.Errorf("unknown key version %d", version)
	}

	k.mu.RLock()
	key, ok := k.keys[version]
	k.mu.RUnlock()
	if ok {
		return key, nil
	}

	r := hkdf.New(sha256.New, k.secret, nil, fmt.Appendf(nil, "arbiter-ledger-v%d", version))
	key = make([]byte, sha256.Size)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive key v%d: %w", version, err)
	}

	k.mu.Lock()
	k.keys[version] = key
	k.mu.Unlock()
	return key, nil
}
