package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/mamacare/companion/internal/logger"
)

// KeySize is the length of the symmetric key in bytes (256 bits).
const KeySize = 32

// KeyVault owns the single long-lived symmetric key. The first access
// generates it; subsequent accesses retrieve it from the protected keystore.
// The resolved key is cached in memory for the remainder of the process, so
// the generate-or-fetch race is confined to the first-ever launch.
type KeyVault struct {
	store  KeyStore
	logger *logger.Logger

	mu  sync.Mutex
	key []byte
}

// NewKeyVault constructs a [KeyVault] over the given keystore.
func NewKeyVault(store KeyStore, logger *logger.Logger) *KeyVault {
	return &KeyVault{store: store, logger: logger}
}

// GetOrCreateKey returns the stored symmetric key, generating and persisting
// a fresh 256-bit key when none exists yet. Every failure is surfaced as
// [ErrKeyUnavailable] wrapping the cause; the vault never falls back to a
// substitute key.
func (v *KeyVault) GetOrCreateKey() ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key != nil {
		return v.key, nil
	}

	key, err := v.store.Read()
	if err == nil {
		v.key = key
		return key, nil
	}
	if !errors.Is(err, ErrKeyEntryNotFound) {
		v.logger.Err(err).Str("func", "KeyVault.GetOrCreateKey").Msg("keystore read failed")
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}

	key = make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("%w: generate key: %v", ErrKeyUnavailable, err)
	}

	if err := v.store.Write(key); err != nil {
		v.logger.Err(err).Str("func", "KeyVault.GetOrCreateKey").Msg("keystore write failed")
		return nil, fmt.Errorf("%w: %v", ErrKeyUnavailable, err)
	}

	v.logger.Info().Str("func", "KeyVault.GetOrCreateKey").Msg("generated new encryption key")
	v.key = key
	return key, nil
}
