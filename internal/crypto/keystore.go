package crypto

import (
	"fmt"
	"os"
	"path/filepath"
)

// keyTag is the fixed application-scoped tag the key entry lives under.
const keyTag = "com.companion.encryptionKey"

// fileKeyStore is a [KeyStore] backed by a single file in an
// access-controlled directory. The directory is created 0700 and the key
// file 0600, readable only by the owning user.
type fileKeyStore struct {
	dir string
}

// NewFileKeyStore constructs a [KeyStore] rooted at dir. The directory is
// created lazily on first write.
func NewFileKeyStore(dir string) KeyStore {
	return &fileKeyStore{dir: dir}
}

func (s *fileKeyStore) entryPath() string {
	return filepath.Join(s.dir, keyTag)
}

// Read implements [KeyStore]. A missing entry maps to [ErrKeyEntryNotFound];
// an entry of the wrong length maps to [ErrKeySize] so a truncated write is
// never silently used as a key.
func (s *fileKeyStore) Read() ([]byte, error) {
	data, err := os.ReadFile(s.entryPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyEntryNotFound
		}
		return nil, fmt.Errorf("read key entry: %w", err)
	}

	if len(data) != KeySize {
		return nil, fmt.Errorf("%w: entry holds %d bytes, want %d", ErrKeySize, len(data), KeySize)
	}

	return data, nil
}

// Write implements [KeyStore]. The stale entry is deleted before the new one
// is written so the store never holds duplicate entries for the tag.
func (s *fileKeyStore) Write(key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrKeySize, len(key), KeySize)
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create keystore dir: %w", err)
	}

	path := s.entryPath()
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete stale key entry: %w", err)
	}

	if err := os.WriteFile(path, key, 0o600); err != nil {
		return fmt.Errorf("write key entry: %w", err)
	}

	return nil
}
