// Package prefs is the general app-settings store: named booleans and named
// binary blobs persisted in one JSON file, rewritten atomically on every
// mutation. It is the Go rendition of the flat key-value store the app used
// before the structured local database existed, and it still carries the
// legacy encrypted blobs, the migration completion flag, and session flags.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Well-known entry names. The blob keys predate the structured store and
// must not change: the migration coordinator reads the legacy records under
// exactly these names.
const (
	// KeyLegacyUser holds the encrypted serialized legacy user object,
	// emergency contacts embedded.
	KeyLegacyUser = "currentUser"

	// KeyLegacyMoodCheckIns holds the encrypted serialized array of legacy
	// mood check-ins.
	KeyLegacyMoodCheckIns = "moodCheckIns"

	// KeyMigrationDone gates the one-shot flat-to-structured migration.
	KeyMigrationDone = "hasCompletedStructuredMigration"

	// KeyLoggedIn marks an authenticated session on this device.
	KeyLoggedIn = "isLoggedIn"

	// KeyOnboardingDone marks that the user finished onboarding.
	KeyOnboardingDone = "hasCompletedOnboarding"
)

// InMemory is the path sentinel for a non-persisted store, used in tests.
const InMemory = ":memory:"

// Store is a mutex-guarded app-settings store. All mutating calls rewrite
// the whole backing file before returning success.
type Store struct {
	path     string
	inMemory bool

	mu    sync.RWMutex
	state persistedState
}

type persistedState struct {
	Bools map[string]bool   `json:"bools"`
	Blobs map[string][]byte `json:"blobs"`
}

// NewStore opens (or initialises) the settings file at path. A missing file
// is a fresh install, not an error.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:     path,
		inMemory: path == InMemory,
		state: persistedState{
			Bools: make(map[string]bool),
			Blobs: make(map[string][]byte),
		},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// GetBool returns the named flag; absent flags read as false.
func (s *Store) GetBool(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Bools[name]
}

// SetBool durably sets the named flag.
func (s *Store) SetBool(name string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Bools[name] = value
	return s.persist()
}

// GetData returns the named blob and whether it exists. An existing empty
// blob is distinct from an absent one.
func (s *Store) GetData(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.state.Blobs[name]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, true
}

// HasData reports whether a blob exists under name without copying it.
func (s *Store) HasData(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.state.Blobs[name]
	return ok
}

// SetData durably stores the named blob.
func (s *Store) SetData(name string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(blob))
	copy(stored, blob)
	s.state.Blobs[name] = stored
	return s.persist()
}

// RemoveData durably deletes the named blob. Removing an absent blob is a
// no-op.
func (s *Store) RemoveData(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.state.Blobs[name]; !ok {
		return nil
	}
	delete(s.state.Blobs, name)
	return s.persist()
}

func (s *Store) load() error {
	if s.inMemory {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read prefs file: %w", err)
	}

	var st persistedState
	if err = json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("decode prefs file: %w", err)
	}

	if st.Bools == nil {
		st.Bools = make(map[string]bool)
	}
	if st.Blobs == nil {
		st.Blobs = make(map[string][]byte)
	}
	s.state = st

	return nil
}

// persist writes the full state to a temp file and renames it over the
// target, so a crash mid-write never leaves a torn settings file.
func (s *Store) persist() error {
	if s.inMemory {
		return nil
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create prefs dir: %w", err)
		}
	}

	payload, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, payload, 0o600); err != nil {
		return fmt.Errorf("write prefs file: %w", err)
	}
	if err = os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace prefs file: %w", err)
	}

	return nil
}
