package store

import (
	"context"
	"fmt"

	"github.com/mamacare/companion/internal/config"
	"github.com/mamacare/companion/internal/crypto"
	"github.com/mamacare/companion/internal/logger"
)

// Storages groups the structured-store repositories into a single value that
// can be passed around the service layer.
type Storages struct {
	// Profiles is the SQLite-backed repository for user profiles.
	Profiles ProfileRepository
	// Moods is the SQLite-backed repository for mood entries. Free-text
	// notes are encrypted at rest.
	Moods MoodEntryRepository
	// Contacts is the SQLite-backed repository for emergency contacts.
	// Every content field is encrypted at rest.
	Contacts ContactRepository
}

// NewStorages initialises the local storage layer using the supplied
// configuration, cipher and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [Storages] value wired to fresh repositories.
//
// Returns an error if the database connection cannot be established or if
// migration fails. Both conditions are fatal: the app has no data layer to
// run on top of.
func NewStorages(cfg config.Storage, cipher crypto.Cipher, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		Profiles: NewProfileRepository(db, logger),
		Moods:    NewMoodEntryRepository(db, cipher, logger),
		Contacts: NewContactRepository(db, cipher, logger),
	}, nil
}
