// Package migration moves the pre-structured flat-store records into the
// local structured store, exactly once per install.
//
// The migration is gated by a persisted completion flag and is idempotent:
// every write is an upsert keyed by the ids carried in the legacy records, so
// an attempt aborted halfway can be retried from scratch on the next launch
// without duplicating rows. The legacy blobs themselves are never deleted;
// they stay behind as a backup copy.
package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/mamacare/companion/internal/legacy"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/prefs"
	"github.com/mamacare/companion/internal/store"
)

// Coordinator runs the one-shot flat-to-structured migration.
type Coordinator struct {
	reader   *legacy.Reader
	prefs    *prefs.Store
	profiles store.ProfileRepository
	moods    store.MoodEntryRepository
	contacts store.ContactRepository
	logger   *logger.Logger
}

// NewCoordinator constructs a migration coordinator over the legacy reader,
// the prefs store holding the completion flag, and the structured-store
// repositories that receive the migrated records.
func NewCoordinator(reader *legacy.Reader, prefsStore *prefs.Store, storages *store.Storages, logger *logger.Logger) *Coordinator {
	logger.Debug().Msg("creating migration coordinator")
	return &Coordinator{
		reader:   reader,
		prefs:    prefsStore,
		profiles: storages.Profiles,
		moods:    storages.Moods,
		contacts: storages.Contacts,
		logger:   logger,
	}
}

// NeedsMigration reports whether a migration should run: the completion flag
// is unset and at least one legacy blob exists. Pure check, no decryption.
func (c *Coordinator) NeedsMigration(ctx context.Context) bool {
	if c.prefs.GetBool(prefs.KeyMigrationDone) {
		return false
	}
	return c.reader.HasUser() || c.reader.HasMoodCheckIns()
}

// PerformMigration executes the migration phases in order: the legacy user
// becomes a profile, each legacy mood check-in becomes an owned mood entry,
// each contact embedded in the legacy user becomes an owned emergency
// contact, and only then is the completion flag set. Any phase failure
// returns an error wrapping [ErrMigrationFailed] with the flag left unset.
//
// Safe to call when no legacy data exists: returns nil without touching the
// encryption layer.
func (c *Coordinator) PerformMigration(ctx context.Context) error {
	log := logger.FromContext(ctx)

	if !c.reader.HasUser() && !c.reader.HasMoodCheckIns() {
		log.Info().Str("func", "Coordinator.PerformMigration").Msg("no legacy data, nothing to migrate")
		return nil
	}

	if !c.reader.HasUser() {
		// Mood check-ins without a user record have no profile to own
		// them; retrying cannot recover a blob that was never written.
		log.Warn().
			Str("func", "Coordinator.PerformMigration").
			Msg("legacy mood check-ins present without a legacy user, skipping unmigratable records")
		return c.markDone(ctx)
	}

	legacyUser, err := c.reader.ReadUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading legacy user: %w", ErrMigrationFailed, err)
	}

	profile := legacyUser.ToProfile()
	if err := c.profiles.Save(ctx, profile); err != nil {
		return fmt.Errorf("%w: persisting migrated profile: %w", ErrMigrationFailed, err)
	}
	log.Info().
		Str("func", "Coordinator.PerformMigration").
		Str("profile_id", profile.ID.String()).
		Msg("migrated legacy user to structured profile")

	if err := c.migrateMoodCheckIns(ctx); err != nil {
		return err
	}

	// Re-read the legacy user for its embedded contact list; the blob is
	// the source of truth for this phase, not the in-memory copy.
	legacyUser, err = c.reader.ReadUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: re-reading legacy user for contacts: %w", ErrMigrationFailed, err)
	}
	for _, legacyContact := range legacyUser.EmergencyContacts {
		contact := legacyContact.ToContact(profile.ID)
		if err := c.contacts.Save(ctx, contact); err != nil {
			return fmt.Errorf("%w: persisting migrated contact (id=%s): %w", ErrMigrationFailed, contact.ID, err)
		}
	}
	if n := len(legacyUser.EmergencyContacts); n > 0 {
		log.Info().
			Str("func", "Coordinator.PerformMigration").
			Int("count", n).
			Msg("migrated legacy emergency contacts")
	}

	return c.markDone(ctx)
}

func (c *Coordinator) migrateMoodCheckIns(ctx context.Context) error {
	log := logger.FromContext(ctx)

	checkIns, err := c.reader.ReadMoodCheckIns(ctx)
	if err != nil {
		if errors.Is(err, legacy.ErrNoLegacyData) {
			return nil
		}
		return fmt.Errorf("%w: reading legacy mood check-ins: %w", ErrMigrationFailed, err)
	}

	legacyUser, err := c.reader.ReadUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: reading legacy user for mood ownership: %w", ErrMigrationFailed, err)
	}

	for _, checkIn := range checkIns {
		entry := checkIn.ToMoodEntry(legacyUser.ID)
		if err := c.moods.Save(ctx, entry); err != nil {
			return fmt.Errorf("%w: persisting migrated mood entry (id=%s): %w", ErrMigrationFailed, entry.ID, err)
		}
	}
	log.Info().
		Str("func", "Coordinator.migrateMoodCheckIns").
		Int("count", len(checkIns)).
		Msg("migrated legacy mood check-ins")

	return nil
}

func (c *Coordinator) markDone(ctx context.Context) error {
	if err := c.prefs.SetBool(prefs.KeyMigrationDone, true); err != nil {
		return fmt.Errorf("%w: persisting completion flag: %w", ErrMigrationFailed, err)
	}
	logger.FromContext(ctx).Info().
		Str("func", "Coordinator.PerformMigration").
		Msg("flat-to-structured migration complete")
	return nil
}
