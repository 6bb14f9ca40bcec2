package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mamacare/companion/internal/crypto"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/models"
)

// moodEntryRepository persists mood entries with the note field encrypted at
// the repository boundary: plaintext never reaches the database layer.
type moodEntryRepository struct {
	db     *DB
	cipher crypto.Cipher
	logger *logger.Logger
}

// NewMoodEntryRepository constructs a [MoodEntryRepository] backed by the
// local SQLite database and the given cipher.
func NewMoodEntryRepository(db *DB, cipher crypto.Cipher, logger *logger.Logger) MoodEntryRepository {
	logger.Debug().Msg("creating mood entry repository")
	return &moodEntryRepository{
		db:     db,
		cipher: cipher,
		logger: logger,
	}
}

func (r *moodEntryRepository) Save(ctx context.Context, entry models.MoodEntry) error {
	log := logger.FromContext(ctx)

	encryptedNotes, err := r.encryptNotes(entry.Notes)
	if err != nil {
		return fmt.Errorf("failed to encrypt mood notes (id=%s): %w", entry.ID, err)
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, err := r.db.ExecContext(ctx, upsertMoodEntry,
		entry.ID.String(),
		entry.ProfileID.String(),
		entry.Date,
		string(entry.Mood),
		encryptedNotes,
	); err != nil {
		log.Err(err).
			Str("func", "moodEntryRepository.Save").
			Str("entry_id", entry.ID.String()).
			Msg("failed to execute upsert for mood entry")
		return fmt.Errorf("failed to save mood entry (id=%s): %w", entry.ID, err)
	}

	return nil
}

func (r *moodEntryRepository) GetByProfile(ctx context.Context, profileID uuid.UUID) ([]models.MoodEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := selectMoodsByProfile(profileID.String()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "moodEntryRepository.GetByProfile").
			Str("profile_id", profileID.String()).
			Msg("failed to execute query for mood entries")
		return nil, fmt.Errorf("failed to query mood entries: %w", err)
	}
	defer rows.Close()

	var entries []models.MoodEntry
	for rows.Next() {
		entry, scanErr := r.scanMoodEntry(ctx, rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "moodEntryRepository.GetByProfile").
				Msg("failed to scan mood entry row")
			return nil, scanErr
		}
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("error iterating mood entry rows: %w", rowsErr)
	}

	return entries, nil
}

// ReplaceAll rewrites the profile's whole mood history in one transaction:
// the flat-store era bulk-overwrite pattern, kept for compatibility with the
// device-only check-in path. A failure anywhere rolls the transaction back.
func (r *moodEntryRepository) ReplaceAll(ctx context.Context, profileID uuid.UUID, entries []models.MoodEntry) error {
	log := logger.FromContext(ctx)

	// encrypt outside the transaction so a key failure never holds the lock
	encrypted := make([][]byte, len(entries))
	for i, entry := range entries {
		blob, err := r.encryptNotes(entry.Notes)
		if err != nil {
			return fmt.Errorf("failed to encrypt mood notes (id=%s): %w", entry.ID, err)
		}
		encrypted[i] = blob
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, deleteMoodEntriesByProfile, profileID.String()); err != nil {
		log.Err(err).
			Str("func", "moodEntryRepository.ReplaceAll").
			Str("profile_id", profileID.String()).
			Msg("failed to clear mood history")
		return fmt.Errorf("failed to clear mood history: %w", err)
	}

	for i, entry := range entries {
		if _, err = tx.ExecContext(ctx, upsertMoodEntry,
			entry.ID.String(),
			profileID.String(),
			entry.Date,
			string(entry.Mood),
			encrypted[i],
		); err != nil {
			log.Err(err).
				Str("func", "moodEntryRepository.ReplaceAll").
				Str("entry_id", entry.ID.String()).
				Msg("failed to write mood entry during history overwrite")
			return fmt.Errorf("failed to write mood entry (id=%s): %w", entry.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrCommittingTransaction, err)
	}

	return nil
}

func (r *moodEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	result, err := r.db.ExecContext(ctx, deleteMoodEntry, id.String())
	if err != nil {
		log.Err(err).
			Str("func", "moodEntryRepository.Delete").
			Str("entry_id", id.String()).
			Msg("failed to execute delete for mood entry")
		return fmt.Errorf("failed to delete mood entry (id=%s): %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrMoodEntryNotFound
	}

	return nil
}

func (r *moodEntryRepository) encryptNotes(notes *string) ([]byte, error) {
	if notes == nil {
		return nil, nil
	}
	return r.cipher.EncryptString(*notes)
}

// scanMoodEntry reads one row. A note blob that fails authentication is
// degraded to "no note" and logged distinctly; the rest of the entry still
// loads.
func (r *moodEntryRepository) scanMoodEntry(ctx context.Context, rows *sql.Rows) (models.MoodEntry, error) {
	var (
		entry          models.MoodEntry
		id             string
		profileID      string
		date           time.Time
		mood           string
		encryptedNotes []byte
	)

	if err := rows.Scan(&id, &profileID, &date, &mood, &encryptedNotes); err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to scan mood entry row: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to parse mood entry id: %w", err)
	}
	parsedProfileID, err := uuid.Parse(profileID)
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("failed to parse mood entry profile id: %w", err)
	}

	moodType := models.MoodType(mood)
	if !moodType.Valid() {
		return models.MoodEntry{}, fmt.Errorf("%w: mood=%q", ErrInvalidStoredEnum, mood)
	}

	entry.ID = parsedID
	entry.ProfileID = parsedProfileID
	entry.Date = date
	entry.Mood = moodType

	if len(encryptedNotes) > 0 {
		notes, decErr := r.cipher.DecryptString(encryptedNotes)
		switch {
		case decErr == nil:
			entry.Notes = &notes
		case errors.Is(decErr, crypto.ErrDecryptFailed):
			logger.FromContext(ctx).Warn().
				Str("func", "moodEntryRepository.scanMoodEntry").
				Str("entry_id", id).
				Msg("mood notes ciphertext failed authentication, treating as unset")
		default:
			return models.MoodEntry{}, decErr
		}
	}

	return entry, nil
}
