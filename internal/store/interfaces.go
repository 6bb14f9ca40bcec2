package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/mamacare/companion/models"
)

// ProfileRepository is the local repository for user profiles. Profiles own
// mood entries and emergency contacts; Delete cascades to both.
type ProfileRepository interface {
	// Save upserts a profile by its caller-supplied id.
	Save(ctx context.Context, profile models.UserProfile) error

	// GetMostRecent returns the newest profile by creation time, or
	// [ErrProfileNotFound] when the store holds none.
	GetMostRecent(ctx context.Context) (models.UserProfile, error)

	// GetAll returns every profile, newest first.
	GetAll(ctx context.Context) ([]models.UserProfile, error)

	// Update persists an in-place mutation of an existing profile.
	Update(ctx context.Context, profile models.UserProfile) error

	// Delete removes the profile and, via cascade, all of its owned mood
	// entries and emergency contacts.
	Delete(ctx context.Context, id uuid.UUID) error
}

// MoodEntryRepository is the local repository for mood entries. The note
// field is stored as ciphertext; plaintext crosses this boundary only in
// memory.
type MoodEntryRepository interface {
	// Save upserts a mood entry by its caller-supplied id.
	Save(ctx context.Context, entry models.MoodEntry) error

	// GetByProfile returns the profile's entries, occurrence date
	// descending.
	GetByProfile(ctx context.Context, profileID uuid.UUID) ([]models.MoodEntry, error)

	// ReplaceAll atomically replaces the profile's whole mood history with
	// entries. This is the bulk-overwrite write pattern carried over from
	// the flat-store era.
	ReplaceAll(ctx context.Context, profileID uuid.UUID, entries []models.MoodEntry) error

	// Delete removes a single entry.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactRepository is the local repository for emergency contacts. All four
// content fields are stored as ciphertext.
type ContactRepository interface {
	// Save upserts a contact by its caller-supplied id.
	Save(ctx context.Context, contact models.EmergencyContact) error

	// GetByProfile returns the profile's contacts.
	GetByProfile(ctx context.Context, profileID uuid.UUID) ([]models.EmergencyContact, error)

	// Update persists an in-place mutation of an existing contact.
	Update(ctx context.Context, contact models.EmergencyContact) error

	// Delete removes a single contact.
	Delete(ctx context.Context, id uuid.UUID) error
}
