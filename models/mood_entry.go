package models

import (
	"time"

	"github.com/google/uuid"
)

// MoodEntry is a single timestamped mood observation owned by one profile.
// Entries are immutable once created; they are deleted individually or
// cascaded with the owning profile.
//
// Notes is confidentiality-sensitive: it exists in plaintext only in memory
// and is written to any store as ciphertext. A nil Notes means the user
// entered nothing; the persistence layer must keep "absent" distinct from
// "failed to decrypt".
type MoodEntry struct {
	// ID is the caller-supplied unique identifier of the entry.
	ID uuid.UUID `json:"id"`

	// ProfileID is the owning profile. Not part of the wire document (the
	// remote store scopes entries by owner key already).
	ProfileID uuid.UUID `json:"-"`

	// Date is when the mood was observed; listings are date-descending.
	Date time.Time `json:"date"`

	// Mood is the observed mood category.
	Mood MoodType `json:"mood"`

	// Notes is the optional free-text note.
	Notes *string `json:"notes,omitempty"`
}

// TableName returns the name of the database table
// associated with the MoodEntry model.
func (e MoodEntry) TableName() string {
	return "mood_entries"
}
