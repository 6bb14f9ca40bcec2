package models

import (
	"time"

	"github.com/google/uuid"
)

// Legacy wire records: the JSON shapes stored (encrypted whole-record) in the
// pre-migration flat key-value store. They are read-only; after a successful
// migration the blobs are kept as a backup but never written again.

// LegacyUser is the serialized user object stored under the flat-store user
// key, with the emergency contact list embedded.
type LegacyUser struct {
	ID                   uuid.UUID       `json:"id"`
	FirstName            string          `json:"firstName"`
	LastName             string          `json:"lastName"`
	Email                string          `json:"email"`
	Country              string          `json:"country"`
	MobileNumber         string          `json:"mobileNumber"`
	UserType             *UserType       `json:"userType,omitempty"`
	ExpectedDeliveryDate *time.Time      `json:"expectedDeliveryDate,omitempty"`
	BirthDate            *time.Time      `json:"birthDate,omitempty"`
	StorageMode          StorageMode     `json:"storageMode"`
	PrivacyAcceptedAt    *time.Time      `json:"privacyAcceptedAt,omitempty"`
	NotificationsWanted  bool            `json:"notificationsWanted"`
	EmergencyContacts    []LegacyContact `json:"emergencyContacts"`
	CreatedAt            time.Time       `json:"createdAt"`
}

// ToProfile converts the legacy record into the structured profile, dropping
// the embedded contact list (contacts are migrated as owned entities in a
// separate migration phase).
func (u LegacyUser) ToProfile() UserProfile {
	return UserProfile{
		ID:                   u.ID,
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		Email:                u.Email,
		Country:              u.Country,
		MobileNumber:         u.MobileNumber,
		UserType:             u.UserType,
		ExpectedDeliveryDate: u.ExpectedDeliveryDate,
		BirthDate:            u.BirthDate,
		StorageMode:          u.StorageMode,
		PrivacyAcceptedAt:    u.PrivacyAcceptedAt,
		NotificationsWanted:  u.NotificationsWanted,
		CreatedAt:            u.CreatedAt,
	}
}

// LegacyContact is an emergency contact embedded in LegacyUser.
type LegacyContact struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	PhoneNumber  string    `json:"phoneNumber"`
	Email        string    `json:"email"`
}

// ToContact converts the legacy contact into a structured contact owned by
// profileID. The legacy id is kept so a retried migration upserts instead of
// duplicating.
func (c LegacyContact) ToContact(profileID uuid.UUID) EmergencyContact {
	return EmergencyContact{
		ID:           c.ID,
		ProfileID:    profileID,
		Name:         c.Name,
		Relationship: c.Relationship,
		PhoneNumber:  c.PhoneNumber,
		Email:        c.Email,
	}
}

// LegacyMoodCheckIn is one element of the serialized mood array stored under
// the flat-store moods key.
type LegacyMoodCheckIn struct {
	ID    uuid.UUID `json:"id"`
	Date  time.Time `json:"date"`
	Mood  MoodType  `json:"mood"`
	Notes *string   `json:"notes,omitempty"`
}

// ToMoodEntry converts the legacy check-in into a structured mood entry owned
// by profileID, keeping the legacy id for idempotent re-migration.
func (m LegacyMoodCheckIn) ToMoodEntry(profileID uuid.UUID) MoodEntry {
	return MoodEntry{
		ID:        m.ID,
		ProfileID: profileID,
		Date:      m.Date,
		Mood:      m.Mood,
		Notes:     m.Notes,
	}
}
