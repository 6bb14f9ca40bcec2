package models

import "github.com/google/uuid"

// EmergencyContact is a person the user can reach out to in a crisis.
// Every field except the identifiers is confidentiality-sensitive and is
// stored only as ciphertext; plaintext values live in memory only.
type EmergencyContact struct {
	// ID is the caller-supplied unique identifier of the contact.
	ID uuid.UUID `json:"id"`

	// ProfileID is the owning profile.
	ProfileID uuid.UUID `json:"-"`

	// Name is the contact's display name.
	Name string `json:"name"`

	// Relationship is a free-form label ("partner", "midwife", ...).
	Relationship string `json:"relationship"`

	// PhoneNumber is the contact's phone number, possibly empty.
	PhoneNumber string `json:"phoneNumber"`

	// Email is the contact's email address, possibly empty.
	Email string `json:"email"`
}

// HasContactInfo reports whether the contact is actually reachable, i.e. at
// least one of phone number or email is non-empty.
func (c EmergencyContact) HasContactInfo() bool {
	return c.PhoneNumber != "" || c.Email != ""
}

// TableName returns the name of the database table
// associated with the EmergencyContact model.
func (c EmergencyContact) TableName() string {
	return "emergency_contacts"
}
