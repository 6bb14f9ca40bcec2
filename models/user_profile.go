package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the structured identity-and-preferences record owned by the
// local structured store. It owns the user's mood entries and emergency
// contacts; deleting a profile cascades to both.
//
// At most one of ExpectedDeliveryDate / BirthDate is meaningful at a time,
// selected by UserType. A profile with a nil UserType has not finished
// onboarding.
type UserProfile struct {
	// ID is the caller-supplied unique identifier of the profile.
	ID uuid.UUID `json:"id"`

	// FirstName is the user's given name.
	FirstName string `json:"firstName"`

	// LastName is the user's family name.
	LastName string `json:"lastName"`

	// Email is the address the remote auth identity is registered under.
	Email string `json:"email"`

	// Country is the user's country of residence.
	Country string `json:"country"`

	// MobileNumber is the user's phone number.
	MobileNumber string `json:"mobileNumber"`

	// UserType selects which reference date applies. Nil means unset.
	UserType *UserType `json:"userType,omitempty"`

	// ExpectedDeliveryDate applies when UserType is Pregnant.
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate,omitempty"`

	// BirthDate applies when UserType is HasChild.
	BirthDate *time.Time `json:"birthDate,omitempty"`

	// StorageMode decides whether the remote document API or the local
	// structured store is authoritative for this user's data.
	StorageMode StorageMode `json:"storageMode"`

	// PrivacyAcceptedAt records when the user accepted the privacy terms.
	PrivacyAcceptedAt *time.Time `json:"privacyAcceptedAt,omitempty"`

	// NotificationsWanted records the user's reminder preference.
	NotificationsWanted bool `json:"notificationsWanted"`

	// CreatedAt is the profile creation timestamp; profiles are returned
	// most recent first.
	CreatedAt time.Time `json:"createdAt"`
}

// NeedsOnboarding reports whether the profile is missing the information
// collected during onboarding: a user type, or the reference date that the
// chosen user type requires.
func (p UserProfile) NeedsOnboarding() bool {
	if p.UserType == nil {
		return true
	}
	switch *p.UserType {
	case Pregnant:
		return p.ExpectedDeliveryDate == nil
	case HasChild:
		return p.BirthDate == nil
	}
	return true
}

// ReferenceDate returns the reference date selected by the user type, or nil
// when the profile still needs onboarding.
func (p UserProfile) ReferenceDate() *time.Time {
	if p.UserType == nil {
		return nil
	}
	switch *p.UserType {
	case Pregnant:
		return p.ExpectedDeliveryDate
	case HasChild:
		return p.BirthDate
	}
	return nil
}

// TableName returns the name of the database table
// associated with the UserProfile model.
func (p UserProfile) TableName() string {
	return "user_profiles"
}
