package models

import (
	"encoding/json"
	"fmt"
)

// UserType classifies the user for the purpose of selecting which
// category-specific reference date is meaningful on a profile.
// Persisted and transmitted as a string; unknown values are rejected on
// decode rather than silently coerced to a default.
type UserType string

const (
	// Pregnant marks a user expecting a child; ExpectedDeliveryDate applies.
	Pregnant UserType = "pregnant"

	// HasChild marks a user with a born child; BirthDate applies.
	HasChild UserType = "hasChild"
)

// Valid reports whether t is one of the known user types.
func (t UserType) Valid() bool {
	switch t {
	case Pregnant, HasChild:
		return true
	}
	return false
}

// UnmarshalJSON decodes a user type string and fails on unknown values.
func (t *UserType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode user type: %w", err)
	}

	parsed := UserType(raw)
	if !parsed.Valid() {
		return fmt.Errorf("decode user type: unknown value %q", raw)
	}

	*t = parsed
	return nil
}

// StorageMode selects the authoritative storage strategy for a profile.
type StorageMode string

const (
	// DeviceOnly keeps all user data in the encrypted local store and never
	// writes it to the remote document API.
	DeviceOnly StorageMode = "deviceOnly"

	// Cloud makes the remote document API authoritative for the profile and
	// the mood history.
	Cloud StorageMode = "cloud"
)

// Valid reports whether m is one of the known storage modes.
func (m StorageMode) Valid() bool {
	switch m {
	case DeviceOnly, Cloud:
		return true
	}
	return false
}

// UnmarshalJSON decodes a storage mode string and fails on unknown values.
func (m *StorageMode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode storage mode: %w", err)
	}

	parsed := StorageMode(raw)
	if !parsed.Valid() {
		return fmt.Errorf("decode storage mode: unknown value %q", raw)
	}

	*m = parsed
	return nil
}

// MoodType is the closed set of mood categories a check-in can carry.
type MoodType string

const (
	MoodGood    MoodType = "good"
	MoodOkay    MoodType = "okay"
	MoodNotGood MoodType = "notGood"
)

// Valid reports whether t is one of the known mood types.
func (t MoodType) Valid() bool {
	switch t {
	case MoodGood, MoodOkay, MoodNotGood:
		return true
	}
	return false
}

// UnmarshalJSON decodes a mood type string and fails on unknown values.
func (t *MoodType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode mood type: %w", err)
	}

	parsed := MoodType(raw)
	if !parsed.Valid() {
		return fmt.Errorf("decode mood type: unknown value %q", raw)
	}

	*t = parsed
	return nil
}
