package store

import (
	"github.com/Masterminds/squirrel"
)

// qb is the shared squirrel builder; SQLite uses question placeholders.
var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

var (
	profileColumns = []string{
		"id",
		"first_name",
		"last_name",
		"email",
		"country",
		"mobile_number",
		"user_type",
		"expected_delivery_date",
		"birth_date",
		"storage_mode",
		"privacy_accepted_at",
		"notifications_wanted",
		"created_at",
	}

	moodColumns = []string{
		"id",
		"profile_id",
		"date",
		"mood",
		"encrypted_notes",
	}

	contactColumns = []string{
		"id",
		"profile_id",
		"encrypted_name",
		"encrypted_relationship",
		"encrypted_phone_number",
		"encrypted_email",
	}
)

// selectProfiles returns all profiles, newest first.
func selectProfiles() squirrel.SelectBuilder {
	return qb.Select(profileColumns...).
		From("user_profiles").
		OrderBy("created_at DESC")
}

// selectMoodsByProfile returns the profile's mood entries, occurrence date
// descending. The owner filter runs in SQL rather than in memory; same
// result set, bounded single-user volume either way.
func selectMoodsByProfile(profileID string) squirrel.SelectBuilder {
	return qb.Select(moodColumns...).
		From("mood_entries").
		Where(squirrel.Eq{"profile_id": profileID}).
		OrderBy("date DESC")
}

// selectContactsByProfile returns the profile's contacts.
func selectContactsByProfile(profileID string) squirrel.SelectBuilder {
	return qb.Select(contactColumns...).
		From("emergency_contacts").
		Where(squirrel.Eq{"profile_id": profileID})
}

const (
	upsertProfile = `
		INSERT INTO user_profiles (
			id,
			first_name,
			last_name,
			email,
			country,
			mobile_number,
			user_type,
			expected_delivery_date,
			birth_date,
			storage_mode,
			privacy_accepted_at,
			notifications_wanted,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			first_name             = excluded.first_name,
			last_name              = excluded.last_name,
			email                  = excluded.email,
			country                = excluded.country,
			mobile_number          = excluded.mobile_number,
			user_type              = excluded.user_type,
			expected_delivery_date = excluded.expected_delivery_date,
			birth_date             = excluded.birth_date,
			storage_mode           = excluded.storage_mode,
			privacy_accepted_at    = excluded.privacy_accepted_at,
			notifications_wanted   = excluded.notifications_wanted,
			created_at             = excluded.created_at;`

	deleteProfile = `DELETE FROM user_profiles WHERE id = ?;`

	upsertMoodEntry = `
		INSERT INTO mood_entries (
			id,
			profile_id,
			date,
			mood,
			encrypted_notes
		) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			profile_id      = excluded.profile_id,
			date            = excluded.date,
			mood            = excluded.mood,
			encrypted_notes = excluded.encrypted_notes;`

	deleteMoodEntry = `DELETE FROM mood_entries WHERE id = ?;`

	deleteMoodEntriesByProfile = `DELETE FROM mood_entries WHERE profile_id = ?;`

	upsertContact = `
		INSERT INTO emergency_contacts (
			id,
			profile_id,
			encrypted_name,
			encrypted_relationship,
			encrypted_phone_number,
			encrypted_email
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			profile_id             = excluded.profile_id,
			encrypted_name         = excluded.encrypted_name,
			encrypted_relationship = excluded.encrypted_relationship,
			encrypted_phone_number = excluded.encrypted_phone_number,
			encrypted_email        = excluded.encrypted_email;`

	deleteContact = `DELETE FROM emergency_contacts WHERE id = ?;`
)
