package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrProfileNotFound is returned when a query expected to match a user
	// profile produces an empty result set.
	ErrProfileNotFound = errors.New("no user profile was found")

	// ErrMoodEntryNotFound is returned when an operation targets a mood
	// entry that does not exist in the database.
	ErrMoodEntryNotFound = errors.New("mood entry was not found")

	// ErrContactNotFound is returned when an operation targets an emergency
	// contact that does not exist in the database.
	ErrContactNotFound = errors.New("emergency contact was not found")

	// ErrInvalidStoredEnum is returned when a persisted enum column holds a
	// value outside the closed set, e.g. after a schema change. The read is
	// aborted rather than defaulted so corruption stays visible.
	ErrInvalidStoredEnum = errors.New("invalid enum value in stored row")
)

// Low-level database operation errors, wrapped by repository methods when a
// SQL-level operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when committing an open
	// transaction fails. The transaction is rolled back at this point.
	ErrCommittingTransaction = errors.New("failed to commit transaction")
)
