package migration

import "errors"

var (
	// ErrMigrationFailed wraps the failing phase of a migration attempt.
	// The completion flag stays unset, so the next launch retries the
	// whole migration from the legacy source.
	ErrMigrationFailed = errors.New("flat-to-structured migration failed")
)
