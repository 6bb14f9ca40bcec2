package adapter

import "errors"

var (
	// ErrUnauthorized is returned when the remote store rejects the
	// credentials or the bearer token.
	ErrUnauthorized = errors.New("remote store unauthorized")

	// ErrProfileNotFound is returned by FetchProfile when no profile
	// document exists for the owner key. Distinct from transport failures:
	// it means "fresh account, no data yet", not "could not ask".
	ErrProfileNotFound = errors.New("remote profile document not found")

	// ErrNotFound is the generic mapping for HTTP 404 on non-profile
	// resources.
	ErrNotFound = errors.New("remote document not found")
)
