// Package adapter provides the transport layer for the per-user remote
// document store.
//
// The primary abstraction is [RemoteStore], which decouples the service layer
// from the wire protocol. The package ships an HTTP/REST implementation
// ([NewHTTPRemoteStore]) built on resty. Error values defined in errors.go
// are mapped from HTTP status codes so that callers can use [errors.Is] for
// transport-agnostic error handling ([ErrProfileNotFound] for a missing
// profile document, [ErrUnauthorized] for 401).
//
// No field encryption happens at this layer: the remote store is trusted with
// document contents, confidentiality at rest is the local store's concern.
package adapter

import (
	"context"

	"github.com/mamacare/companion/models"
)

// RemoteStore defines transport-agnostic communication with the remote
// per-user document API. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to the
// sentinel values defined in this package.
type RemoteStore interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It is called automatically after a
	// successful SignUp or SignIn.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// SignUp registers a new auth identity and returns the owner key under
	// which this user's documents are namespaced. On success the bearer
	// token is stored via SetToken.
	SignUp(ctx context.Context, email, password string) (string, error)

	// SignIn authenticates an existing identity and returns its owner key.
	// On success the bearer token is stored via SetToken. Returns
	// [ErrUnauthorized] (wrapped) when the credentials are rejected.
	SignIn(ctx context.Context, email, password string) (string, error)

	// Restore adopts a previously issued bearer token, stores it via
	// SetToken, and returns the owner key carried in its subject claim.
	// No network round-trip: a stale token surfaces as [ErrUnauthorized]
	// on the first authenticated request instead.
	Restore(token string) (string, error)

	// CreateProfile writes the profile document under the owner key,
	// replacing any previous document.
	CreateProfile(ctx context.Context, profile models.UserProfile, ownerKey string) error

	// FetchProfile reads the profile document for the owner key. Returns
	// [ErrProfileNotFound] (wrapped) when no document exists, distinct from
	// transport and auth failures.
	FetchProfile(ctx context.Context, ownerKey string) (models.UserProfile, error)

	// DeleteAllData removes every document owned by the owner key: all mood
	// documents first, then the profile document. The backing store does
	// not cascade, so the delete is two-phase; on partial failure the
	// caller retries the whole operation.
	DeleteAllData(ctx context.Context, ownerKey string) error

	// AppendMoodEntry adds one mood document under the owner key.
	AppendMoodEntry(ctx context.Context, entry models.MoodEntry, ownerKey string) error

	// ListMoodEntries returns the owner's mood documents, occurrence date
	// descending.
	ListMoodEntries(ctx context.Context, ownerKey string) ([]models.MoodEntry, error)
}
