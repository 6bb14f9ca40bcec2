// Package service implements the reconciliation policy: for every user
// action it decides whether the remote document store or the local encrypted
// store is authoritative, and degrades gracefully when the remote side is
// unreachable.
//
// Services are explicitly constructed and wired in [NewServices]; there is no
// shared process-wide instance. The only mutable state held here is the
// transient per-session copy of the profile and mood history inside
// [Session].
package service

import (
	"context"

	"github.com/mamacare/companion/models"
)

// Authority identifies which store is authoritative for the session.
type Authority string

const (
	// AuthorityRemote means the remote document store won reconciliation;
	// local rows are at most a cache.
	AuthorityRemote Authority = "remote"

	// AuthorityLocal means the local encrypted store is authoritative,
	// either by choice (device-only mode) or because the remote store was
	// unreachable or empty.
	AuthorityLocal Authority = "local"

	// AuthorityNone means the user is authenticated but no data exists on
	// either side; callers branch into onboarding.
	AuthorityNone Authority = "none"
)

// Session is the transient per-session reconciliation outcome. It is owned
// by the session service; callers receive value copies.
type Session struct {
	// OwnerKey is the remote namespace key, empty when the session was
	// established without reaching the remote store.
	OwnerKey string

	// Authority names the store that won reconciliation for this session.
	Authority Authority

	// Profile is the session's profile copy, nil for AuthorityNone.
	Profile *models.UserProfile

	// Moods is the in-session mood history, newest first.
	Moods []models.MoodEntry

	// LoggedIn mirrors the persisted logged-in flag.
	LoggedIn bool

	// OnboardingComplete mirrors the persisted onboarding flag.
	OnboardingComplete bool
}

// SessionService establishes and exposes the current session.
type SessionService interface {
	// CompleteOnboarding registers the auth identity, then persists the
	// profile to exactly one destination chosen by mode: cloud writes the
	// remote document (no local row), device-only writes the local
	// encrypted row (nothing remote beyond the identity). A profile write
	// failure after registration returns [*OrphanedIdentityError]; the
	// identity is not rolled back.
	CompleteOnboarding(ctx context.Context, profile models.UserProfile, password string, mode models.StorageMode, wantsReminders bool) (Session, error)

	// Resume signs in and reconciles: a fetched remote profile makes the
	// session authoritative-remote (with a best-effort local cache write
	// and cloud mood load); remote not-found or unreachable falls back to
	// the most recent local profile (authoritative-local); with no local
	// profile either, the session is logged-in with [AuthorityNone].
	// Not-found is never reported as success-with-remote-authority.
	Resume(ctx context.Context, email, password string) (Session, error)

	// ResumeWithToken is Resume for a device that still holds a bearer
	// token from a previous session; no credential round-trip.
	ResumeWithToken(ctx context.Context, token string) (Session, error)

	// Current returns a copy of the active session, or false when no
	// session has been established.
	Current() (Session, bool)
}

// MoodService records and serves mood check-ins for the active session.
type MoodService interface {
	// AddCheckIn creates a mood entry, prepends it to the in-session
	// history, then persists it to the single destination selected by the
	// profile's storage mode at operation start: cloud appends one remote
	// document, device-only re-encrypts and bulk-overwrites the full local
	// history.
	AddCheckIn(ctx context.Context, mood models.MoodType, notes *string) (models.MoodEntry, error)

	// History returns the in-session mood history, newest first.
	History(ctx context.Context) ([]models.MoodEntry, error)

	// RefreshFromCloud re-fetches the remote mood documents into the
	// session. No-op for sessions that are not authoritative-remote.
	RefreshFromCloud(ctx context.Context) error
}

// ProfileService mutates the active session's profile, its emergency
// contacts, and the account itself.
type ProfileService interface {
	// UpdateProfile persists profile to the session's authoritative store
	// and replaces the session copy.
	UpdateProfile(ctx context.Context, profile models.UserProfile) error

	// SetStorageMode flips the profile between device-only and cloud and
	// persists through the newly selected mode.
	SetStorageMode(ctx context.Context, mode models.StorageMode) error

	// SetNotifications toggles the notifications-wanted flag.
	SetNotifications(ctx context.Context, wanted bool) error

	// AddContact, UpdateContact and DeleteContact manage the profile's
	// emergency contacts in the local encrypted store. Contacts never
	// leave the device.
	AddContact(ctx context.Context, contact models.EmergencyContact) error
	UpdateContact(ctx context.Context, contact models.EmergencyContact) error
	DeleteContact(ctx context.Context, contact models.EmergencyContact) error

	// Contacts lists the session profile's emergency contacts.
	Contacts(ctx context.Context) ([]models.EmergencyContact, error)

	// DeleteAccount removes the remote documents (moods first, then the
	// profile), cascades the local rows, clears the persisted session
	// flags and ends the session. A remote failure aborts before any
	// local deletion so the caller can retry the whole operation.
	DeleteAccount(ctx context.Context) error

	// Logout clears the persisted session flags and drops the in-memory
	// session and bearer token. Local data stays on the device.
	Logout(ctx context.Context) error
}
