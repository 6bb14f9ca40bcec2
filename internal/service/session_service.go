package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mamacare/companion/internal/adapter"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/prefs"
	"github.com/mamacare/companion/internal/store"
	"github.com/mamacare/companion/models"
)

type sessionService struct {
	remote   adapter.RemoteStore
	storages *store.Storages
	prefs    *prefs.Store
	logger   *logger.Logger

	mu      sync.RWMutex
	current *Session
}

// NewSessionService constructs the session reconciliation service over the
// remote store, the local storages and the prefs store holding the persisted
// session flags.
func NewSessionService(remote adapter.RemoteStore, storages *store.Storages, prefsStore *prefs.Store, logger *logger.Logger) SessionService {
	return &sessionService{
		remote:   remote,
		storages: storages,
		prefs:    prefsStore,
		logger:   logger,
	}
}

func (s *sessionService) CompleteOnboarding(ctx context.Context, profile models.UserProfile, password string, mode models.StorageMode, wantsReminders bool) (Session, error) {
	log := logger.FromContext(ctx)

	ownerKey, err := s.remote.SignUp(ctx, profile.Email, password)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSignUpOnRemote, err)
	}

	profile.StorageMode = mode
	profile.NotificationsWanted = wantsReminders

	// Exactly one destination, chosen by mode. The remote auth identity
	// already exists either way; a failed profile write leaves it behind
	// and is reported as such.
	switch mode {
	case models.Cloud:
		if err := s.remote.CreateProfile(ctx, profile, ownerKey); err != nil {
			return Session{}, &OrphanedIdentityError{OwnerKey: ownerKey, Err: err}
		}
	default:
		if err := s.storages.Profiles.Save(ctx, profile); err != nil {
			return Session{}, &OrphanedIdentityError{OwnerKey: ownerKey, Err: err}
		}
	}

	s.setFlags(ctx, true, true)

	authority := AuthorityLocal
	if mode == models.Cloud {
		authority = AuthorityRemote
	}
	log.Info().
		Str("func", "sessionService.CompleteOnboarding").
		Str("owner_key", ownerKey).
		Str("storage_mode", string(mode)).
		Msg("onboarding complete")

	return s.install(Session{
		OwnerKey:           ownerKey,
		Authority:          authority,
		Profile:            &profile,
		LoggedIn:           true,
		OnboardingComplete: true,
	}), nil
}

func (s *sessionService) Resume(ctx context.Context, email, password string) (Session, error) {
	ownerKey, err := s.remote.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, adapter.ErrUnauthorized) {
			return Session{}, fmt.Errorf("%w: %v", ErrSignInOnRemote, err)
		}
		// Remote unreachable: reconcile against local data only.
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("func", "sessionService.Resume").
			Msg("remote sign-in unreachable, falling back to local store")
		return s.resumeLocal(ctx, "")
	}

	return s.reconcile(ctx, ownerKey)
}

func (s *sessionService) ResumeWithToken(ctx context.Context, token string) (Session, error) {
	ownerKey, err := s.remote.Restore(token)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrSignInOnRemote, err)
	}

	return s.reconcile(ctx, ownerKey)
}

// reconcile decides the session authority for an authenticated owner key:
// remote profile document wins; absent or unreachable remote falls back to
// the most recent local profile; no data anywhere is still a logged-in
// session, with no authority.
func (s *sessionService) reconcile(ctx context.Context, ownerKey string) (Session, error) {
	log := logger.FromContext(ctx)

	profile, err := s.remote.FetchProfile(ctx, ownerKey)
	if err != nil {
		if !errors.Is(err, adapter.ErrProfileNotFound) {
			log.Warn().
				Err(err).
				Str("func", "sessionService.reconcile").
				Msg("remote profile fetch failed, falling back to local store")
		}
		return s.resumeLocal(ctx, ownerKey)
	}

	sess := Session{
		OwnerKey:           ownerKey,
		Authority:          AuthorityRemote,
		Profile:            &profile,
		LoggedIn:           true,
		OnboardingComplete: true,
	}

	// Best-effort extras: neither a cache write nor a mood fetch failure
	// demotes the remote authority.
	if err := s.storages.Profiles.Save(ctx, profile); err != nil {
		log.Warn().
			Err(err).
			Str("func", "sessionService.reconcile").
			Msg("failed to cache remote profile locally")
	}
	if moods, err := s.remote.ListMoodEntries(ctx, ownerKey); err != nil {
		log.Warn().
			Err(err).
			Str("func", "sessionService.reconcile").
			Msg("failed to load cloud mood history")
	} else {
		sess.Moods = moods
	}

	s.setFlags(ctx, true, true)
	log.Info().
		Str("func", "sessionService.reconcile").
		Str("owner_key", ownerKey).
		Msg("session resumed with remote authority")

	return s.install(sess), nil
}

func (s *sessionService) resumeLocal(ctx context.Context, ownerKey string) (Session, error) {
	log := logger.FromContext(ctx)

	profile, err := s.storages.Profiles.GetMostRecent(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrProfileNotFound) {
			return Session{}, fmt.Errorf("loading local profile: %w", err)
		}

		// Authenticated, no data on either side.
		s.setFlags(ctx, true, false)
		log.Info().
			Str("func", "sessionService.resumeLocal").
			Msg("session resumed with no data on this device")
		return s.install(Session{
			OwnerKey:  ownerKey,
			Authority: AuthorityNone,
			LoggedIn:  true,
		}), nil
	}

	sess := Session{
		OwnerKey:           ownerKey,
		Authority:          AuthorityLocal,
		Profile:            &profile,
		LoggedIn:           true,
		OnboardingComplete: true,
	}

	if moods, err := s.storages.Moods.GetByProfile(ctx, profile.ID); err != nil {
		log.Warn().
			Err(err).
			Str("func", "sessionService.resumeLocal").
			Msg("failed to load local mood history")
	} else {
		sess.Moods = moods
	}

	s.setFlags(ctx, true, true)
	log.Info().
		Str("func", "sessionService.resumeLocal").
		Str("profile_id", profile.ID.String()).
		Msg("session resumed with local authority")

	return s.install(sess), nil
}

func (s *sessionService) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// install stores sess as the active session and returns a copy.
func (s *sessionService) install(sess Session) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &sess
	return sess
}

// mutate runs fn with the active session under the write lock. Returns
// [ErrNoSession] when no session is installed.
func (s *sessionService) mutate(fn func(*Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ErrNoSession
	}
	fn(s.current)
	return nil
}

// clear drops the active session.
func (s *sessionService) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *sessionService) setFlags(ctx context.Context, loggedIn, onboardingDone bool) {
	if err := s.prefs.SetBool(prefs.KeyLoggedIn, loggedIn); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("failed to persist logged-in flag")
	}
	if err := s.prefs.SetBool(prefs.KeyOnboardingDone, onboardingDone); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("failed to persist onboarding flag")
	}
}
