package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mamacare/companion/internal/adapter"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/prefs"
	"github.com/mamacare/companion/internal/store"
	"github.com/mamacare/companion/models"
)

type profileService struct {
	sessions *sessionService
	remote   adapter.RemoteStore
	storages *store.Storages
	prefs    *prefs.Store
	logger   *logger.Logger
}

// NewProfileService constructs the profile and account management service.
func NewProfileService(sessions *sessionService, remote adapter.RemoteStore, storages *store.Storages, prefsStore *prefs.Store, logger *logger.Logger) ProfileService {
	return &profileService{
		sessions: sessions,
		remote:   remote,
		storages: storages,
		prefs:    prefsStore,
		logger:   logger,
	}
}

func (p *profileService) UpdateProfile(ctx context.Context, profile models.UserProfile) error {
	sess, ok := p.sessions.Current()
	if !ok || sess.Profile == nil {
		return ErrNoSession
	}

	// Same single-destination rule as every other write.
	switch profile.StorageMode {
	case models.Cloud:
		if err := p.remote.CreateProfile(ctx, profile, sess.OwnerKey); err != nil {
			return fmt.Errorf("updating remote profile document: %w", err)
		}
	default:
		if err := p.storages.Profiles.Update(ctx, profile); err != nil {
			return fmt.Errorf("updating local profile: %w", err)
		}
	}

	return p.sessions.mutate(func(sess *Session) {
		sess.Profile = &profile
	})
}

func (p *profileService) SetStorageMode(ctx context.Context, mode models.StorageMode) error {
	sess, ok := p.sessions.Current()
	if !ok || sess.Profile == nil {
		return ErrNoSession
	}

	profile := *sess.Profile
	profile.StorageMode = mode
	return p.UpdateProfile(ctx, profile)
}

func (p *profileService) SetNotifications(ctx context.Context, wanted bool) error {
	sess, ok := p.sessions.Current()
	if !ok || sess.Profile == nil {
		return ErrNoSession
	}

	profile := *sess.Profile
	profile.NotificationsWanted = wanted
	return p.UpdateProfile(ctx, profile)
}

func (p *profileService) AddContact(ctx context.Context, contact models.EmergencyContact) error {
	return p.saveContact(ctx, contact, p.storages.Contacts.Save)
}

func (p *profileService) UpdateContact(ctx context.Context, contact models.EmergencyContact) error {
	return p.saveContact(ctx, contact, p.storages.Contacts.Update)
}

func (p *profileService) saveContact(ctx context.Context, contact models.EmergencyContact, write func(context.Context, models.EmergencyContact) error) error {
	sess, ok := p.sessions.Current()
	if !ok || sess.Profile == nil {
		return ErrNoSession
	}

	contact.ProfileID = sess.Profile.ID
	if err := write(ctx, contact); err != nil {
		return fmt.Errorf("writing emergency contact: %w", err)
	}
	return nil
}

func (p *profileService) DeleteContact(ctx context.Context, contact models.EmergencyContact) error {
	if _, ok := p.sessions.Current(); !ok {
		return ErrNoSession
	}
	if err := p.storages.Contacts.Delete(ctx, contact.ID); err != nil {
		return fmt.Errorf("deleting emergency contact: %w", err)
	}
	return nil
}

func (p *profileService) Contacts(ctx context.Context) ([]models.EmergencyContact, error) {
	sess, ok := p.sessions.Current()
	if !ok || sess.Profile == nil {
		return nil, ErrNoSession
	}
	return p.storages.Contacts.GetByProfile(ctx, sess.Profile.ID)
}

func (p *profileService) DeleteAccount(ctx context.Context) error {
	log := logger.FromContext(ctx)

	sess, ok := p.sessions.Current()
	if !ok {
		return ErrNoSession
	}

	// Remote first: a failure here aborts before any local row is touched,
	// so a retry repeats the whole two-phase delete.
	if sess.OwnerKey != "" {
		if err := p.remote.DeleteAllData(ctx, sess.OwnerKey); err != nil {
			return fmt.Errorf("deleting remote documents: %w", err)
		}
	}

	if sess.Profile != nil {
		if err := p.storages.Profiles.Delete(ctx, sess.Profile.ID); err != nil && !errors.Is(err, store.ErrProfileNotFound) {
			return fmt.Errorf("deleting local profile: %w", err)
		}
	}

	p.clearSessionState(ctx)
	log.Info().
		Str("func", "profileService.DeleteAccount").
		Str("owner_key", sess.OwnerKey).
		Msg("account deleted")

	return nil
}

func (p *profileService) Logout(ctx context.Context) error {
	if _, ok := p.sessions.Current(); !ok {
		return ErrNoSession
	}

	p.clearSessionState(ctx)
	logger.FromContext(ctx).Info().
		Str("func", "profileService.Logout").
		Msg("logged out")

	return nil
}

func (p *profileService) clearSessionState(ctx context.Context) {
	if err := p.prefs.SetBool(prefs.KeyLoggedIn, false); err != nil {
		logger.FromContext(ctx).Warn().Err(err).Msg("failed to clear logged-in flag")
	}
	p.remote.SetToken("")
	p.sessions.clear()
}
