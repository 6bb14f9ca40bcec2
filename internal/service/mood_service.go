package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mamacare/companion/internal/adapter"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/store"
	"github.com/mamacare/companion/internal/utils"
	"github.com/mamacare/companion/models"
)

type moodService struct {
	sessions *sessionService
	remote   adapter.RemoteStore
	storages *store.Storages
	logger   *logger.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// NewMoodService constructs the mood check-in service bound to the session
// service that owns the in-session history.
func NewMoodService(sessions *sessionService, remote adapter.RemoteStore, storages *store.Storages, logger *logger.Logger) MoodService {
	return &moodService{
		sessions: sessions,
		remote:   remote,
		storages: storages,
		logger:   logger,
		now:      time.Now,
		newID:    utils.NewUUID,
	}
}

func (m *moodService) AddCheckIn(ctx context.Context, mood models.MoodType, notes *string) (models.MoodEntry, error) {
	log := logger.FromContext(ctx)

	sess, ok := m.sessions.Current()
	if !ok || sess.Profile == nil {
		return models.MoodEntry{}, ErrNoSession
	}

	entry := models.MoodEntry{
		ID:        m.newID(),
		ProfileID: sess.Profile.ID,
		Date:      m.now(),
		Mood:      mood,
		Notes:     notes,
	}

	// The in-session history is updated before any persistence attempt, so
	// the user sees the check-in immediately even if the write fails.
	var history []models.MoodEntry
	if err := m.sessions.mutate(func(sess *Session) {
		sess.Moods = append([]models.MoodEntry{entry}, sess.Moods...)
		history = sess.Moods
	}); err != nil {
		return models.MoodEntry{}, err
	}

	// Destination is fixed at operation start by the profile's mode.
	switch sess.Profile.StorageMode {
	case models.Cloud:
		if err := m.remote.AppendMoodEntry(ctx, entry, sess.OwnerKey); err != nil {
			log.Err(err).
				Str("func", "moodService.AddCheckIn").
				Str("entry_id", entry.ID.String()).
				Msg("failed to append mood entry to remote store")
			return entry, fmt.Errorf("appending mood entry to remote store: %w", err)
		}
	default:
		// The flat-store era wrote the whole history on every check-in;
		// the structured store keeps that contract as one transaction.
		if err := m.storages.Moods.ReplaceAll(ctx, sess.Profile.ID, history); err != nil {
			log.Err(err).
				Str("func", "moodService.AddCheckIn").
				Str("entry_id", entry.ID.String()).
				Msg("failed to persist mood history locally")
			return entry, fmt.Errorf("persisting mood history locally: %w", err)
		}
	}

	return entry, nil
}

func (m *moodService) History(ctx context.Context) ([]models.MoodEntry, error) {
	sess, ok := m.sessions.Current()
	if !ok {
		return nil, ErrNoSession
	}
	return sess.Moods, nil
}

func (m *moodService) RefreshFromCloud(ctx context.Context) error {
	sess, ok := m.sessions.Current()
	if !ok {
		return ErrNoSession
	}
	if sess.Authority != AuthorityRemote {
		return nil
	}

	moods, err := m.remote.ListMoodEntries(ctx, sess.OwnerKey)
	if err != nil {
		return fmt.Errorf("refreshing cloud mood history: %w", err)
	}

	return m.sessions.mutate(func(sess *Session) {
		sess.Moods = moods
	})
}
