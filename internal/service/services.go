package service

import (
	"github.com/mamacare/companion/internal/adapter"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/prefs"
	"github.com/mamacare/companion/internal/store"
)

// Services groups the reconciliation-layer services for wiring into the app.
type Services struct {
	Session SessionService
	Moods   MoodService
	Profile ProfileService
}

// NewServices wires the service layer over the local storages, the remote
// store and the prefs store. The session service owns the transient session
// state; the mood and profile services share it.
func NewServices(storages *store.Storages, remote adapter.RemoteStore, prefsStore *prefs.Store, log *logger.Logger) *Services {
	sessions := &sessionService{
		remote:   remote,
		storages: storages,
		prefs:    prefsStore,
		logger:   log,
	}

	return &Services{
		Session: sessions,
		Moods:   NewMoodService(sessions, remote, storages, log),
		Profile: NewProfileService(sessions, remote, storages, prefsStore, log),
	}
}
