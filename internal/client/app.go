// Package client assembles the data layer into a running app: one-shot
// migration at startup, then the reconciliation services and background
// refresh, in that order.
package client

import (
	"context"
	"fmt"

	"github.com/mamacare/companion/internal/config"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/migration"
	"github.com/mamacare/companion/internal/service"
	"github.com/mamacare/companion/internal/workers"
)

// App owns the startup sequence and the lifecycle of the background jobs.
type App struct {
	services *service.Services
	migrator *migration.Coordinator
	refresh  *workers.CloudRefreshJob
	cfg      config.Workers
	logger   *logger.Logger
}

// NewApp wires the assembled services, the migration coordinator and the
// background refresh job into an app.
func NewApp(services *service.Services, migrator *migration.Coordinator, refresh *workers.CloudRefreshJob, cfg config.Workers, logger *logger.Logger) (*App, error) {
	if services == nil || migrator == nil || refresh == nil {
		return nil, fmt.Errorf("app requires services, migrator and refresh job")
	}
	return &App{
		services: services,
		migrator: migrator,
		refresh:  refresh,
		cfg:      cfg,
		logger:   logger,
	}, nil
}

// Services exposes the reconciliation services to the presentation layer.
func (a *App) Services() *service.Services {
	return a.services
}

// Run executes the startup sequence and blocks until ctx is cancelled.
// Migration runs before any reconciliation activity; a failed migration is
// logged and retried on the next launch rather than blocking startup.
func (a *App) Run(ctx context.Context) error {
	if a.migrator.NeedsMigration(ctx) {
		a.logger.Info().Msg("legacy flat-store data found, migrating")
		if err := a.migrator.PerformMigration(ctx); err != nil {
			a.logger.Err(err).Msg("migration failed, will retry on next launch")
		}
	}

	a.refresh.Start(ctx, a.cfg.RefreshInterval)
	defer a.refresh.Stop()

	<-ctx.Done()
	a.logger.Info().Msg("shutting down")

	return nil
}
