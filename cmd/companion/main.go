package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/mamacare/companion/internal/adapter"
	"github.com/mamacare/companion/internal/client"
	"github.com/mamacare/companion/internal/config"
	"github.com/mamacare/companion/internal/crypto"
	"github.com/mamacare/companion/internal/legacy"
	"github.com/mamacare/companion/internal/logger"
	"github.com/mamacare/companion/internal/migration"
	"github.com/mamacare/companion/internal/prefs"
	"github.com/mamacare/companion/internal/service"
	"github.com/mamacare/companion/internal/store"
	"github.com/mamacare/companion/internal/workers"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("companion")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	vault := crypto.NewKeyVault(crypto.NewFileKeyStore(cfg.App.KeyStorePath), log)
	cipher := crypto.NewCipher(vault)

	prefsStore, err := prefs.NewStore(cfg.App.PrefsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("open app settings store")
	}

	storages, err := store.NewStorages(cfg.Storage, cipher, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	remote, err := adapter.NewHTTPRemoteStore(cfg.Remote, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote store client")
	}

	services := service.NewServices(storages, remote, prefsStore, log)

	migrator := migration.NewCoordinator(legacy.NewReader(prefsStore, cipher, log), prefsStore, storages, log)
	refreshJob := workers.NewCloudRefreshJob(services.Moods, log)

	app, err := client.NewApp(services, migrator, refreshJob, cfg.Workers, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init app error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("app run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
