// Package config assembles the companion data-layer configuration from
// environment variables, an optional JSON file, and built-in defaults.
// Sources are merged in priority order (env > file > defaults) with mergo.
package config

import (
	"time"
)

// Config is the top-level configuration container for the companion data
// layer. It is populated by merging values from environment variables, an
// optional JSON file, and defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type Config struct {
	// App holds application-level settings: the protected keystore location
	// and the app-settings (prefs) file.
	App App `envPrefix:"APP_"`

	// Storage holds local persistence settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Remote holds the remote document API endpoint settings.
	Remote Remote `envPrefix:"REMOTE_"`

	// Workers holds background job settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged underneath the values
	// already loaded from the environment.
	// Env: CONFIG
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// KeyStorePath is the directory holding the protected symmetric-key
	// entry. Created 0700 on first use.
	// Env: APP_KEYSTORE_PATH
	KeyStorePath string `env:"KEYSTORE_PATH"`

	// PrefsPath is the path of the general app-settings file holding the
	// legacy flat-store blobs, the migration flag, and session flags.
	// Env: APP_PREFS_PATH
	PrefsPath string `env:"PREFS_PATH"`
}

// Storage groups local persistence settings.
type Storage struct {
	// DB holds the local structured store connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB contains the SQLite connection settings for the local structured store.
type DB struct {
	// DSN is the SQLite file path (or ":memory:" for tests).
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Remote holds network settings for the remote document API client.
type Remote struct {
	// BaseURL is the HTTP endpoint of the remote document API.
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the default timeout for outbound requests.
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers contains background job settings.
type Workers struct {
	// RefreshInterval defines how often the cloud mood-refresh job runs.
	// Env: WORKERS_REFRESH_INTERVAL
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL"`
}

// defaults returns the built-in configuration used when neither the
// environment nor a JSON file provides a value.
func defaults() *Config {
	return &Config{
		App: App{
			KeyStorePath: "companion-keystore",
			PrefsPath:    "companion-prefs.json",
		},
		Storage: Storage{
			DB: DB{DSN: "companion.db"},
		},
		Remote: Remote{
			BaseURL:        "http://localhost:8080",
			RequestTimeout: 15 * time.Second,
		},
		Workers: Workers{
			RefreshInterval: 5 * time.Minute,
		},
	}
}

// validate checks invariants that must hold regardless of source.
func (c *Config) validate() error {
	if c.App.KeyStorePath == "" {
		return ErrNoKeyStorePath
	}
	if c.App.PrefsPath == "" {
		return ErrNoPrefsPath
	}
	if c.Storage.DB.DSN == "" {
		return ErrNoDatabaseDSN
	}
	if c.Remote.BaseURL == "" {
		return ErrNoRemoteBaseURL
	}
	return nil
}
