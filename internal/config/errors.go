package config

import "errors"

// Validation errors returned by [Config.validate] when required settings are
// missing from all sources (env, JSON file, defaults).
var (
	// ErrNoKeyStorePath indicates the protected keystore directory is unset.
	ErrNoKeyStorePath = errors.New("no keystore path configured")
	// ErrNoPrefsPath indicates the app-settings file path is unset.
	ErrNoPrefsPath = errors.New("no prefs path configured")
	// ErrNoDatabaseDSN indicates the local structured store DSN is unset.
	ErrNoDatabaseDSN = errors.New("no database dsn configured")
	// ErrNoRemoteBaseURL indicates the remote document API endpoint is unset.
	ErrNoRemoteBaseURL = errors.New("no remote base url configured")
)
