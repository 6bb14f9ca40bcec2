package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── build ─────────────────────────────────────────────────────────────────────

// TestBuild_DefaultsOnly verifies that with no env and no JSON file the
// built-in defaults survive validation.
func TestBuild_DefaultsOnly(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "companion-keystore", cfg.App.KeyStorePath)
	assert.Equal(t, "companion.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "http://localhost:8080", cfg.Remote.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.Workers.RefreshInterval)
}

// TestBuild_EarlierSourceWins verifies merge priority: a value present in an
// earlier config is not overwritten by a later one.
func TestBuild_EarlierSourceWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&Config{Storage: Storage{DB: DB{DSN: "from-env.db"}}},
		defaults(),
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "companion-keystore", cfg.App.KeyStorePath)
}

// TestBuild_PropagatesBuilderError verifies that a pre-set b.err is wrapped
// and returned, with nil config.
func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_ValidationRejectsEmptyDSN verifies that validation sentinels
// surface through build.
func TestBuild_ValidationRejectsEmptyDSN(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &Config{
		App:    App{KeyStorePath: "ks", PrefsPath: "prefs.json"},
		Remote: Remote{BaseURL: "http://localhost:8080", RequestTimeout: time.Second},
	})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrNoDatabaseDSN)
}

// ── env ───────────────────────────────────────────────────────────────────────

func TestWithEnv_ReadsPrefixedVariables(t *testing.T) {
	t.Setenv("STORAGE_DB_DSN", "env-companion.db")
	t.Setenv("REMOTE_BASE_URL", "https://api.example.com")
	t.Setenv("WORKERS_REFRESH_INTERVAL", "90s")

	cfg, err := newConfigBuilder().withEnv().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, "env-companion.db", cfg.Storage.DB.DSN)
	assert.Equal(t, "https://api.example.com", cfg.Remote.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.Workers.RefreshInterval)
}

// ── json ──────────────────────────────────────────────────────────────────────

func TestWithJSON_MergesUnderEnv(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"storage": map[string]any{"db": map[string]any{"dsn": "file-companion.db"}},
		"remote":  map[string]any{"request_timeout": "30s"},
	})
	t.Setenv("CONFIG", path)
	t.Setenv("REMOTE_BASE_URL", "https://env.example.com")

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "file-companion.db", cfg.Storage.DB.DSN)
	assert.Equal(t, 30*time.Second, cfg.Remote.RequestTimeout)
	// Env beats file.
	assert.Equal(t, "https://env.example.com", cfg.Remote.BaseURL)
}

func TestParseJSON_UnreadableFile(t *testing.T) {
	_, err := parseJSON("does-not-exist.json")
	require.Error(t, err)
}

// ── Duration ──────────────────────────────────────────────────────────────────

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{name: "string form", in: `"1h30m"`, want: 90 * time.Minute},
		{name: "number of nanoseconds", in: `1000000000`, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}

	var d Duration
	assert.Error(t, json.Unmarshal([]byte(`"not a duration"`), &d))
}
