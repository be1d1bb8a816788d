package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"DB_PATH", "PORT", "ADMIN_TOKEN", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS", "SESSION_LIFETIME"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "brackets.db", cfg.DBPath)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.AdminToken)
	assert.Empty(t, cfg.CORSOrigins)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "/var/lib/brackets/prod.db")
	t.Setenv("PORT", "9090")
	t.Setenv("ADMIN_TOKEN", "s3cret")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("SESSION_LIFETIME", "2h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/brackets/prod.db", cfg.DBPath)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "s3cret", cfg.AdminToken)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.SessionLifetime)
}

func TestLoadRejectsBadValues(t *testing.T) {
	testCases := map[string]string{
		"PORT":             "http",
		"LOG_FORMAT":       "xml",
		"SESSION_LIFETIME": "forever",
	}

	for key, value := range testCases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("DB_PATH")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_PATH=from-file.db\n"), 0o600))

	assert.True(t, LoadEnvFile(path))
	assert.False(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DBPath)
}
