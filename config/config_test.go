package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reservation-system/config"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "file:reservations.db", cfg.SQLiteDSN)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigin)
	assert.Empty(t, cfg.AdminPasswordHash)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SQLITE_DSN", "file:other.db")
	t.Setenv("CORS_ORIGIN", "https://example.com")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abc")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "file:other.db", cfg.SQLiteDSN)
	assert.Equal(t, "https://example.com", cfg.CORSOrigin)
	assert.Equal(t, "$2a$10$abc", cfg.AdminPasswordHash)
}

func TestInvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := config.Load()
	require.Error(t, err)
}
