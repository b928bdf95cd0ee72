package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("IDENTITY_BASE_URL", "https://project.example.co")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "property-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.True(t, cfg.Security.CSRFEnabled)
	assert.Equal(t, 120, cfg.Security.RateLimitPerMinute)
	assert.Equal(t, "https://project.example.co", cfg.Identity.BaseURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("IDENTITY_BASE_URL", "https://project.example.co")
	t.Setenv("IDENTITY_SERVICE_ROLE_KEY", "service-key")
	t.Setenv("IDENTITY_TIMEOUT_SECONDS", "3")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SECURITY_CSRF_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "service-key", cfg.Identity.ServiceRoleKey)
	assert.Equal(t, "3s", cfg.Identity.Timeout().String())
	assert.False(t, cfg.Security.CSRFEnabled)
}

func TestLoadRequiresIdentitySettings(t *testing.T) {
	t.Setenv("IDENTITY_BASE_URL", "")
	t.Setenv("IDENTITY_JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidRedisDB(t *testing.T) {
	t.Setenv("IDENTITY_BASE_URL", "https://project.example.co")
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
