package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH0_DOMAIN", "tenant.auth0.com")
	t.Setenv("AUTH0_CLIENT_ID", "client-id")
	t.Setenv("AUTH0_CLIENT_SECRET", "client-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, "https://tenant.auth0.com/api/v2/", cfg.Auth0Audience)
	assert.Equal(t, "http://localhost:8080/callback", cfg.Auth0CallbackURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 60*time.Second, cfg.TokenRefreshMargin)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("AUTH0_AUDIENCE", "https://custom/api/")
	t.Setenv("AUTH0_CALLBACK_URL", "https://app.example.com/cb")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("MGMT_TOKEN_REFRESH_MARGIN", "2m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://custom/api/", cfg.Auth0Audience)
	assert.Equal(t, "https://app.example.com/cb", cfg.Auth0CallbackURL)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 2*time.Minute, cfg.TokenRefreshMargin)
}

func TestLoadMissingRequired(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"missing domain", "AUTH0_DOMAIN"},
		{"missing client id", "AUTH0_CLIENT_ID"},
		{"missing client secret", "AUTH0_CLIENT_SECRET"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.omit, "")

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
