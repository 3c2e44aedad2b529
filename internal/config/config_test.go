package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingRequired(t *testing.T) {
	t.Setenv("GATEWAY_URL", "")
	t.Setenv("GATEWAY_ANON_KEY", "")

	cfg, err := LoadConfig()

	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Equal(t,
		"[CRITICAL_BOOT_ERROR]: Missing required environment variables: GATEWAY_URL, GATEWAY_ANON_KEY",
		err.Error(),
	)

	var missing *MissingEnvError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Keys, 2)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("GATEWAY_URL", "sqlite://:memory:")
	t.Setenv("GATEWAY_ANON_KEY", "anon")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("AI_USE_CLOUD", "true")
	t.Setenv("TRUSTED_PROXIES", " 10.0.0.1, ,10.0.0.2 ")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "sqlite://:memory:", cfg.GatewayURL)
	assert.Equal(t, "anon", cfg.GatewayAnonKey)
	assert.True(t, cfg.AIUseCloud)
	assert.False(t, cfg.RealtimeFullRefetch)
	assert.Equal(t, time.UTC, cfg.Timezone)
	assert.Equal(t, 720*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
}

func TestLoadConfig_RejectsMalformedGatewayURL(t *testing.T) {
	t.Setenv("GATEWAY_URL", "localhost:3306")
	t.Setenv("GATEWAY_ANON_KEY", "anon")

	_, err := LoadConfig()

	assert.ErrorContains(t, err, "GATEWAY_URL")
}

func TestLoadConfig_SessionTTL(t *testing.T) {
	t.Setenv("GATEWAY_URL", "sqlite://:memory:")
	t.Setenv("GATEWAY_ANON_KEY", "anon")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestLoadToolConfig(t *testing.T) {
	t.Setenv("GATEWAY_URL", "")
	_, err := LoadToolConfig()
	require.Error(t, err)

	t.Setenv("GATEWAY_URL", "sqlite://dash.db")
	t.Setenv("TIMEZONE", "Europe/Paris")
	t.Setenv("GATEWAY_ANON_KEY", "")

	cfg, err := LoadToolConfig()

	require.NoError(t, err)
	assert.Equal(t, "sqlite://dash.db", cfg.GatewayURL)
	assert.Equal(t, "Europe/Paris", cfg.Timezone.String())
}
