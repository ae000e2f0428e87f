package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitness-insights-go/internal/config"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "ENVIRONMENT", "LOG_LEVEL", "AI_GATEWAY_URL", "AI_GATEWAY_API_KEY",
		"LOVABLE_API_KEY", "AI_MODEL", "AI_GATEWAY_TIMEOUT", "AI_GATEWAY_MAX_RETRIES",
	} {
		t.Setenv(k, "")
	}

	cfg, err := config.FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, config.DefaultGatewayURL, cfg.GatewayURL)
	assert.Equal(t, config.DefaultModel, cfg.Model)
	assert.Empty(t, cfg.GatewayAPIKey)
	assert.Equal(t, 30*time.Second, cfg.GatewayTimeout)
	assert.Zero(t, cfg.GatewayMaxRetries)
}

func TestFromEnv_LegacyKeyFallback(t *testing.T) {
	t.Setenv("AI_GATEWAY_API_KEY", "")
	t.Setenv("LOVABLE_API_KEY", "legacy-key")

	cfg, err := config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.GatewayAPIKey)

	t.Setenv("AI_GATEWAY_API_KEY", "primary-key")
	cfg, err = config.FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "primary-key", cfg.GatewayAPIKey)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("AI_GATEWAY_TIMEOUT", "soon")
	_, err := config.FromEnv()
	assert.ErrorContains(t, err, "AI_GATEWAY_TIMEOUT")

	t.Setenv("AI_GATEWAY_TIMEOUT", "5s")
	t.Setenv("AI_GATEWAY_MAX_RETRIES", "-1")
	_, err = config.FromEnv()
	assert.ErrorContains(t, err, "AI_GATEWAY_MAX_RETRIES")
}
