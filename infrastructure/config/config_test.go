package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SERVER_ADDRESS", "ENVIRONMENT", "DATA_DIR",
		"JWT_SECRET", "JWT_ISSUER", "TOKEN_TTL",
		"LOG_LEVEL", "ENABLE_CORS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "botflow-backend", cfg.JWTIssuer)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.EnableCORS)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	// development gets a fixed fallback secret
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDRESS", ":9999")
	t.Setenv("DATA_DIR", "/var/lib/botflow")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("ENABLE_CORS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddress)
	assert.Equal(t, "/var/lib/botflow", cfg.DataDir)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.False(t, cfg.EnableCORS)
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "prod-secret")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
}

func TestLoad_AliasesLoadConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDRESS", ":7777")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("TOKEN_TTL", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestValidate_EmptyDataDir(t *testing.T) {
	cfg := &Config{Environment: "development", DataDir: ""}
	assert.Error(t, cfg.Validate())
}
