package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "localhost", cfg.PostgresHost)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "ecommerce-api", cfg.JWTIssuer)
	assert.Equal(t, "ecommerce-clients", cfg.JWTAudience)
	assert.Equal(t, time.Hour, cfg.TokenExpiry())
	assert.Equal(t, 5, cfg.LockoutThreshold)
	assert.Equal(t, 15*time.Minute, cfg.LockoutWindow())
}

func TestLoad_OverridesFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9191")
	t.Setenv("JWT_TOKEN_EXPIRY", "30m")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("LOGIN_LOCKOUT_THRESHOLD", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.TokenExpiry())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3, cfg.LockoutThreshold)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "99999")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidJWTExpiry(t *testing.T) {
	t.Setenv("JWT_TOKEN_EXPIRY", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidLockoutThreshold(t *testing.T) {
	t.Setenv("LOGIN_LOCKOUT_THRESHOLD", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresExplicitSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRejectsShortSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionWithStrongSecret(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "an-explicitly-configured-secret-of-sufficient-length")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}
