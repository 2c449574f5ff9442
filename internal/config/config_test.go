package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 10*time.Minute, cfg.HoldDuration)
	assert.Equal(t, time.Minute, cfg.ExpirySkew)
	assert.Equal(t, "tourly", cfg.Database.DBName)
	assert.Equal(t, "tourly-api", cfg.NATS.ClientID)
	assert.Equal(t, "users:auth", cfg.Valkey.UsersHashKey)
	assert.Equal(t, 30*time.Second, cfg.Payment.Timeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("HOLD_DURATION_SEC", "120")
	t.Setenv("EXPIRY_SKEW_SEC", "15")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 2*time.Minute, cfg.HoldDuration)
	assert.Equal(t, 15*time.Second, cfg.ExpirySkew)
	// Unparseable integers fall back to the default
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
}
