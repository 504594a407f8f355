package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cdapos/internal/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173,https://caja.cda.test")
	t.Setenv("TREASURY_MIN_BALANCE", "250000")
	t.Setenv("REDIS_TTL", "2m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"http://localhost:5173", "https://caja.cda.test"}, cfg.Server.CORSOrigins)
	assert.True(t, cfg.Treasury.MinBalance.Equal(decimal.NewFromInt(250000)))
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Contains(t, cfg.ConnectionString(), "postgres://")
	assert.Contains(t, cfg.ConnectionString(), ":pw@db:")
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLocation(t *testing.T) {
	var cfg config.Config

	cfg.App.Timezone = "America/Bogota"
	loc := cfg.Location()
	_, offset := time.Date(2026, 3, 10, 12, 0, 0, 0, loc).Zone()
	assert.Equal(t, -5*3600, offset)

	cfg.App.Timezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, cfg.Location())
}
