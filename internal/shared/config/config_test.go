package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "STORAGE_PROVIDER", "EXPORT_DIR", "EXPORT_BASE_URL",
		"EXPORT_TTL", "EXPORT_SWEEP_SCHEDULE", "DEFAULT_CURRENCY"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "local", cfg.StorageProvider)
	assert.Equal(t, "./exports", cfg.ExportDir)
	assert.Equal(t, "http://localhost:8080", cfg.ExportBaseURL)
	assert.Equal(t, 2*time.Minute, cfg.ExportTTL)
	assert.Equal(t, "@every 5m", cfg.ExportSweepSchedule)
	assert.Equal(t, "F", cfg.DefaultCurrency)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("EXPORT_TTL", "10m")
	t.Setenv("STORAGE_PROVIDER", "s3")
	t.Setenv("DEFAULT_CURRENCY", "FCFA")

	cfg := LoadConfig()

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 10*time.Minute, cfg.ExportTTL)
	assert.Equal(t, "s3", cfg.StorageProvider)
	assert.Equal(t, "FCFA", cfg.DefaultCurrency)
}

func TestLoadConfigInvalidTTL(t *testing.T) {
	t.Setenv("EXPORT_TTL", "soon")
	assert.Equal(t, 2*time.Minute, LoadConfig().ExportTTL)
}
