package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"Warszawa", "Kraków", "Gdańsk"}, cfg.Cities)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, airquality.BandingInclusive, cfg.Banding)
	assert.True(t, cfg.AllowSynthetic)
	assert.False(t, cfg.SyntheticOnly)
	assert.False(t, cfg.HistoryEnabled)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TARGET_CITIES", "Poznań, Wrocław")
	t.Setenv("CACHE_TTL", "30m")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("PIPELINE_CONCURRENCY", "5")
	t.Setenv("BANDING", "exclusive")
	t.Setenv("ALLOW_SYNTHETIC_FALLBACK", "false")
	t.Setenv("SYNTHETIC_ONLY", "true")
	t.Setenv("APP_PORT", "9090")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"Poznań", "Wrocław"}, cfg.Cities)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, airquality.BandingExclusive, cfg.Banding)
	assert.False(t, cfg.AllowSynthetic)
	assert.True(t, cfg.SyntheticOnly)
	assert.Equal(t, "9090", cfg.HTTPPort)
}

func TestFromEnv_EmptyCityList(t *testing.T) {
	t.Setenv("TARGET_CITIES", " , ,")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "TARGET_CITIES")
}

func TestFromEnv_InvalidDuration(t *testing.T) {
	t.Setenv("CACHE_TTL", "soon")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "CACHE_TTL")
}

func TestFromEnv_NegativeDuration(t *testing.T) {
	t.Setenv("REFRESH_INTERVAL", "-1h")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "REFRESH_INTERVAL")
}

func TestFromEnv_InvalidConcurrency(t *testing.T) {
	t.Setenv("PIPELINE_CONCURRENCY", "0")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "PIPELINE_CONCURRENCY")
}

func TestFromEnv_InvalidBanding(t *testing.T) {
	t.Setenv("BANDING", "fuzzy")

	_, err := FromEnv()
	assert.ErrorContains(t, err, "BANDING")
}
