// Package config loads process configuration from the environment once at
// startup. The resulting Config is immutable input to the coordinator; no
// component reads ambient state afterwards.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
)

// Defaults mirror the GIOŚ provider's behavior: the index is recomputed
// hourly, so that is both the cache TTL and the refresh cadence.
const (
	defaultCities          = "Warszawa,Kraków,Gdańsk"
	defaultCacheTTL        = time.Hour
	defaultRefreshInterval = time.Hour
	defaultRequestTimeout  = 30 * time.Second
	defaultHTTPPort        = "8080"
	defaultConcurrency     = 3
)

// Config is the full process configuration.
type Config struct {
	// Cities is the fixed set of monitored cities.
	Cities []string

	// ProviderBaseURL is the GIOŚ API base address. Empty means the client
	// default.
	ProviderBaseURL string

	// CacheTTL is how long an enriched result stays fresh.
	CacheTTL time.Duration

	// RefreshInterval is the scheduler's period between pipeline runs.
	RefreshInterval time.Duration

	// RequestTimeout bounds individual provider HTTP calls.
	RequestTimeout time.Duration

	// AllowSynthetic enables the synthetic fallback when the provider is
	// unreachable.
	AllowSynthetic bool

	// SyntheticOnly skips the live provider entirely. Development aid.
	SyntheticOnly bool

	// Banding is the threshold boundary convention for classification.
	Banding airquality.Banding

	// Concurrency bounds concurrent per-city pipelines.
	Concurrency int

	// HTTPPort is the presentation API listen port.
	HTTPPort string

	// HistoryEnabled turns on Postgres persistence of run outcomes.
	HistoryEnabled bool

	// Environment is the deployment environment name.
	Environment string

	// OTLPEndpoint is the OpenTelemetry collector address.
	OTLPEndpoint string

	// TelemetryEnabled turns on trace/metric export.
	TelemetryEnabled bool
}

// FromEnv builds a Config from environment variables with defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		ProviderBaseURL:  os.Getenv("GIOS_BASE_URL"),
		HTTPPort:         getEnvOrDefault("APP_PORT", defaultHTTPPort),
		Environment:      getEnvOrDefault("APP_ENV", "development"),
		OTLPEndpoint:     getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TelemetryEnabled: os.Getenv("OTEL_ENABLED") == "true",
		AllowSynthetic:   getEnvOrDefault("ALLOW_SYNTHETIC_FALLBACK", "true") == "true",
		SyntheticOnly:    os.Getenv("SYNTHETIC_ONLY") == "true",
		HistoryEnabled:   os.Getenv("HISTORY_ENABLED") == "true",
	}

	for _, city := range strings.Split(getEnvOrDefault("TARGET_CITIES", defaultCities), ",") {
		city = strings.TrimSpace(city)
		if city != "" {
			cfg.Cities = append(cfg.Cities, city)
		}
	}
	if len(cfg.Cities) == 0 {
		return Config{}, fmt.Errorf("TARGET_CITIES must name at least one city")
	}

	var err error
	if cfg.CacheTTL, err = durationEnv("CACHE_TTL", defaultCacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval, err = durationEnv("REFRESH_INTERVAL", defaultRefreshInterval); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", defaultRequestTimeout); err != nil {
		return Config{}, err
	}

	concurrency, err := strconv.Atoi(getEnvOrDefault("PIPELINE_CONCURRENCY", strconv.Itoa(defaultConcurrency)))
	if err != nil || concurrency <= 0 {
		return Config{}, fmt.Errorf("PIPELINE_CONCURRENCY must be a positive integer")
	}
	cfg.Concurrency = concurrency

	switch getEnvOrDefault("BANDING", "inclusive") {
	case "inclusive":
		cfg.Banding = airquality.BandingInclusive
	case "exclusive":
		cfg.Banding = airquality.BandingExclusive
	default:
		return Config{}, fmt.Errorf("BANDING must be \"inclusive\" or \"exclusive\"")
	}

	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
