// Package main provides the entrypoint for the air quality monitor: the
// scheduler-driven pipeline plus the presentation HTTP API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/config"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/coordinator"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/database"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/gios"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/history"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/pipeline"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/report"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/scheduler"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/synthetic"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "aq-monitor"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().Str("build_time", BuildTime).Msg("starting air quality monitor")

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.TelemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	var historyRepo history.Repository
	if cfg.HistoryEnabled {
		pool, dbErr := database.Connect(ctx, database.ConfigFromEnv())
		if dbErr != nil {
			log.Fatal().Err(dbErr).Msg("failed to connect to database")
		}
		defer pool.Close()
		historyRepo = history.NewPostgresRepository(pool)
		log.Info().Msg("run history persistence enabled")
	}

	generator := synthetic.NewGenerator()

	var provider pipeline.Provider
	if cfg.SyntheticOnly {
		log.Warn().Msg("running with synthetic data only")
		provider = synthetic.NewProvider(generator)
	} else {
		provider = gios.NewClient(gios.ClientConfig{
			BaseURL: cfg.ProviderBaseURL,
			Timeout: cfg.RequestTimeout,
		})
	}

	coord := coordinator.New(coordinator.Config{
		Provider:       provider,
		Generator:      generator,
		Logger:         log,
		CacheTTL:       cfg.CacheTTL,
		AllowSynthetic: cfg.AllowSynthetic,
		Banding:        cfg.Banding,
		Concurrency:    cfg.Concurrency,
		History:        historyRepo,
	})

	store := report.NewStore()

	sched := scheduler.New(scheduler.Config{
		Coordinator: coord,
		Store:       store,
		Cities:      cfg.Cities,
		Interval:    cfg.RefreshInterval,
		Logger:      log,
	})
	go sched.Start(ctx)

	router := report.NewRouter(report.RouterConfig{
		Store:   store,
		History: historyRepo,
		Logger:  log,
		Version: Version,
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("presentation API listening")
		if serveErr := server.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
			log.Fatal().Err(serveErr).Msg("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server forced to shutdown")
	}

	log.Info().Msg("stopped")
}
