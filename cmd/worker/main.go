// Package main provides the entrypoint for the sync worker. It keeps the
// backend's readings fresh on a schedule and, when configured, runs jobs
// published to a Pub/Sub subscription.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/app"
	"github.com/howstheair/dashboard/internal/config"
	"github.com/howstheair/dashboard/internal/telemetry"
	"github.com/howstheair/dashboard/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

const serviceName = "howstheair-dashboard-worker"

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := app.NewLogger(cfg, serviceName, Version)
	log.Info().
		Str("build_time", BuildTime).
		Msg("starting sync worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.Telemetry.Endpoint,
		Enabled:        cfg.Telemetry.Enabled,
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

	services, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize services")
		return
	}
	defer services.Close()

	job := worker.NewSyncJob(worker.SyncJobConfig{
		Config: worker.SyncConfig{
			Schedule: cfg.Sync.Schedule,
			Timeout:  cfg.Sync.Timeout,
		},
		Syncer: services.Dashboard,
		Logger: log,
	})

	scheduler, err := worker.NewScheduler(job, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to create scheduler")
		return
	}
	scheduler.Start()

	var subscriber *worker.PubSubHandler
	if cfg.PubSub.Enabled {
		subscriber, err = worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.PubSub.ProjectID,
			SubscriptionName: cfg.PubSub.Subscription,
			SyncJob:          job,
			Logger:           log,
		})
		if err != nil {
			log.Error().Err(err).Msg("failed to create pubsub handler")
			return
		}
		go func() {
			if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	}

	// Health endpoint for the platform's liveness checks.
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		m := job.GetMetrics()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":       "healthy",
			"version":      Version,
			"total_runs":   m.TotalRuns,
			"syncs":        m.Syncs,
			"failures":     m.Failures,
			"last_run_at":  m.LastRunAt,
			"last_sync_at": m.LastSyncAt,
			"last_error":   m.LastError,
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := scheduler.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("sync job still running at shutdown")
	}
	if subscriber != nil {
		if err := subscriber.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close pubsub client")
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
