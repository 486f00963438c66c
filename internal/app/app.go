// Package app assembles the backend client, activity log and dashboard
// service from configuration. The API server, the worker and airctl share it.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/activity"
	"github.com/howstheair/dashboard/internal/backend"
	"github.com/howstheair/dashboard/internal/config"
	"github.com/howstheair/dashboard/internal/dashboard"
	"github.com/howstheair/dashboard/internal/database"
	"github.com/howstheair/dashboard/internal/provider/resilience"
)

// App holds the wired services.
type App struct {
	Backend   *backend.Client
	Activity  *activity.Service
	Dashboard *dashboard.Service

	closers []func()
}

// NewLogger returns the process logger.
func NewLogger(cfg *config.Config, service, version string) zerolog.Logger {
	return zerolog.New(os.Stdout).
		Level(cfg.LogLevel).
		With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Logger()
}

// New wires the services described by cfg.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	a := &App{}

	httpCfg := resilience.DefaultClientConfig(backend.ProviderName)
	httpCfg.Timeout = cfg.Backend.Timeout
	httpCfg.MaxRetries = cfg.Backend.MaxRetries
	httpCfg.CircuitBreaker.OnStateChange = resilience.LogStateChanges(logger)

	a.Backend = backend.NewClient(backend.ClientConfig{
		BaseURL:    cfg.Backend.BaseURL,
		HTTPClient: resilience.NewClient(httpCfg),
		Logger:     logger,
	})

	repo, err := a.activityRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Activity = activity.NewService(activity.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})

	a.Dashboard = dashboard.NewService(dashboard.ServiceConfig{
		Backend:   a.Backend,
		Activity:  a.Activity,
		Logger:    logger,
		Freshness: cfg.Dashboard.Freshness,
		TrendDays: cfg.Dashboard.TrendDays,
		Location:  cfg.Timezone,
	})

	return a, nil
}

func (a *App) activityRepository(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (activity.Repository, error) {
	if cfg.Activity.Store != config.StorePostgres {
		return activity.NewInMemoryRepository(cfg.Activity.Capacity), nil
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connecting activity store: %w", err)
	}
	a.closers = append(a.closers, pool.Close)

	repo := activity.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("preparing activity schema: %w", err)
	}

	logger.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.Database).
		Msg("activity store connected")
	return repo, nil
}

// Close releases connections opened by New.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
