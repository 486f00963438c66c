// Package dashboard implements the admin views on top of the backend client:
// the analytics overview, the readings page with its freshness policy, the
// station board and the debounced station search.
package dashboard

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/activity"
	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/backend"
)

// Defaults for the views.
const (
	DefaultTrendDays      = 14
	DefaultFreshness      = 15 * time.Minute
	DefaultSearchDebounce = 800 * time.Millisecond
)

// Backend is the subset of the backend client the views use.
type Backend interface {
	StationBackend
	SearchBackend
	ListReadings(ctx context.Context, filter backend.ReadingFilter) ([]airquality.Reading, error)
	History(ctx context.Context, filter backend.HistoryFilter) ([]airquality.Reading, error)
	Sync(ctx context.Context) (*airquality.SyncResult, error)
	LastSync(ctx context.Context) (*airquality.AuditLog, error)
}

// StationBackend is what the station board needs.
type StationBackend interface {
	ListStations(ctx context.Context) ([]airquality.Station, error)
	CreateStation(ctx context.Context, req backend.CreateStationRequest) (*airquality.Station, error)
	UpdateStationKeyword(ctx context.Context, id int, keyword string) (*airquality.Station, error)
	ToggleStation(ctx context.Context, id int) (*airquality.Station, error)
	DeleteStation(ctx context.Context, id int) error
}

// SearchBackend is what the search session needs.
type SearchBackend interface {
	SearchStations(ctx context.Context, keyword string) ([]airquality.SearchStation, error)
}

// ServiceConfig holds configuration for the dashboard service.
type ServiceConfig struct {
	Backend  Backend
	Activity *activity.Service
	Logger   zerolog.Logger

	// Freshness is the maximum age of the last sync before the readings page
	// triggers a new one. Default: 15 minutes.
	Freshness time.Duration

	// TrendDays is the default number of days in the overview trend. Default: 14.
	TrendDays int

	// Location decides civil-day boundaries for the trend. Default: UTC.
	Location *time.Location

	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Service serves the dashboard views.
type Service struct {
	backend   Backend
	activity  *activity.Service
	board     *StationBoard
	logger    zerolog.Logger
	freshness time.Duration
	trendDays int
	location  *time.Location
	now       func() time.Time
}

// NewService creates a new dashboard service.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Freshness <= 0 {
		cfg.Freshness = DefaultFreshness
	}
	if cfg.TrendDays <= 0 {
		cfg.TrendDays = DefaultTrendDays
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Activity == nil {
		cfg.Activity = activity.NewService(activity.ServiceConfig{Logger: cfg.Logger})
	}

	logger := cfg.Logger.With().Str("component", "dashboard").Logger()
	return &Service{
		backend:   cfg.Backend,
		activity:  cfg.Activity,
		board:     NewStationBoard(cfg.Backend, logger),
		logger:    logger,
		freshness: cfg.Freshness,
		trendDays: cfg.TrendDays,
		location:  cfg.Location,
		now:       cfg.Now,
	}
}

// Board returns the shared station board.
func (s *Service) Board() *StationBoard {
	return s.board
}

// Activity returns the activity log.
func (s *Service) Activity() *activity.Service {
	return s.activity
}

// NewSearchSession starts a debounced search session against the backend.
func (s *Service) NewSearchSession(delay time.Duration, onResults func(SearchUpdate)) *SearchSession {
	return NewSearchSession(SearchConfig{
		Backend:   s.backend,
		Delay:     delay,
		OnResults: onResults,
		Logger:    s.logger,
	})
}

// SearchStations runs one station lookup without debouncing.
func (s *Service) SearchStations(ctx context.Context, keyword string) ([]airquality.SearchStation, error) {
	if keyword == "" {
		return []airquality.SearchStation{}, nil
	}
	return s.backend.SearchStations(ctx, keyword)
}

// History returns historical readings.
func (s *Service) History(ctx context.Context, filter backend.HistoryFilter) ([]airquality.Reading, error) {
	if err := filter.Range().Validate(); err != nil {
		return nil, err
	}
	return s.backend.History(ctx, filter)
}

// LastSync returns the most recent sync record, or nil.
func (s *Service) LastSync(ctx context.Context) (*airquality.AuditLog, error) {
	return s.backend.LastSync(ctx)
}

// Sync runs a manual sync on behalf of actor and records it.
func (s *Service) Sync(ctx context.Context, actor string) (*airquality.SyncResult, error) {
	result, err := s.backend.Sync(ctx)
	detail := ""
	if err == nil {
		detail = strconv.Itoa(result.SyncedCount) + " stations synced"
	}
	s.activity.Record(ctx, activity.ActionSyncManual, actor, "", err, detail)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("actor", actor).
		Int("synced_count", result.SyncedCount).
		Msg("manual sync completed")
	return result, nil
}
