package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the activity service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger

	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Service records and lists operator activity.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

// NewService creates a new activity service.
func NewService(cfg ServiceConfig) *Service {
	repo := cfg.Repository
	if repo == nil {
		repo = NewInMemoryRepository(1000)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:   repo,
		logger: cfg.Logger.With().Str("component", "activity").Logger(),
		now:    now,
	}
}

// Record stores an action and its outcome. opErr is the error of the action
// itself, nil on success. Storage failures are logged, never returned.
func (s *Service) Record(ctx context.Context, action Action, actor, target string, opErr error, detail string) {
	if actor == "" {
		actor = SystemActor
	}

	entry := &Entry{
		ID:        uuid.New().String(),
		Action:    action,
		Actor:     actor,
		Target:    target,
		Outcome:   OutcomeSuccess,
		Detail:    detail,
		CreatedAt: s.now().UTC(),
	}
	if opErr != nil {
		entry.Outcome = OutcomeFailure
		if entry.Detail == "" {
			entry.Detail = opErr.Error()
		}
	}

	if err := s.repo.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).
			Str("action", string(action)).
			Str("actor", actor).
			Msg("failed to record activity")
	}
}

// List returns the most recent entries, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]*Entry, error) {
	return s.repo.List(ctx, limit)
}
