package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler runs the sync job on a cron schedule, one run at a time.
type Scheduler struct {
	cron     *cron.Cron
	job      *SyncJob
	schedule string
	entryID  cron.EntryID
	logger   zerolog.Logger
}

// NewScheduler parses the job's schedule and registers it.
func NewScheduler(job *SyncJob, logger zerolog.Logger) (*Scheduler, error) {
	cronLogger := cronLogAdapter{logger: logger}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	s := &Scheduler{
		cron:     c,
		job:      job,
		schedule: job.config.Schedule,
		logger:   logger,
	}

	id, err := c.AddFunc(s.schedule, func() { s.job.Run(context.Background()) })
	if err != nil {
		return nil, fmt.Errorf("parsing sync schedule %q: %w", s.schedule, err)
	}
	s.entryID = id

	return s, nil
}

// Start starts the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.schedule).
		Time("next_run", s.cron.Entry(s.entryID).Next).
		Msg("sync scheduler started")
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogAdapter routes cron's logging through zerolog.
type cronLogAdapter struct {
	logger zerolog.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
