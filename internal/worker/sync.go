package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/dashboard"
)

// Syncer is what the job needs from the dashboard service.
type Syncer interface {
	CheckFreshness(ctx context.Context) (*dashboard.Freshness, error)
	EnsureFresh(ctx context.Context) (bool, error)
	ForceSync(ctx context.Context) (*airquality.SyncResult, error)
}

// SyncJobConfig holds configuration for creating a SyncJob.
type SyncJobConfig struct {
	Config SyncConfig
	Syncer Syncer
	Logger zerolog.Logger
}

const meterName = "github.com/howstheair/dashboard/internal/worker"

// SyncJob keeps the backend's readings fresh.
type SyncJob struct {
	config  SyncConfig
	syncer  Syncer
	logger  zerolog.Logger
	metrics *SyncMetrics

	runCounter  metric.Int64Counter
	runDuration metric.Float64Histogram
}

// SyncMetrics tracks sync job statistics.
type SyncMetrics struct {
	mu sync.RWMutex

	TotalRuns  int64
	Syncs      int64
	Failures   int64
	LastRunAt  time.Time
	LastSyncAt time.Time
	LastError  string
}

// RunResult is the outcome of one job run.
type RunResult struct {
	StartTime time.Time
	Duration  time.Duration
	// Synced is set when the run triggered a sync.
	Synced bool
	Err    error
}

// NewSyncJob creates a new sync job.
func NewSyncJob(cfg SyncJobConfig) *SyncJob {
	j := &SyncJob{
		config:  cfg.Config.withDefaults(),
		syncer:  cfg.Syncer,
		logger:  cfg.Logger.With().Str("job", "sync").Logger(),
		metrics: &SyncMetrics{},
	}

	meter := otel.Meter(meterName)
	var err error
	if j.runCounter, err = meter.Int64Counter("dashboard.sync.runs",
		metric.WithDescription("Sync job runs by outcome"),
		metric.WithUnit("{run}"),
	); err != nil {
		j.logger.Warn().Err(err).Msg("sync run counter unavailable")
	}
	if j.runDuration, err = meter.Float64Histogram("dashboard.sync.duration",
		metric.WithDescription("Duration of sync job runs in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		j.logger.Warn().Err(err).Msg("sync duration histogram unavailable")
	}

	return j
}

// Run syncs when the last sync is missing or older than the freshness
// window. This is the scheduled run.
func (j *SyncJob) Run(ctx context.Context) *RunResult {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	result := &RunResult{StartTime: time.Now()}
	result.Synced, result.Err = j.syncer.EnsureFresh(ctx)
	result.Duration = time.Since(result.StartTime)

	j.record(ctx, result)

	event := j.logger.Info()
	if result.Err != nil {
		event = j.logger.Error().Err(result.Err)
	}
	event.
		Bool("synced", result.Synced).
		Dur("duration", result.Duration).
		Msg("sync job completed")

	return result
}

// ForceSync syncs regardless of freshness and records it as an automatic
// sync by the system.
func (j *SyncJob) ForceSync(ctx context.Context) (*airquality.SyncResult, error) {
	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	start := time.Now()
	res, err := j.syncer.ForceSync(ctx)
	j.record(ctx, &RunResult{StartTime: start, Duration: time.Since(start), Synced: true, Err: err})
	if err != nil {
		return nil, fmt.Errorf("forced sync: %w", err)
	}
	return res, nil
}

// HealthCheck verifies the backend answers the last-sync endpoint.
func (j *SyncJob) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	f, err := j.syncer.CheckFreshness(ctx)
	if err != nil {
		return fmt.Errorf("health check: %w", err)
	}
	j.logger.Debug().Bool("stale", f.Stale).Dur("age", f.Age).Msg("health check passed")
	return nil
}

func (j *SyncJob) record(ctx context.Context, result *RunResult) {
	outcome := "skipped"
	switch {
	case result.Err != nil:
		outcome = "failure"
	case result.Synced:
		outcome = "synced"
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	if j.runCounter != nil {
		j.runCounter.Add(ctx, 1, attrs)
	}
	if j.runDuration != nil {
		j.runDuration.Record(ctx, result.Duration.Seconds(), attrs)
	}

	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.LastRunAt = result.StartTime
	if result.Err != nil {
		j.metrics.Failures++
		j.metrics.LastError = result.Err.Error()
		return
	}
	if result.Synced {
		j.metrics.Syncs++
		j.metrics.LastSyncAt = result.StartTime
	}
}

// GetMetrics returns a snapshot of the job statistics.
func (j *SyncJob) GetMetrics() SyncMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return SyncMetrics{
		TotalRuns:  j.metrics.TotalRuns,
		Syncs:      j.metrics.Syncs,
		Failures:   j.metrics.Failures,
		LastRunAt:  j.metrics.LastRunAt,
		LastSyncAt: j.metrics.LastSyncAt,
		LastError:  j.metrics.LastError,
	}
}
