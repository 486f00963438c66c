package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// Job types accepted on the subscription.
const (
	JobSyncRequest    = "sync_request"
	JobFreshnessCheck = "freshness_check"
	JobHealthCheck    = "health_check"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	dispatcher       *Dispatcher
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	SyncJob          *SyncJob
	Logger           zerolog.Logger
}

// JobMessage is the payload published to trigger worker jobs.
type JobMessage struct {
	JobType string `json:"job_type"`
	// RequestedBy is informational; it is logged with the job.
	RequestedBy string `json:"requested_by,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// A sync touches every station upstream; keep few in flight.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 2
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		dispatcher:       NewDispatcher(cfg.SyncJob, cfg.Logger),
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		logger := h.logger.With().
			Str("message_id", msg.ID).
			Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
			Logger()

		if h.dispatcher.Handle(ctx, msg.Data, logger) {
			msg.Ack()
			return
		}
		msg.Nack()
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

// Dispatcher decodes job messages and runs them against the sync job.
type Dispatcher struct {
	job    *SyncJob
	logger zerolog.Logger
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(job *SyncJob, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{job: job, logger: logger}
}

// Handle runs the job described by data and reports whether the message
// should be acked. Malformed payloads are nacked; unknown job types are
// acked so they are not redelivered.
func (d *Dispatcher) Handle(ctx context.Context, data []byte, logger zerolog.Logger) bool {
	startTime := time.Now()

	var msg JobMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		return false
	}

	logger = logger.With().Str("job_type", msg.JobType).Str("requested_by", msg.RequestedBy).Logger()

	var err error
	switch msg.JobType {
	case JobSyncRequest:
		result, syncErr := d.job.ForceSync(ctx)
		if syncErr == nil {
			logger.Info().Int("synced_count", result.SyncedCount).Msg("requested sync completed")
		}
		err = syncErr
	case JobFreshnessCheck:
		err = d.job.Run(ctx).Err
	case JobHealthCheck:
		err = d.job.HealthCheck(ctx)
	default:
		logger.Warn().Msg("unknown job type")
		return true
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		return false
	}

	logger.Info().
		Dur("duration", time.Since(startTime)).
		Msg("job completed successfully")
	return true
}
