package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// PubSubHandler handles Pub/Sub messages for the worker.
type PubSubHandler struct {
	client           *pubsub.Client
	subscriber       *pubsub.Subscriber
	subscriptionName string
	sweepJob         *SweepJob
	logger           zerolog.Logger
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	ProjectID        string
	SubscriptionName string
	SweepJob         *SweepJob
	Logger           zerolog.Logger
}

// SweepMessage represents a sweep job message.
type SweepMessage struct {
	JobType   string `json:"job_type"`
	CheckOnly bool   `json:"check_only,omitempty"`
}

// NewPubSubHandler creates a new Pub/Sub handler.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.SubscriptionName)

	// Configure receive settings.
	subscriber.ReceiveSettings.MaxOutstandingMessages = 10
	subscriber.ReceiveSettings.MaxExtension = 10 * time.Minute

	return &PubSubHandler{
		client:           client,
		subscriber:       subscriber,
		subscriptionName: cfg.SubscriptionName,
		sweepJob:         cfg.SweepJob,
		logger:           cfg.Logger,
	}, nil
}

// Start begins processing Pub/Sub messages.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.subscriptionName).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.handleMessage(ctx, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

func (h *PubSubHandler) handleMessage(ctx context.Context, msg *pubsub.Message) {
	startTime := time.Now()

	logger := h.logger.With().
		Str("message_id", msg.ID).
		Str("publish_time", msg.PublishTime.Format(time.RFC3339)).
		Logger()

	logger.Debug().Msg("received pubsub message")

	// Parse message.
	var sweepMsg SweepMessage
	if err := json.Unmarshal(msg.Data, &sweepMsg); err != nil {
		logger.Error().Err(err).Msg("failed to parse message")
		msg.Nack()
		return
	}

	// Handle based on job type.
	var err error
	switch sweepMsg.JobType {
	case "retention_sweep":
		err = h.handleRetentionSweep(ctx, sweepMsg)
	default:
		logger.Warn().Str("job_type", sweepMsg.JobType).Msg("unknown job type")
		msg.Ack() // Ack unknown messages to prevent redelivery
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("job failed")
		msg.Nack()
		return
	}

	duration := time.Since(startTime)
	logger.Info().
		Str("job_type", sweepMsg.JobType).
		Dur("duration", duration).
		Msg("job completed successfully")

	msg.Ack()
}

func (h *PubSubHandler) handleRetentionSweep(ctx context.Context, msg SweepMessage) error {
	h.logger.Info().
		Bool("check_only", msg.CheckOnly).
		Msg("starting triggered retention sweep")

	if msg.CheckOnly {
		// A dry check just counts the registered cases to verify the
		// registry is reachable from the worker.
		return h.checkRegistry(ctx)
	}

	outcome, err := h.sweepJob.Run(ctx)
	if err != nil {
		return err
	}

	h.logger.Info().
		Dur("duration", outcome.Duration).
		Int("scanned", outcome.Scanned).
		Int("archived", outcome.Archived).
		Int("failed", outcome.Failed).
		Msg("triggered retention sweep completed")

	if outcome.Failed > outcome.Archived {
		return fmt.Errorf("too many archive failures: %d/%d", outcome.Failed, outcome.Scanned)
	}

	return nil
}

func (h *PubSubHandler) checkRegistry(ctx context.Context) error {
	count, err := h.sweepJob.cases.Count(ctx)
	if err != nil {
		return fmt.Errorf("registry check failed: %w", err)
	}

	h.logger.Debug().Int64("case_count", count).Msg("registry check passed")
	return nil
}
