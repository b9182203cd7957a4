// Package eventpublisher drains the notification outbox into the notification collaborator.
package eventpublisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/logging"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

const jobName = "notifications"

// EventPublisher handles publishing notifications from the outbox.
type EventPublisher struct {
	outbox    usecase.NotificationOutbox
	publisher Publisher
	logger    *logging.Logger
	batchSize int
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// Publisher delivers one notification to an external system.
type Publisher interface {
	Publish(ctx context.Context, notification *domain.Notification) error
}

// Config for EventPublisher.
type Config struct {
	Outbox    usecase.NotificationOutbox
	Publisher Publisher
	Logger    *logging.Logger
	BatchSize int           // Number of notifications to fetch per batch
	Interval  time.Duration // Polling interval
	// Retention is how long published rows are kept. Zero keeps them forever.
	Retention time.Duration
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = &logging.Logger{Logger: slog.Default()}
	}

	return &EventPublisher{
		outbox:    cfg.Outbox,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval,
		retention: cfg.Retention,
		now:       time.Now,
	}
}

// Start begins the publishing worker.
// It runs continuously until the context is cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ctx = logging.WithJob(ctx, jobName)

	ep.logger.InfoCtx(ctx, "event publisher started",
		slog.Int("batch_size", ep.batchSize),
		slog.Duration("interval", ep.interval))

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	if err := ep.processEvents(ctx); err != nil {
		ep.logger.ErrorCtx(ctx, "error processing notifications on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.InfoCtx(ctx, "event publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := ep.processEvents(ctx); err != nil {
				ep.logger.ErrorCtx(ctx, "error processing notifications", slog.String("error", err.Error()))
			}
		}
	}
}

// Drain publishes pending notifications once, for one-shot CLI runs.
func (ep *EventPublisher) Drain(ctx context.Context) error {
	return ep.processEvents(logging.WithJob(ctx, jobName))
}

// processEvents fetches and publishes a batch of unpublished notifications,
// then purges published rows past retention.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	pending, err := ep.outbox.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if len(pending) > 0 {
		ep.logger.InfoCtx(ctx, "processing notifications", slog.Int("count", len(pending)))
	}

	for _, n := range pending {
		if err := ep.publishEvent(ctx, n); err != nil {
			ep.logger.ErrorCtx(ctx, "failed to publish notification",
				slog.String("notification_id", n.ID),
				slog.String("kind", n.Kind),
				slog.String("error", err.Error()))
			continue
		}

		if err := ep.outbox.MarkPublished(ctx, n.ID, ep.now()); err != nil {
			ep.logger.ErrorCtx(ctx, "failed to mark notification as published",
				slog.String("notification_id", n.ID),
				slog.String("error", err.Error()))
		}
	}

	if ep.retention > 0 {
		if err := ep.outbox.DeletePublished(ctx, ep.now().Add(-ep.retention)); err != nil {
			return err
		}
	}

	return nil
}

func (ep *EventPublisher) publishEvent(ctx context.Context, n *domain.Notification) error {
	ep.logger.DebugCtx(ctx, "publishing notification",
		slog.String("notification_id", n.ID),
		slog.String("kind", n.Kind),
		slog.String("recipient_type", n.RecipientType),
		slog.Int64("recipient_id", n.RecipientID))

	return ep.publisher.Publish(ctx, n)
}

// LogPublisher is a publisher that logs notifications.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the notification.
func (p *LogPublisher) Publish(_ context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}

	p.logger.Info("notification",
		slog.String("notification_id", n.ID),
		slog.String("kind", n.Kind),
		slog.String("severity", n.Severity),
		slog.String("recipient_type", n.RecipientType),
		slog.Int64("recipient_id", n.RecipientID),
		slog.String("message", n.Message),
		slog.String("payload", string(payload)))

	return nil
}
