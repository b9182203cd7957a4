package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres/generated"
)

// NotificationOutbox implements usecase.NotificationOutbox.
type NotificationOutbox struct {
	queries *generated.Queries
}

// NewNotificationOutbox creates a new NotificationOutbox.
func NewNotificationOutbox(db generated.DBTX) *NotificationOutbox {
	return &NotificationOutbox{queries: generated.New(db)}
}

// Enqueue stores a pending notification.
func (r *NotificationOutbox) Enqueue(ctx context.Context, n *domain.Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return err
	}

	return r.queries.CreateNotification(ctx, generated.CreateNotificationParams{
		ID:            n.ID,
		RecipientType: n.RecipientType,
		RecipientID:   n.RecipientID,
		Kind:          n.Kind,
		Severity:      n.Severity,
		Message:       n.Message,
		Payload:       payload,
		CreatedAt:     timeToPgTimestamptz(n.CreatedAt),
	})
}

// GetUnpublished retrieves the oldest pending notifications.
func (r *NotificationOutbox) GetUnpublished(ctx context.Context, limit int) ([]*domain.Notification, error) {
	rows, err := r.queries.GetUnpublishedNotifications(ctx, int32(limit))
	if err != nil {
		return nil, err
	}

	notifications := make([]*domain.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, rowToNotification(row))
	}

	return notifications, nil
}

// MarkPublished marks a notification as delivered.
func (r *NotificationOutbox) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	return r.queries.MarkNotificationPublished(ctx, generated.MarkNotificationPublishedParams{
		ID:          id,
		PublishedAt: timeToPgTimestamptz(publishedAt),
	})
}

// DeletePublished deletes delivered notifications older than before.
func (r *NotificationOutbox) DeletePublished(ctx context.Context, before time.Time) error {
	return r.queries.DeletePublishedNotifications(ctx, timeToPgTimestamptz(before))
}

func rowToNotification(row generated.Notification) *domain.Notification {
	var payload map[string]any
	if row.Payload != nil {
		_ = json.Unmarshal(row.Payload, &payload)
	}

	return &domain.Notification{
		ID:            row.ID,
		RecipientType: row.RecipientType,
		RecipientID:   row.RecipientID,
		Kind:          row.Kind,
		Severity:      row.Severity,
		Message:       row.Message,
		Payload:       payload,
		CreatedAt:     pgTimestamptzToTime(row.CreatedAt),
		PublishedAt:   pgTimestamptzToPtr(row.PublishedAt),
		Published:     row.Published,
	}
}
