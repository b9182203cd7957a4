package eventpublisher

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/logging"
)

func TestProcessEventsPublishesAndMarks(t *testing.T) {
	repo := &stubOutbox{
		pending: []*domain.Notification{{ID: "n-1", Kind: domain.NotificationTaxesDue}},
	}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents failed: %v", err)
	}

	if len(pub.published) != 1 {
		t.Fatalf("expected one published notification, got %d", len(pub.published))
	}
	if len(repo.marked) != 1 || repo.marked[0] != "n-1" {
		t.Fatalf("expected notification to be marked published, got %#v", repo.marked)
	}
}

func TestProcessEventsContinuesOnPublishError(t *testing.T) {
	repo := &stubOutbox{
		pending: []*domain.Notification{
			{ID: "n-1", Kind: domain.NotificationTaxesDue},
			{ID: "n-2", Kind: domain.NotificationInterestCharged},
		},
	}
	pub := &stubPublisher{
		errorsByID: map[string]error{"n-1": errors.New("fail")},
	}
	ep := newTestPublisher(repo, pub)

	if err := ep.processEvents(context.Background()); err != nil {
		t.Fatalf("processEvents returned error: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0].ID != "n-2" {
		t.Fatalf("expected only n-2 to be published, got %#v", pub.published)
	}
	if len(repo.marked) != 1 || repo.marked[0] != "n-2" {
		t.Fatalf("expected only n-2 to be marked, got %#v", repo.marked)
	}
}

func TestProcessEventsPurgesPastRetention(t *testing.T) {
	repo := &stubOutbox{}
	ep := newTestPublisher(repo, &stubPublisher{})
	now := time.Date(2022, 1, 15, 12, 0, 0, 0, time.UTC)
	ep.now = func() time.Time { return now }
	ep.retention = 24 * time.Hour

	if err := ep.Drain(context.Background()); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}

	if !repo.purgedBefore.Equal(now.Add(-24 * time.Hour)) {
		t.Fatalf("expected purge before %s, got %s", now.Add(-24*time.Hour), repo.purgedBefore)
	}
}

func TestStartStopsOnContextCancellation(t *testing.T) {
	repo := &stubOutbox{}
	pub := &stubPublisher{}
	ep := newTestPublisher(repo, pub)
	ep.interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ep.Start(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop after cancel")
	}
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	err := pub.Publish(context.Background(), &domain.Notification{
		ID:          "n-1",
		Kind:        domain.NotificationInterestCharged,
		RecipientID: 1001,
		Payload:     map[string]any{"interest": "2"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(buf.String(), `"kind":"interest.charged"`) || !strings.Contains(buf.String(), `interest`) {
		t.Fatalf("unexpected log output %q", buf.String())
	}
}

func newTestPublisher(repo *stubOutbox, pub *stubPublisher) *EventPublisher {
	return NewEventPublisher(Config{
		Outbox:    repo,
		Publisher: pub,
		Logger:    logging.NewWithWriter(io.Discard, slog.LevelDebug, "text"),
		BatchSize: 10,
		Interval:  5 * time.Millisecond,
	})
}

type stubOutbox struct {
	pending      []*domain.Notification
	marked       []string
	purgedBefore time.Time
}

func (s *stubOutbox) Enqueue(context.Context, *domain.Notification) error {
	return nil
}

func (s *stubOutbox) GetUnpublished(_ context.Context, limit int) ([]*domain.Notification, error) {
	if len(s.pending) <= limit {
		return append([]*domain.Notification(nil), s.pending...), nil
	}
	return append([]*domain.Notification(nil), s.pending[:limit]...), nil
}

func (s *stubOutbox) MarkPublished(_ context.Context, id string, _ time.Time) error {
	s.marked = append(s.marked, id)
	return nil
}

func (s *stubOutbox) DeletePublished(_ context.Context, before time.Time) error {
	s.purgedBefore = before
	return nil
}

type stubPublisher struct {
	published  []*domain.Notification
	errorsByID map[string]error
}

func (s *stubPublisher) Publish(_ context.Context, n *domain.Notification) error {
	if err := s.errorsByID[n.ID]; err != nil {
		return err
	}
	s.published = append(s.published, n)
	return nil
}
