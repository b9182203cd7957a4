package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

const latestStatsKey = "latest"

// StatsStore implements usecase.StatsRepository using Redis.
type StatsStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStatsStore creates a new StatsStore. A zero ttl keeps the snapshot until it is replaced.
func NewStatsStore(client *redis.Client, ttl time.Duration) *StatsStore {
	return &StatsStore{
		client: client,
		prefix: "stats:",
		ttl:    ttl,
	}
}

// Save replaces the latest snapshot.
func (s *StatsStore) Save(ctx context.Context, snapshot *domain.StatsSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal stats snapshot: %w", err)
	}

	return s.client.Set(ctx, s.prefix+latestStatsKey, data, s.ttl).Err()
}

// Latest returns the stored snapshot or usecase.ErrStatsUnavailable.
func (s *StatsStore) Latest(ctx context.Context) (*domain.StatsSnapshot, error) {
	data, err := s.client.Get(ctx, s.prefix+latestStatsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, usecase.ErrStatsUnavailable
		}
		return nil, err
	}

	var snapshot domain.StatsSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal stats snapshot: %w", err)
	}

	return &snapshot, nil
}
