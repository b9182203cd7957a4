package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// PeriodGuard implements usecase.PeriodGuard using SETNX.
type PeriodGuard struct {
	client *redis.Client
	prefix string
}

// NewPeriodGuard creates a new PeriodGuard.
func NewPeriodGuard(client *redis.Client) *PeriodGuard {
	return &PeriodGuard{
		client: client,
		prefix: "guard:",
	}
}

// Acquire claims key for ttl. It returns false when the key is already held.
func (g *PeriodGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return g.client.SetNX(ctx, g.prefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

// Release deletes key. Releasing a key that is not held is not an error.
func (g *PeriodGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, g.prefix+key).Err()
}

