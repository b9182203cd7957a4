package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

func TestStatsStoreLatestBeforeSave(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	_, err := NewStatsStore(client, 0).Latest(context.Background())
	if !errors.Is(err, usecase.ErrStatsUnavailable) {
		t.Fatalf("expected ErrStatsUnavailable, got %v", err)
	}
}

func TestStatsStoreSaveAndLatest(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	store := NewStatsStore(client, time.Hour)
	ctx := context.Background()

	generated := time.Date(2022, time.February, 1, 12, 0, 0, 0, time.UTC)
	snapshot := &domain.StatsSnapshot{
		GeneratedAt: generated,
		Accounts: []domain.AccountStats{{
			AccountID: 1, Name: "Miner", PrimaryEntityID: 1001, EntityCount: 2,
			Obligations: decimal.RequireFromString("140.25"),
			Credits:     decimal.RequireFromString("40"),
			Balance:     decimal.RequireFromString("100.25"),
		}},
	}

	if err := store.Save(ctx, snapshot); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !mr.Exists("stats:latest") {
		t.Fatal("expected snapshot under stats:latest")
	}
	if ttl := mr.TTL("stats:latest"); ttl != time.Hour {
		t.Fatalf("expected 1h ttl, got %s", ttl)
	}

	latest, err := store.Latest(ctx)
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if !latest.GeneratedAt.Equal(generated) {
		t.Fatalf("expected generated at %s, got %s", generated, latest.GeneratedAt)
	}
	if len(latest.Accounts) != 1 || !latest.Accounts[0].Balance.Equal(decimal.RequireFromString("100.25")) {
		t.Fatalf("unexpected accounts %+v", latest.Accounts)
	}
}

func TestStatsStoreCorruptSnapshot(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	if err := mr.Set("stats:latest", "{not json"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	_, err := NewStatsStore(client, 0).Latest(context.Background())
	if err == nil || errors.Is(err, usecase.ErrStatsUnavailable) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
