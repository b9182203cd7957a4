package usecase

import (
	"context"
	"time"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// QuoteSource retrieves market quotes. Failures wrap domain.ErrSourceUnavailable.
type QuoteSource interface {
	Name() string
	// FetchQuotes returns quotes for the ids it knows; missing ids are simply absent.
	FetchQuotes(ctx context.Context, ids []int64) (map[int64]domain.Quote, error)
}

// ActivitySource retrieves already-fetched activity logs and wallet transactions.
type ActivitySource interface {
	Observations(ctx context.Context, since time.Time) ([]*domain.Observation, error)
	Transactions(ctx context.Context, since time.Time) ([]*domain.ObservedTransaction, error)
}
