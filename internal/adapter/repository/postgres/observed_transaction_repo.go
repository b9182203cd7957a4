package postgres

import (
	"context"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres/generated"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

// ObservedTransactionRepository implements usecase.ObservedTransactionRepository.
type ObservedTransactionRepository struct {
	queries *generated.Queries
}

// NewObservedTransactionRepository creates a new ObservedTransactionRepository.
func NewObservedTransactionRepository(db generated.DBTX) *ObservedTransactionRepository {
	return &ObservedTransactionRepository{queries: generated.New(db)}
}

// Record stores a reconciled transaction inside tx.
func (r *ObservedTransactionRepository) Record(ctx context.Context, tx usecase.Transaction, t *domain.ObservedTransaction, matchedEntityID int64) error {
	return queriesFor(tx, r.queries).RecordObservedTransaction(ctx, generated.RecordObservedTransactionParams{
		ID:              t.ID,
		PayerID:         t.PayerID,
		Date:            timeToPgTimestamptz(t.Date),
		Amount:          decimalToNumeric(t.Amount),
		Reason:          t.Reason,
		MatchedEntityID: matchedEntityID,
	})
}

// ListUnmatched returns transactions whose payer matched no entity.
func (r *ObservedTransactionRepository) ListUnmatched(ctx context.Context) ([]*domain.ObservedTransaction, error) {
	rows, err := r.queries.ListUnmatchedTransactions(ctx)
	if err != nil {
		return nil, err
	}

	txs := make([]*domain.ObservedTransaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, &domain.ObservedTransaction{
			ID:      row.ID,
			PayerID: row.PayerID,
			Date:    pgTimestamptzToTime(row.Date),
			Amount:  numericToDecimal(row.Amount),
			Reason:  row.Reason,
		})
	}

	return txs, nil
}
