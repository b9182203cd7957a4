package postgres

import (
	"context"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres/generated"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

// CreditRepository implements usecase.CreditRepository.
type CreditRepository struct {
	queries *generated.Queries
}

// NewCreditRepository creates a new CreditRepository.
func NewCreditRepository(db generated.DBTX) *CreditRepository {
	return &CreditRepository{queries: generated.New(db)}
}

// Create appends a credit entry.
func (r *CreditRepository) Create(ctx context.Context, credit *domain.CreditEntry) error {
	return r.queries.CreateCredit(ctx, generated.CreateCreditParams{
		ID:        credit.ID,
		EntityID:  credit.EntityID,
		Date:      timeToPgTimestamptz(credit.Date),
		Amount:    decimalToNumeric(credit.Amount),
		Type:      string(credit.Type),
		Reason:    credit.Reason,
		CreatedAt: timeToPgTimestamptz(credit.CreatedAt),
	})
}

// UpsertPaid writes a paid credit keyed by (entity, date) inside tx.
func (r *CreditRepository) UpsertPaid(ctx context.Context, tx usecase.Transaction, credit *domain.CreditEntry) error {
	return queriesFor(tx, r.queries).UpsertPaidCredit(ctx, generated.UpsertPaidCreditParams{
		ID:        credit.ID,
		EntityID:  credit.EntityID,
		Date:      timeToPgTimestamptz(credit.Date),
		Amount:    decimalToNumeric(credit.Amount),
		Reason:    credit.Reason,
		CreatedAt: timeToPgTimestamptz(credit.CreatedAt),
	})
}

// ListByEntity returns the credits of one entity ordered by date.
func (r *CreditRepository) ListByEntity(ctx context.Context, entityID int64) ([]*domain.CreditEntry, error) {
	rows, err := r.queries.ListCreditsByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}

	return rowsToCredits(rows), nil
}

// List returns every credit entry.
func (r *CreditRepository) List(ctx context.Context) ([]*domain.CreditEntry, error) {
	rows, err := r.queries.ListCredits(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToCredits(rows), nil
}

func rowsToCredits(rows []generated.Credit) []*domain.CreditEntry {
	credits := make([]*domain.CreditEntry, 0, len(rows))
	for _, row := range rows {
		credits = append(credits, &domain.CreditEntry{
			ID:        row.ID,
			EntityID:  row.EntityID,
			Date:      pgTimestamptzToTime(row.Date),
			Amount:    numericToDecimal(row.Amount),
			Type:      domain.CreditType(row.Type),
			Reason:    row.Reason,
			CreatedAt: pgTimestamptzToTime(row.CreatedAt),
		})
	}

	return credits
}
