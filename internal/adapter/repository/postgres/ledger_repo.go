package postgres

import (
	"context"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres/generated"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Upsert replaces the line stored under (entity, date, location, commodity).
func (r *LedgerRepository) Upsert(ctx context.Context, line *domain.LedgerLine) error {
	return r.queries.UpsertLedgerLine(ctx, generated.UpsertLedgerLineParams{
		EntityID:     line.EntityID,
		Date:         dayToPgDate(line.Date),
		LocationID:   line.LocationID,
		CommodityID:  line.CommodityID,
		Quantity:     line.Quantity,
		RawPrice:     decimalToNumeric(line.RawPrice),
		RefinedPrice: decimalToNumeric(line.RefinedPrice),
		TaxedValue:   decimalToNumeric(line.TaxedValue),
		TaxRate:      decimalToNumeric(line.TaxRate),
		TaxesOwed:    decimalToNumeric(line.TaxesOwed),
		UpdatedAt:    timeToPgTimestamptz(line.UpdatedAt),
	})
}

// ListByEntity returns the lines of one entity ordered by date.
func (r *LedgerRepository) ListByEntity(ctx context.Context, entityID int64) ([]*domain.LedgerLine, error) {
	rows, err := r.queries.ListLedgerLinesByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}

	return rowsToLedgerLines(rows), nil
}

// List returns every ledger line.
func (r *LedgerRepository) List(ctx context.Context) ([]*domain.LedgerLine, error) {
	rows, err := r.queries.ListLedgerLines(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToLedgerLines(rows), nil
}

func rowsToLedgerLines(rows []generated.LedgerLine) []*domain.LedgerLine {
	lines := make([]*domain.LedgerLine, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, &domain.LedgerLine{
			EntityID:     row.EntityID,
			Date:         pgDateToDay(row.Date),
			LocationID:   row.LocationID,
			CommodityID:  row.CommodityID,
			Quantity:     row.Quantity,
			RawPrice:     numericToDecimal(row.RawPrice),
			RefinedPrice: numericToDecimal(row.RefinedPrice),
			TaxedValue:   numericToDecimal(row.TaxedValue),
			TaxRate:      numericToDecimal(row.TaxRate),
			TaxesOwed:    numericToDecimal(row.TaxesOwed),
			UpdatedAt:    pgTimestamptzToTime(row.UpdatedAt),
		})
	}

	return lines
}
