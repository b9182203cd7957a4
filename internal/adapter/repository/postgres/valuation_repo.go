package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres/generated"
)

// ValuationRepository implements usecase.ValuationRepository.
type ValuationRepository struct {
	queries *generated.Queries
}

// NewValuationRepository creates a new ValuationRepository.
func NewValuationRepository(db generated.DBTX) *ValuationRepository {
	return &ValuationRepository{queries: generated.New(db)}
}

// UpsertQuotes stores the latest quotes without touching computed prices.
func (r *ValuationRepository) UpsertQuotes(ctx context.Context, quotes []domain.Quote) error {
	for _, q := range quotes {
		if err := r.queries.UpsertQuote(ctx, generated.UpsertQuoteParams{
			CommodityID: q.CommodityID,
			BuyPrice:    decimalToNumeric(q.Buy),
			SellPrice:   decimalToNumeric(q.Sell),
			QuotedAt:    timeToPgTimestamptz(q.ObservedAt),
		}); err != nil {
			return err
		}
	}

	return nil
}

// Upsert stores computed prices without touching the quote.
func (r *ValuationRepository) Upsert(ctx context.Context, v *domain.Valuation) error {
	return r.queries.UpsertValuation(ctx, generated.UpsertValuationParams{
		CommodityID:  v.CommodityID,
		RawPrice:     decimalToNumeric(v.RawPrice),
		RefinedPrice: decimalToNumeric(v.RefinedPrice),
		TaxedPrice:   decimalToNumeric(v.TaxedPrice),
		UpdatedAt:    timeToPgTimestamptz(v.UpdatedAt),
	})
}

// Get retrieves the valuation of a commodity.
func (r *ValuationRepository) Get(ctx context.Context, commodityID int64) (*domain.Valuation, error) {
	row, err := r.queries.GetValuation(ctx, commodityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrValuationMissing
		}

		return nil, err
	}

	return rowToValuation(row), nil
}

// List returns every stored valuation.
func (r *ValuationRepository) List(ctx context.Context) ([]*domain.Valuation, error) {
	rows, err := r.queries.ListValuations(ctx)
	if err != nil {
		return nil, err
	}

	valuations := make([]*domain.Valuation, 0, len(rows))
	for _, row := range rows {
		valuations = append(valuations, rowToValuation(row))
	}

	return valuations, nil
}

func rowToValuation(row generated.Valuation) *domain.Valuation {
	return &domain.Valuation{
		CommodityID:  row.CommodityID,
		BuyPrice:     numericToDecimal(row.BuyPrice),
		SellPrice:    numericToDecimal(row.SellPrice),
		QuotedAt:     pgTimestamptzToPtr(row.QuotedAt),
		RawPrice:     numericToDecimal(row.RawPrice),
		RefinedPrice: numericToDecimal(row.RefinedPrice),
		TaxedPrice:   numericToDecimal(row.TaxedPrice),
		UpdatedAt:    pgTimestamptzToTime(row.UpdatedAt),
	}
}
