package postgres

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/infrastructure/postgres/generated"
)

// defaultRateKey stores the fallback percentage next to the category rows.
const defaultRateKey = "default"

// TaxRateRepository implements usecase.TaxRateRepository.
type TaxRateRepository struct {
	queries *generated.Queries
}

// NewTaxRateRepository creates a new TaxRateRepository.
func NewTaxRateRepository(db generated.DBTX) *TaxRateRepository {
	return &TaxRateRepository{queries: generated.New(db)}
}

// Load reads the table. found is false until a default has been saved.
func (r *TaxRateRepository) Load(ctx context.Context) (*domain.TaxRateTable, bool, error) {
	rows, err := r.queries.ListTaxRates(ctx)
	if err != nil {
		return nil, false, err
	}

	table := &domain.TaxRateTable{Rates: make(map[domain.Category]decimal.Decimal)}
	found := false
	for _, row := range rows {
		if row.Category == defaultRateKey {
			table.Default = numericToDecimal(row.Percent)
			found = true
			continue
		}
		table.Rates[domain.Category(row.Category)] = numericToDecimal(row.Percent)
	}

	if !found {
		return nil, false, nil
	}

	return table, true, nil
}

// Save writes every rate of the table.
func (r *TaxRateRepository) Save(ctx context.Context, table *domain.TaxRateTable) error {
	for c, p := range table.Rates {
		if err := r.SetRate(ctx, c, p); err != nil {
			return err
		}
	}

	return r.SetDefault(ctx, table.Default)
}

// SetRate stores one category percentage.
func (r *TaxRateRepository) SetRate(ctx context.Context, category domain.Category, percent decimal.Decimal) error {
	return r.queries.UpsertTaxRate(ctx, generated.UpsertTaxRateParams{
		Category: string(category),
		Percent:  decimalToNumeric(percent),
	})
}

// SetDefault stores the fallback percentage.
func (r *TaxRateRepository) SetDefault(ctx context.Context, percent decimal.Decimal) error {
	return r.queries.UpsertTaxRate(ctx, generated.UpsertTaxRateParams{
		Category: defaultRateKey,
		Percent:  decimalToNumeric(percent),
	})
}
