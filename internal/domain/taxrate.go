package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TaxRateTable maps categories to tax percentages. Values are human percentages
// (0-100) and are divided by 100 only at lookup.
type TaxRateTable struct {
	Rates   map[Category]decimal.Decimal
	Default decimal.Decimal
}

// NewTaxRateTable builds a validated table.
func NewTaxRateTable(defaultPercent decimal.Decimal, rates map[Category]decimal.Decimal) (*TaxRateTable, error) {
	t := &TaxRateTable{
		Rates:   make(map[Category]decimal.Decimal, len(rates)),
		Default: defaultPercent,
	}
	for c, p := range rates {
		t.Rates[c] = p
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// Validate checks every percentage is within range.
func (t *TaxRateTable) Validate() error {
	if err := ValidatePercentage(t.Default); err != nil {
		return fmt.Errorf("default rate: %w", err)
	}

	for c, p := range t.Rates {
		if err := ValidatePercentage(p); err != nil {
			return fmt.Errorf("rate for %s: %w", c, err)
		}
	}

	return nil
}

// RateFor returns the tax fraction for an inventory group. known is false when the
// default rate was applied.
func (t *TaxRateTable) RateFor(groupID int64) (rate decimal.Decimal, known bool) {
	c, ok := CategoryForGroup(groupID)
	if !ok {
		return t.Default.Div(hundred), false
	}

	p, ok := t.Rates[c]
	if !ok {
		return t.Default.Div(hundred), false
	}

	return p.Div(hundred), true
}
