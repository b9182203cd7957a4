package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

func TestTaxTable_SeedsFromConfiguration(t *testing.T) {
	e := newEngine(nil)

	table, err := e.tax.Table(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !table.Default.Equal(d("10")) || len(table.Rates) != len(domain.Categories) {
		t.Fatalf("unexpected seeded table %+v", table)
	}

	if _, found, _ := e.taxRates.Load(context.Background()); !found {
		t.Fatal("expected seeded table to be persisted")
	}
}

func TestTaxTable_RejectsMalformedStoredPercent(t *testing.T) {
	e := newEngine(nil)
	_ = e.taxRates.Save(context.Background(), &domain.TaxRateTable{
		Rates:   map[domain.Category]decimal.Decimal{domain.CategoryOres: d("150")},
		Default: d("10"),
	})

	if _, err := e.tax.Table(context.Background()); !errors.Is(err, domain.ErrInvalidPercentage) {
		t.Fatalf("expected ErrInvalidPercentage, got %v", err)
	}
}

func TestRateFor(t *testing.T) {
	e := newEngine(nil)
	ctx := context.Background()

	if err := e.tax.SetRate(ctx, domain.CategoryOres, d("12")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := e.tax.SetDefault(ctx, d("7")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		commodity *domain.Commodity
		want      string
	}{
		{name: "configured category", commodity: plainCommodity(1, 462), want: "0.12"},
		{name: "seeded category", commodity: plainCommodity(2, 465), want: "0.1"},
		{name: "unknown group uses default", commodity: plainCommodity(3, 18), want: "0.07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := e.tax.RateFor(ctx, tt.commodity)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !rate.Equal(d(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, rate)
			}
			if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
				t.Fatalf("rate %s outside [0, 1]", rate)
			}
		})
	}
}

func TestSetRate_RejectsOutOfRange(t *testing.T) {
	e := newEngine(nil)

	if err := e.tax.SetRate(context.Background(), domain.CategoryIce, d("-1")); !errors.Is(err, domain.ErrInvalidPercentage) {
		t.Fatalf("expected ErrInvalidPercentage, got %v", err)
	}
	if err := e.tax.SetDefault(context.Background(), d("101")); !errors.Is(err, domain.ErrInvalidPercentage) {
		t.Fatalf("expected ErrInvalidPercentage, got %v", err)
	}
}
