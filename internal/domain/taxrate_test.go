package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTaxRateTable_RateFor(t *testing.T) {
	table, err := NewTaxRateTable(d("10"), map[Category]decimal.Decimal{
		CategoryOres: d("12.5"),
		CategoryR64:  d("30"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name    string
		groupID int64
		want    string
		known   bool
	}{
		{name: "ore group", groupID: 462, want: "0.125", known: true},
		{name: "moon ore group", groupID: 1923, want: "0.3", known: true},
		{name: "category missing from table", groupID: 465, want: "0.1", known: false},
		{name: "unknown group", groupID: 12345, want: "0.1", known: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, known := table.RateFor(tt.groupID)
			if !rate.Equal(d(tt.want)) || known != tt.known {
				t.Fatalf("RateFor(%d) = %s/%v, want %s/%v", tt.groupID, rate, known, tt.want, tt.known)
			}
		})
	}
}

func TestTaxRateTable_StoresPercentages(t *testing.T) {
	table, err := NewTaxRateTable(d("10"), map[Category]decimal.Decimal{CategoryIce: d("5")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !table.Rates[CategoryIce].Equal(d("5")) || !table.Default.Equal(d("10")) {
		t.Fatalf("expected percentages stored undivided, got %+v", table)
	}
}

func TestNewTaxRateTable_RejectsMalformed(t *testing.T) {
	if _, err := NewTaxRateTable(d("101"), nil); !errors.Is(err, ErrInvalidPercentage) {
		t.Fatalf("expected ErrInvalidPercentage for default, got %v", err)
	}

	_, err := NewTaxRateTable(d("10"), map[Category]decimal.Decimal{CategoryGasses: d("-3")})
	if !errors.Is(err, ErrInvalidPercentage) {
		t.Fatalf("expected ErrInvalidPercentage for category, got %v", err)
	}
}

func TestCategoryForGroup(t *testing.T) {
	if c, ok := CategoryForGroup(711); !ok || c != CategoryGasses {
		t.Fatalf("expected gas group to map to Gasses, got %q %v", c, ok)
	}
	if _, ok := CategoryForGroup(18); ok {
		t.Fatal("expected mineral group to be untaxed category")
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("mercoxit")
	if err != nil || c != CategoryMercoxit {
		t.Fatalf("expected Mercoxit, got %q err=%v", c, err)
	}

	if _, err := ParseCategory("plasma"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}
