package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidatePercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     decimal.Decimal
		expectErr bool
	}{
		{name: "zero", value: decimal.Zero},
		{name: "hundred", value: decimal.NewFromInt(100)},
		{name: "fractional", value: decimal.RequireFromString("12.5")},
		{name: "negative", value: decimal.NewFromInt(-1), expectErr: true},
		{name: "above hundred", value: decimal.RequireFromString("100.01"), expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePercentage(tt.value)
			if tt.expectErr && !errors.Is(err, ErrInvalidPercentage) {
				t.Fatalf("expected ErrInvalidPercentage, got %v", err)
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParsePercentage(t *testing.T) {
	t.Parallel()

	p, err := ParsePercentage("7.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Equal(decimal.RequireFromString("7.5")) {
		t.Fatalf("expected 7.5, got %s", p)
	}

	if _, err := ParsePercentage("ten"); !errors.Is(err, ErrInvalidPercentage) {
		t.Fatalf("expected ErrInvalidPercentage for malformed input, got %v", err)
	}

	if _, err := ParsePercentage("150"); !errors.Is(err, ErrInvalidPercentage) {
		t.Fatalf("expected ErrInvalidPercentage for out of range input, got %v", err)
	}
}

func TestValidateFraction(t *testing.T) {
	t.Parallel()

	if err := ValidateFraction(decimal.RequireFromString("0.9063")); err != nil {
		t.Fatalf("expected valid fraction, got %v", err)
	}

	if err := ValidateFraction(decimal.RequireFromString("1.2")); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestValidateBatchSize(t *testing.T) {
	t.Parallel()

	cases := map[int]int{0: 1000, -5: 1000, 250: 250, 1000: 1000, 5000: 1000}
	for in, want := range cases {
		if got := ValidateBatchSize(in); got != want {
			t.Fatalf("ValidateBatchSize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestIsConfigurationError(t *testing.T) {
	t.Parallel()

	if !IsConfigurationError(ErrUnknownPricingMethod) {
		t.Fatal("expected unknown pricing method to be a configuration error")
	}
	if IsConfigurationError(ErrSourceUnavailable) {
		t.Fatal("expected upstream errors not to be configuration errors")
	}
}
