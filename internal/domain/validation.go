package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxQuoteBatchSize = 1000
	MinPercentage     = 0
	MaxPercentage     = 100
)

// ValidatePercentage validates a human percentage (0-100).
func ValidatePercentage(p decimal.Decimal) error {
	if p.LessThan(decimal.NewFromInt(MinPercentage)) || p.GreaterThan(decimal.NewFromInt(MaxPercentage)) {
		return fmt.Errorf("%w: got %s", ErrInvalidPercentage, p.String())
	}
	return nil
}

// ParsePercentage parses and validates a percentage string.
func ParsePercentage(s string) (decimal.Decimal, error) {
	p, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidPercentage, s)
	}

	if err := ValidatePercentage(p); err != nil {
		return decimal.Zero, err
	}

	return p, nil
}

// ValidateFraction validates a rate expressed as a fraction in [0, 1].
func ValidateFraction(f decimal.Decimal) error {
	if f.IsNegative() || f.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%w: fraction %s outside [0, 1]", ErrInvalidConfiguration, f.String())
	}
	return nil
}

// ValidateBatchSize clamps a quote batch size to the upstream limit.
func ValidateBatchSize(size int) int {
	if size <= 0 || size > MaxQuoteBatchSize {
		return MaxQuoteBatchSize
	}
	return size
}
