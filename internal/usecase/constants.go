package usecase

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction.
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultQuoteConcurrency bounds concurrent quote batch requests.
	DefaultQuoteConcurrency = 4

	// InterestPeriodTTL keeps the once-per-month interest guard alive past month end.
	InterestPeriodTTL = 32 * 24 * time.Hour

	// TaxesDuePeriodTTL keeps the once-per-day taxes-due guard alive past midnight.
	TaxesDuePeriodTTL = 25 * time.Hour

	// interestScale is the number of decimal places interest is rounded to.
	interestScale = 2
)

// InterestConfig holds the interest accrual parameters.
type InterestConfig struct {
	// RatePercent is a human percentage, e.g. 5 for 5%.
	RatePercent decimal.Decimal
	// Threshold is both the minimum balance that accrues and the minimum interest posted.
	Threshold decimal.Decimal
}

// EngineConfig carries every tunable the engine reads. It is built once at startup
// and passed to use case constructors.
type EngineConfig struct {
	Pricing          domain.PricingConfig
	QuoteBatchSize   int
	QuoteConcurrency int
	ValuationMaxAge  time.Duration

	DefaultTaxPercent decimal.Decimal
	TaxPercents       map[domain.Category]decimal.Decimal

	Interest InterestConfig

	ReconcilePhrase string

	LedgerStale              time.Duration
	LedgerStaleOffset        time.Duration
	TaxOnlyObservedLocations bool

	ObservationRetention time.Duration
}

// DefaultEngineConfig returns the stock settings.
func DefaultEngineConfig() EngineConfig {
	percents := make(map[domain.Category]decimal.Decimal, len(domain.Categories))
	for _, c := range domain.Categories {
		percents[c] = decimal.NewFromInt(10)
	}

	return EngineConfig{
		Pricing: domain.PricingConfig{
			RefinedRate: decimal.RequireFromString("0.9063"),
			Policy:      domain.TaxedPriceHigher,
		},
		QuoteBatchSize:    domain.MaxQuoteBatchSize,
		QuoteConcurrency:  DefaultQuoteConcurrency,
		ValuationMaxAge:   24 * time.Hour,
		DefaultTaxPercent: decimal.NewFromInt(10),
		TaxPercents:       percents,
		Interest: InterestConfig{
			RatePercent: decimal.Zero,
			Threshold:   decimal.RequireFromString("0.01"),
		},
		LedgerStale:              240 * time.Minute,
		LedgerStaleOffset:        5 * time.Minute,
		TaxOnlyObservedLocations: true,
		ObservationRetention:     90 * 24 * time.Hour,
	}
}

// StaleWindow is the effective staleness window after the clock-skew offset.
func (c EngineConfig) StaleWindow() time.Duration {
	w := c.LedgerStale - c.LedgerStaleOffset
	if w < 0 {
		return 0
	}
	return w
}

// Validate rejects settings that would make the engine compute nonsense.
func (c EngineConfig) Validate() error {
	if err := domain.ValidateFraction(c.Pricing.RefinedRate); err != nil {
		return err
	}

	if _, err := domain.ParseTaxedPricePolicy(string(c.Pricing.Policy)); err != nil {
		return err
	}

	if _, err := domain.NewTaxRateTable(c.DefaultTaxPercent, c.TaxPercents); err != nil {
		return err
	}

	if err := domain.ValidatePercentage(c.Interest.RatePercent); err != nil {
		return err
	}

	if c.Interest.Threshold.IsNegative() {
		return domain.ErrInvalidConfiguration
	}

	return nil
}
