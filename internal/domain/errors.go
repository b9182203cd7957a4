package domain

import "errors"

var (
	// Catalog errors
	ErrCommodityNotFound = errors.New("commodity not found")
	ErrInvalidCommodity  = errors.New("invalid commodity")
	ErrUnknownCategory   = errors.New("unknown tax category")

	// Ledger errors
	ErrNegativeQuantity = errors.New("quantity must not be negative")
	ErrEntityNotFound   = errors.New("entity not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrValuationMissing = errors.New("valuation not found")

	// Credit errors
	ErrInvalidCreditType = errors.New("invalid credit type")
	ErrInvalidAmount     = errors.New("amount must not be zero")

	// Upstream collaborators. Abort the affected step only.
	ErrSourceUnavailable = errors.New("upstream source unavailable")

	// Reconciliation. The observed entry is skipped.
	ErrIdentityUnmatched = errors.New("payer does not match a tracked entity")

	// Configuration errors. Fatal for the cycle step that hits them.
	ErrInvalidConfiguration    = errors.New("invalid configuration")
	ErrUnknownPricingMethod    = errors.New("unknown pricing method")
	ErrUnknownTaxedPricePolicy = errors.New("unknown taxed price policy")
	ErrInvalidPercentage       = errors.New("percentage must be between 0 and 100")
)

// IsConfigurationError reports whether err belongs to the configuration-invalid class.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrUnknownPricingMethod) ||
		errors.Is(err, ErrUnknownTaxedPricePolicy) ||
		errors.Is(err, ErrInvalidPercentage)
}
