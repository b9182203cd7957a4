package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the latest market observation for a commodity. A refresh supersedes it.
type Quote struct {
	CommodityID int64
	Buy         decimal.Decimal
	Sell        decimal.Decimal
	ObservedAt  time.Time
}

// Valuation is the cached per-unit value of a commodity. The latest quote is stored
// on the same row.
type Valuation struct {
	CommodityID  int64
	BuyPrice     decimal.Decimal
	SellPrice    decimal.Decimal
	QuotedAt     *time.Time
	RawPrice     decimal.Decimal
	RefinedPrice decimal.Decimal
	TaxedPrice   decimal.Decimal
	UpdatedAt    time.Time
}

// Quote returns the stored quote, if any.
func (v *Valuation) Quote() (Quote, bool) {
	if v == nil || v.QuotedAt == nil {
		return Quote{}, false
	}
	return Quote{
		CommodityID: v.CommodityID,
		Buy:         v.BuyPrice,
		Sell:        v.SellPrice,
		ObservedAt:  *v.QuotedAt,
	}, true
}

// TaxedPricePolicy selects the per-unit value tax is computed against.
type TaxedPricePolicy string

const (
	// TaxedPriceRefined taxes the refined value.
	TaxedPriceRefined TaxedPricePolicy = "refined"
	// TaxedPriceHigher taxes the greater of raw and refined value.
	TaxedPriceHigher TaxedPricePolicy = "higher"
)

// ParseTaxedPricePolicy parses a policy name.
func ParseTaxedPricePolicy(s string) (TaxedPricePolicy, error) {
	switch p := TaxedPricePolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case TaxedPriceRefined, TaxedPriceHigher:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTaxedPricePolicy, s)
	}
}

// TaxedPrice applies the policy. refined must already carry the raw fallback.
func (p TaxedPricePolicy) TaxedPrice(raw, refined decimal.Decimal) decimal.Decimal {
	if p == TaxedPriceHigher && raw.GreaterThan(refined) {
		return raw
	}
	return refined
}

// PricingConfig holds the process-wide valuation parameters.
type PricingConfig struct {
	// RefinedRate is the refining yield as a fraction, e.g. 0.9063.
	RefinedRate decimal.Decimal
	Policy      TaxedPricePolicy
}

// PriceSource names the fallback that produced a unit price.
type PriceSource string

const (
	PriceSourceQuote    PriceSource = "quote"
	PriceSourceAverage  PriceSource = "average"
	PriceSourceAdjusted PriceSource = "adjusted"
	PriceSourceNone     PriceSource = "none"
)

// PriceBook resolves unit prices during a valuation pass.
type PriceBook struct {
	Quotes      map[int64]Quote
	Commodities map[int64]*Commodity
}

// UnitPrice resolves a commodity's unit price: quote buy price, then the catalog
// average price, then the catalog adjusted price, then zero.
func (b PriceBook) UnitPrice(commodityID int64) (decimal.Decimal, PriceSource) {
	if q, ok := b.Quotes[commodityID]; ok {
		return q.Buy, PriceSourceQuote
	}

	if c, ok := b.Commodities[commodityID]; ok {
		if c.AveragePrice != nil {
			return *c.AveragePrice, PriceSourceAverage
		}
		if c.AdjustedPrice != nil {
			return *c.AdjustedPrice, PriceSourceAdjusted
		}
	}

	return decimal.Zero, PriceSourceNone
}

// Valuate computes the valuation of one unit of c. It never fails: missing prices
// degrade to zero. Refining is single-level.
func Valuate(c *Commodity, book PriceBook, cfg PricingConfig, now time.Time) (Valuation, PriceSource) {
	raw, source := book.UnitPrice(c.ID)

	refined := decimal.Zero
	if c.Refinable() {
		portion := decimal.NewFromInt(c.PortionSize)
		for _, m := range c.Materials {
			price, _ := book.UnitPrice(m.MaterialID)
			yield := cfg.RefinedRate.Mul(decimal.NewFromInt(m.Quantity)).Div(portion)
			refined = refined.Add(yield.Mul(price))
		}
	}

	if refined.IsZero() {
		refined = raw
	}

	v := Valuation{
		CommodityID:  c.ID,
		RawPrice:     raw,
		RefinedPrice: refined,
		TaxedPrice:   cfg.Policy.TaxedPrice(raw, refined),
		UpdatedAt:    now,
	}

	if q, ok := book.Quotes[c.ID]; ok {
		observed := q.ObservedAt
		v.BuyPrice = q.Buy
		v.SellPrice = q.Sell
		v.QuotedAt = &observed
	}

	return v, source
}
