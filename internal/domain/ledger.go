package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerKey is the natural key of a ledger line.
type LedgerKey struct {
	EntityID    int64
	Date        time.Time
	LocationID  int64
	CommodityID int64
}

// Normalize truncates the date to its UTC day.
func (k LedgerKey) Normalize() LedgerKey {
	k.Date = Day(k.Date)
	return k
}

// LedgerLine is one valued, taxed observation of a commodity mined by an entity
// at a location on one day.
type LedgerLine struct {
	EntityID     int64
	Date         time.Time
	LocationID   int64
	CommodityID  int64
	Quantity     int64
	RawPrice     decimal.Decimal
	RefinedPrice decimal.Decimal
	TaxedValue   decimal.Decimal
	TaxRate      decimal.Decimal
	TaxesOwed    decimal.Decimal
	UpdatedAt    time.Time
}

// Key returns the line's natural key.
func (l *LedgerLine) Key() LedgerKey {
	return LedgerKey{
		EntityID:    l.EntityID,
		Date:        l.Date,
		LocationID:  l.LocationID,
		CommodityID: l.CommodityID,
	}
}

// NewLedgerLine values quantity units at v and applies rate (a fraction).
func NewLedgerLine(key LedgerKey, quantity int64, v Valuation, rate decimal.Decimal, now time.Time) (*LedgerLine, error) {
	if quantity < 0 {
		return nil, ErrNegativeQuantity
	}

	key = key.Normalize()
	q := decimal.NewFromInt(quantity)
	taxed := v.TaxedPrice.Mul(q)

	return &LedgerLine{
		EntityID:     key.EntityID,
		Date:         key.Date,
		LocationID:   key.LocationID,
		CommodityID:  key.CommodityID,
		Quantity:     quantity,
		RawPrice:     v.RawPrice.Mul(q),
		RefinedPrice: v.RefinedPrice.Mul(q),
		TaxedValue:   taxed,
		TaxRate:      rate,
		TaxesOwed:    taxed.Mul(rate),
		UpdatedAt:    now,
	}, nil
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Month returns the first day of t's UTC calendar month.
func Month(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
