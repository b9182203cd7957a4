package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditType tags the origin of a credit entry.
type CreditType string

const (
	// CreditTypePaid is a payment matched from observed transactions.
	CreditTypePaid CreditType = "paid"
	// CreditTypeInterest is an interest charge; its amount is negative.
	CreditTypeInterest CreditType = "interest"
	// CreditTypeManual is an administrative adjustment.
	CreditTypeManual CreditType = "manual"
)

var validCreditTypes = map[CreditType]bool{
	CreditTypePaid:     true,
	CreditTypeInterest: true,
	CreditTypeManual:   true,
}

// IsValid checks if the credit type is known.
func (t CreditType) IsValid() bool {
	return validCreditTypes[t]
}

// CreditEntry is one posting against an entity's obligation. Positive amounts reduce
// what the entity owes, negative amounts increase it.
type CreditEntry struct {
	ID        string
	EntityID  int64
	Date      time.Time
	Amount    decimal.Decimal
	Type      CreditType
	Reason    string
	CreatedAt time.Time
}

// Validate validates the entry.
func (c *CreditEntry) Validate() error {
	if !c.Type.IsValid() {
		return ErrInvalidCreditType
	}

	if c.Amount.IsZero() {
		return ErrInvalidAmount
	}

	return nil
}
