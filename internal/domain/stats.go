package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatsSnapshot is a derived, rebuildable projection of the ledger. It has no write
// path of its own and may be dropped at any time.
type StatsSnapshot struct {
	GeneratedAt time.Time `json:"generated_at"`

	Accounts      []AccountStats      `json:"accounts"`
	MonthlyTaxes  []MonthlyAmount     `json:"monthly_taxes"`
	Leaderboard   []LeaderboardMonth  `json:"leaderboard"`
	ByLocation    []BreakdownRow      `json:"by_location"`
	ByCategory    []BreakdownRow      `json:"by_category"`
	Unmatched     []UnmatchedActivity `json:"unmatched_activity"`
	UnmatchedPaid []UnmatchedPayment  `json:"unmatched_payments"`
}

// AccountStats is the per-account row of the admin balance table.
type AccountStats struct {
	AccountID       int64           `json:"account_id"`
	Name            string          `json:"name"`
	PrimaryEntityID int64           `json:"primary_entity_id"`
	EntityCount     int             `json:"entity_count"`
	Obligations     decimal.Decimal `json:"obligations"`
	Credits         decimal.Decimal `json:"credits"`
	Balance         decimal.Decimal `json:"balance"`
	LastPaid        *time.Time      `json:"last_paid,omitempty"`
	MonthlyTaxes    []MonthlyAmount `json:"monthly_taxes"`
}

// LeaderboardMonth ranks accounts by mined value within one month.
type LeaderboardMonth struct {
	Month   time.Time          `json:"month"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry is one ranked account.
type LeaderboardEntry struct {
	AccountID  int64           `json:"account_id"`
	Name       string          `json:"name"`
	MinedValue decimal.Decimal `json:"mined_value"`
}

// BreakdownRow totals ledger lines under one key (a location or a category).
type BreakdownRow struct {
	Key        string          `json:"key"`
	Quantity   int64           `json:"quantity"`
	TaxedValue decimal.Decimal `json:"taxed_value"`
	TaxesOwed  decimal.Decimal `json:"taxes_owed"`
}

// UnmatchedActivity is observed activity that maps to no tracked entity.
type UnmatchedActivity struct {
	EntityID    int64     `json:"entity_id"`
	LocationID  int64     `json:"location_id"`
	CommodityID int64     `json:"commodity_id"`
	Quantity    int64     `json:"quantity"`
	LastSeen    time.Time `json:"last_seen"`
}

// UnmatchedPayment is an observed transaction that matched the phrase but no entity.
type UnmatchedPayment struct {
	TransactionID int64           `json:"transaction_id"`
	PayerID       int64           `json:"payer_id"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Reason        string          `json:"reason"`
}
