package domain

import "time"

// Entity is a single tracked actor accruing obligations.
type Entity struct {
	ID   int64
	Name string
	// AccountID is zero for orphaned entities.
	AccountID int64
	// Tracked entities accrue obligations. Untracked entities are known alts whose
	// payments are credited to their account's primary entity.
	Tracked         bool
	LedgerUpdatedAt *time.Time
}

// IsOrphan reports whether the entity belongs to no account.
func (e *Entity) IsOrphan() bool {
	return e.AccountID == 0
}

// IsLedgerStale reports whether the ledger was last refreshed longer than window ago.
func (e *Entity) IsLedgerStale(now time.Time, window time.Duration) bool {
	if e.LedgerUpdatedAt == nil {
		return true
	}
	return e.LedgerUpdatedAt.Before(now.Add(-window))
}

// Account groups entities under one owner.
type Account struct {
	ID              int64
	Name            string
	PrimaryEntityID int64
}
