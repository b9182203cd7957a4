package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ObservationSource identifies which upstream log produced an observation.
type ObservationSource string

const (
	// ObservationPersonal comes from an entity's own mining log.
	ObservationPersonal ObservationSource = "personal"
	// ObservationObserver comes from a structure-level observer log.
	ObservationObserver ObservationSource = "observer"
)

// Observation is one raw mining-activity record.
type Observation struct {
	EntityID    int64
	Date        time.Time
	LocationID  int64
	CommodityID int64
	Quantity    int64
	Source      ObservationSource
	ObservedAt  time.Time
}

// Key returns the ledger key the observation feeds.
func (o *Observation) Key() LedgerKey {
	return LedgerKey{
		EntityID:    o.EntityID,
		Date:        o.Date,
		LocationID:  o.LocationID,
		CommodityID: o.CommodityID,
	}.Normalize()
}

// ObservedTransaction is an externally observed corporate ledger transaction.
type ObservedTransaction struct {
	ID      int64
	PayerID int64
	Date    time.Time
	Amount  decimal.Decimal
	Reason  string
}

// MatchesPhrase reports whether the reason contains phrase, ignoring case.
// An empty phrase matches everything.
func (t *ObservedTransaction) MatchesPhrase(phrase string) bool {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Reason), strings.ToLower(phrase))
}
