package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

const dateLayout = "2006-01-02"
const monthLayout = "2006-01"

// MonthlyAmountResponse is one calendar-month bucket.
type MonthlyAmountResponse struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// MonthlyFromDomain converts month buckets to responses.
func MonthlyFromDomain(months []domain.MonthlyAmount) []MonthlyAmountResponse {
	result := make([]MonthlyAmountResponse, len(months))
	for i, m := range months {
		result[i] = MonthlyAmountResponse{Month: m.Month.Format(monthLayout), Amount: m.Amount}
	}
	return result
}

// BalanceResponse represents an entity balance in API responses.
type BalanceResponse struct {
	EntityID    int64           `json:"entity_id"`
	Obligations decimal.Decimal `json:"obligations"`
	Credits     decimal.Decimal `json:"credits"`
	Balance     decimal.Decimal `json:"balance"`
	LastPaid    *string         `json:"last_paid,omitempty"`
}

// BalanceFromUseCase converts an entity balance to a response.
func BalanceFromUseCase(b *usecase.EntityBalance) *BalanceResponse {
	return &BalanceResponse{
		EntityID:    b.EntityID,
		Obligations: b.Obligations,
		Credits:     b.Credits,
		Balance:     b.Balance,
		LastPaid:    formatDay(b.LastPaid),
	}
}

// ObligationsResponse lists monthly obligations and credits of an entity.
type ObligationsResponse struct {
	EntityID    int64                   `json:"entity_id"`
	Obligations []MonthlyAmountResponse `json:"obligations"`
	Credits     []MonthlyAmountResponse `json:"credits"`
}

// LedgerLineResponse represents a ledger line in API responses.
type LedgerLineResponse struct {
	Date         string          `json:"date"`
	LocationID   int64           `json:"location_id"`
	CommodityID  int64           `json:"commodity_id"`
	Quantity     int64           `json:"quantity"`
	RawValue     decimal.Decimal `json:"raw_value"`
	RefinedValue decimal.Decimal `json:"refined_value"`
	TaxedValue   decimal.Decimal `json:"taxed_value"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	TaxesOwed    decimal.Decimal `json:"taxes_owed"`
}

// LedgerResponse lists an entity's ledger with totals.
type LedgerResponse struct {
	EntityID int64                `json:"entity_id"`
	Stale    bool                 `json:"stale"`
	Lines    []LedgerLineResponse `json:"lines"`
	Totals   LedgerTotals         `json:"totals"`
}

// LedgerTotals sums the value columns of a ledger listing.
type LedgerTotals struct {
	RawValue     decimal.Decimal `json:"raw_value"`
	RefinedValue decimal.Decimal `json:"refined_value"`
	TaxedValue   decimal.Decimal `json:"taxed_value"`
	TaxesOwed    decimal.Decimal `json:"taxes_owed"`
}

// LedgerFromDomain converts ledger lines to a response. Raw and refined values are
// per-unit prices multiplied by quantity.
func LedgerFromDomain(entityID int64, stale bool, lines []*domain.LedgerLine) *LedgerResponse {
	resp := &LedgerResponse{
		EntityID: entityID,
		Stale:    stale,
		Lines:    make([]LedgerLineResponse, len(lines)),
		Totals: LedgerTotals{
			RawValue:     decimal.Zero,
			RefinedValue: decimal.Zero,
			TaxedValue:   decimal.Zero,
			TaxesOwed:    decimal.Zero,
		},
	}

	for i, l := range lines {
		qty := decimal.NewFromInt(l.Quantity)
		row := LedgerLineResponse{
			Date:         l.Date.Format(dateLayout),
			LocationID:   l.LocationID,
			CommodityID:  l.CommodityID,
			Quantity:     l.Quantity,
			RawValue:     l.RawPrice.Mul(qty),
			RefinedValue: l.RefinedPrice.Mul(qty),
			TaxedValue:   l.TaxedValue,
			TaxRate:      l.TaxRate,
			TaxesOwed:    l.TaxesOwed,
		}
		resp.Lines[i] = row
		resp.Totals.RawValue = resp.Totals.RawValue.Add(row.RawValue)
		resp.Totals.RefinedValue = resp.Totals.RefinedValue.Add(row.RefinedValue)
		resp.Totals.TaxedValue = resp.Totals.TaxedValue.Add(row.TaxedValue)
		resp.Totals.TaxesOwed = resp.Totals.TaxesOwed.Add(row.TaxesOwed)
	}

	return resp
}

// StaleResponse reports whether an entity's ledger needs a refresh.
type StaleResponse struct {
	EntityID int64 `json:"entity_id"`
	Stale    bool  `json:"stale"`
}

// AccountSummaryResponse represents an account roll-up in API responses.
type AccountSummaryResponse struct {
	AccountID          int64                   `json:"account_id"`
	Name               string                  `json:"name"`
	PrimaryEntityID    int64                   `json:"primary_entity_id"`
	Entities           []BalanceResponse       `json:"entities"`
	MonthlyObligations []MonthlyAmountResponse `json:"monthly_obligations"`
	MonthlyCredits     []MonthlyAmountResponse `json:"monthly_credits"`
	Obligations        decimal.Decimal         `json:"obligations"`
	Credits            decimal.Decimal         `json:"credits"`
	Balance            decimal.Decimal         `json:"balance"`
	LastPaid           *string                 `json:"last_paid,omitempty"`
}

// AccountSummaryFromUseCase converts an account summary to a response.
func AccountSummaryFromUseCase(s *usecase.AccountSummary) *AccountSummaryResponse {
	resp := &AccountSummaryResponse{
		AccountID:          s.AccountID,
		Name:               s.Name,
		PrimaryEntityID:    s.PrimaryEntityID,
		Entities:           make([]BalanceResponse, len(s.Entities)),
		MonthlyObligations: MonthlyFromDomain(s.MonthlyObligations),
		MonthlyCredits:     MonthlyFromDomain(s.MonthlyCredits),
		Obligations:        s.Obligations,
		Credits:            s.Credits,
		Balance:            s.Balance,
		LastPaid:           formatDay(s.LastPaid),
	}
	for i := range s.Entities {
		resp.Entities[i] = *BalanceFromUseCase(&s.Entities[i])
	}
	return resp
}

// ConsistencyResponse represents a ledger consistency check.
type ConsistencyResponse struct {
	Status         string                `json:"status"`
	Consistent     bool                  `json:"consistent"`
	TotalLines     int                   `json:"total_lines"`
	Discrepancies  []DiscrepancyResponse `json:"discrepancies,omitempty"`
	OrphanEntities []int64               `json:"orphan_entities,omitempty"`
	CheckedAt      time.Time             `json:"checked_at"`
}

// DiscrepancyResponse is one line whose stored taxes disagree with a recomputation.
type DiscrepancyResponse struct {
	EntityID    int64           `json:"entity_id"`
	Date        string          `json:"date"`
	LocationID  int64           `json:"location_id"`
	CommodityID int64           `json:"commodity_id"`
	Recorded    decimal.Decimal `json:"recorded"`
	Calculated  decimal.Decimal `json:"calculated"`
	Difference  decimal.Decimal `json:"difference"`
}

// ConsistencyFromUseCase converts a consistency report to a response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	status := "consistent"
	if !r.Consistent {
		status = "inconsistent"
	}

	resp := &ConsistencyResponse{
		Status:         status,
		Consistent:     r.Consistent,
		TotalLines:     r.TotalLines,
		OrphanEntities: r.OrphanEntities,
		CheckedAt:      r.CheckedAt,
	}
	for _, d := range r.Discrepancies {
		resp.Discrepancies = append(resp.Discrepancies, DiscrepancyResponse{
			EntityID:    d.Key.EntityID,
			Date:        d.Key.Date.Format(dateLayout),
			LocationID:  d.Key.LocationID,
			CommodityID: d.Key.CommodityID,
			Recorded:    d.Recorded,
			Calculated:  d.Calculated,
			Difference:  d.Difference,
		})
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func formatDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(dateLayout)
	return &s
}
