package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

func seedLine(e *engine, entityID int64, date time.Time, commodityID int64, taxes string) {
	_ = e.ledgerRepo.Upsert(context.Background(), &domain.LedgerLine{
		EntityID:    entityID,
		Date:        domain.Day(date),
		LocationID:  locationA,
		CommodityID: commodityID,
		Quantity:    1,
		TaxedValue:  d(taxes).Mul(d("10")),
		TaxRate:     d("0.1"),
		TaxesOwed:   d(taxes),
	})
}

func seedCredit(e *engine, entityID int64, date time.Time, amount string, typ domain.CreditType) {
	_ = e.credits.Create(context.Background(), &domain.CreditEntry{
		ID:       e.idGen.Generate(),
		EntityID: entityID,
		Date:     date,
		Amount:   d(amount),
		Type:     typ,
	})
}

func TestMonthlyObligations_SumsPerMonth(t *testing.T) {
	e := newEngine(nil)
	seedMiner(e)
	seedLine(e, miner, testDay, 1, "10")
	seedLine(e, miner, testDay.AddDate(0, 0, 3), 1, "5")
	seedLine(e, miner, testDay.AddDate(0, 1, 0), 1, "7.5")

	monthly, err := e.aggregate.MonthlyObligations(context.Background(), miner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(monthly) != 2 {
		t.Fatalf("expected 2 months, got %+v", monthly)
	}
	if !monthly[0].Month.Equal(testJan) || !monthly[0].Amount.Equal(d("15")) {
		t.Fatalf("unexpected January bucket %+v", monthly[0])
	}
	if !monthly[1].Month.Equal(testJan.AddDate(0, 1, 0)) || !monthly[1].Amount.Equal(d("7.5")) {
		t.Fatalf("unexpected February bucket %+v", monthly[1])
	}

	lifetime, _ := e.aggregate.LifetimeObligations(context.Background(), miner)
	if !lifetime.Equal(d("22.5")) {
		t.Fatalf("expected lifetime 22.5, got %s", lifetime)
	}
}

func TestBalance(t *testing.T) {
	paidAt := time.Date(2022, 1, 20, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name         string
		lines        []string
		credits      []string
		wantCredits  string
		wantBalance  string
		wantLastPaid bool
	}{
		{name: "empty", wantCredits: "0", wantBalance: "0"},
		{name: "payment recorded", credits: []string{"1234"}, wantCredits: "1234", wantBalance: "-1234", wantLastPaid: true},
		{name: "overpaid", lines: []string{"10"}, credits: []string{"1234"}, wantCredits: "1234", wantBalance: "-1224", wantLastPaid: true},
		{name: "partially paid", lines: []string{"100", "50"}, credits: []string{"120"}, wantCredits: "120", wantBalance: "30", wantLastPaid: true},
		{name: "unpaid", lines: []string{"100"}, wantCredits: "0", wantBalance: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(nil)
			seedMiner(e)
			for i, taxes := range tt.lines {
				seedLine(e, miner, testDay, int64(i+1), taxes)
			}
			for _, amount := range tt.credits {
				seedCredit(e, miner, paidAt, amount, domain.CreditTypePaid)
			}

			b, err := e.aggregate.Balance(context.Background(), miner)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !b.Credits.Equal(d(tt.wantCredits)) {
				t.Fatalf("expected credits %s, got %s", tt.wantCredits, b.Credits)
			}
			if !b.Balance.Equal(d(tt.wantBalance)) {
				t.Fatalf("expected balance %s, got %s", tt.wantBalance, b.Balance)
			}
			if tt.wantLastPaid {
				if b.LastPaid == nil || !b.LastPaid.Equal(domain.Day(paidAt)) {
					t.Fatalf("expected last paid %s, got %v", domain.Day(paidAt), b.LastPaid)
				}
			} else if b.LastPaid != nil {
				t.Fatalf("expected no last paid date, got %v", b.LastPaid)
			}
		})
	}
}

func TestBalance_InterestIncreasesBalance(t *testing.T) {
	e := newEngine(nil)
	seedMiner(e)
	seedLine(e, miner, testDay, 1, "100")
	seedCredit(e, miner, testNow, "-2.5", domain.CreditTypeInterest)

	b, err := e.aggregate.Balance(context.Background(), miner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.Balance.Equal(d("102.5")) {
		t.Fatalf("expected balance 102.5, got %s", b.Balance)
	}
	if b.LastPaid != nil {
		t.Fatal("interest must not count as a payment")
	}
}

func TestAccountSummary(t *testing.T) {
	e := newEngine(nil)
	seedMiner(e)
	_ = e.entities.Upsert(context.Background(), &domain.Entity{ID: alt, AccountID: 1, Tracked: true})
	_ = e.entities.Upsert(context.Background(), &domain.Entity{ID: other, Tracked: true})

	seedLine(e, miner, testDay, 1, "10")
	seedLine(e, alt, testDay, 1, "20")
	seedLine(e, alt, testDay.AddDate(0, 1, 0), 1, "5")
	seedLine(e, other, testDay, 1, "1000")
	seedCredit(e, miner, testDay, "12", domain.CreditTypePaid)
	seedCredit(e, alt, testDay.AddDate(0, 0, 2), "3", domain.CreditTypePaid)

	summary, err := e.aggregate.AccountSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Entities) != 2 {
		t.Fatalf("expected orphan excluded and 2 entities, got %d", len(summary.Entities))
	}
	if !summary.Obligations.Equal(d("35")) || !summary.Credits.Equal(d("15")) || !summary.Balance.Equal(d("20")) {
		t.Fatalf("unexpected totals %s/%s/%s", summary.Obligations, summary.Credits, summary.Balance)
	}
	if summary.PrimaryEntityID != miner {
		t.Fatalf("expected primary %d, got %d", miner, summary.PrimaryEntityID)
	}
	if len(summary.MonthlyObligations) != 2 || !summary.MonthlyObligations[0].Amount.Equal(d("30")) {
		t.Fatalf("unexpected monthly obligations %+v", summary.MonthlyObligations)
	}
	if summary.LastPaid == nil || !summary.LastPaid.Equal(testDay.AddDate(0, 0, 2)) {
		t.Fatalf("expected latest payment across entities, got %v", summary.LastPaid)
	}
}

func TestAccountSummary_UnknownAccount(t *testing.T) {
	e := newEngine(nil)

	if _, err := e.aggregate.AccountSummary(context.Background(), 99); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
