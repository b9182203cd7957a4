package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/GoosefleetEO/miningtaxes/internal/adapter/http/dto"
	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

var (
	jan15 = time.Date(2022, time.January, 15, 0, 0, 0, 0, time.UTC)
	feb2  = time.Date(2022, time.February, 2, 0, 0, 0, 0, time.UTC)
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type balanceServiceStub struct {
	balanceFn     func(ctx context.Context, id int64) (*usecase.EntityBalance, error)
	obligationsFn func(ctx context.Context, id int64) ([]domain.MonthlyAmount, error)
	creditsFn     func(ctx context.Context, id int64) ([]domain.MonthlyAmount, error)
}

func (s *balanceServiceStub) Balance(ctx context.Context, id int64) (*usecase.EntityBalance, error) {
	return s.balanceFn(ctx, id)
}

func (s *balanceServiceStub) MonthlyObligations(ctx context.Context, id int64) ([]domain.MonthlyAmount, error) {
	return s.obligationsFn(ctx, id)
}

func (s *balanceServiceStub) MonthlyCredits(ctx context.Context, id int64) ([]domain.MonthlyAmount, error) {
	return s.creditsFn(ctx, id)
}

type ledgerServiceStub struct {
	lines []*domain.LedgerLine
	stale bool
	err   error
}

func (s *ledgerServiceStub) ListLines(context.Context, int64) ([]*domain.LedgerLine, error) {
	return s.lines, s.err
}

func (s *ledgerServiceStub) IsLedgerStale(context.Context, int64) (bool, error) {
	return s.stale, s.err
}

// serve routes req through a chi router so URL params resolve.
func serve(pattern string, h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get(pattern, h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestEntityHandler_Balance(t *testing.T) {
	paid := jan15
	h := NewEntityHandler(&balanceServiceStub{
		balanceFn: func(_ context.Context, id int64) (*usecase.EntityBalance, error) {
			if id != 1001 {
				t.Fatalf("expected entity 1001, got %d", id)
			}
			return &usecase.EntityBalance{EntityID: id, Obligations: d("10"), Credits: d("1244"), Balance: d("-1234"), LastPaid: &paid}, nil
		},
	}, &ledgerServiceStub{})

	rec := serve("/entities/{id}/balance", h.Balance, "/entities/1001/balance")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Balance.Equal(d("-1234")) || resp.LastPaid == nil || *resp.LastPaid != "2022-01-15" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestEntityHandler_InvalidID(t *testing.T) {
	h := NewEntityHandler(&balanceServiceStub{}, &ledgerServiceStub{})

	for _, target := range []string{"/entities/abc/balance", "/entities/-4/balance", "/entities/0/balance"} {
		rec := serve("/entities/{id}/balance", h.Balance, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestEntityHandler_Obligations(t *testing.T) {
	h := NewEntityHandler(&balanceServiceStub{
		obligationsFn: func(context.Context, int64) ([]domain.MonthlyAmount, error) {
			return []domain.MonthlyAmount{{Month: jan15, Amount: d("10")}, {Month: feb2, Amount: d("20")}}, nil
		},
		creditsFn: func(context.Context, int64) ([]domain.MonthlyAmount, error) {
			return []domain.MonthlyAmount{{Month: jan15, Amount: d("5")}}, nil
		},
	}, &ledgerServiceStub{})

	rec := serve("/entities/{id}/obligations/monthly", h.Obligations, "/entities/1001/obligations/monthly")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ObligationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Obligations) != 2 || resp.Obligations[1].Month != "2022-02" || len(resp.Credits) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestEntityHandler_Ledger(t *testing.T) {
	ledger := &ledgerServiceStub{
		stale: true,
		lines: []*domain.LedgerLine{
			{Date: jan15, LocationID: 1, CommodityID: 1230, Quantity: 10, RawPrice: d("2"), RefinedPrice: d("3"), TaxedValue: d("30"), TaxRate: d("0.1"), TaxesOwed: d("3")},
			{Date: feb2, LocationID: 1, CommodityID: 1230, Quantity: 5, RawPrice: d("2"), RefinedPrice: d("3"), TaxedValue: d("15"), TaxRate: d("0.1"), TaxesOwed: d("1.5")},
		},
	}
	h := NewEntityHandler(&balanceServiceStub{}, ledger)

	rec := serve("/entities/{id}/ledger", h.Ledger, "/entities/1001/ledger")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.LedgerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Stale || len(resp.Lines) != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if !resp.Lines[0].RawValue.Equal(d("20")) || !resp.Totals.TaxesOwed.Equal(d("4.5")) || !resp.Totals.RefinedValue.Equal(d("45")) {
		t.Fatalf("unexpected totals %+v", resp.Totals)
	}

	rec = serve("/entities/{id}/ledger", h.Ledger, "/entities/1001/ledger?since=2022-02-01")
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp.Lines) != 1 || resp.Lines[0].Date != "2022-02-02" {
		t.Fatalf("expected since filter to keep February only, got %+v", resp.Lines)
	}

	rec = serve("/entities/{id}/ledger", h.Ledger, "/entities/1001/ledger?since=yesterday")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed since, got %d", rec.Code)
	}
}

func TestEntityHandler_StaleUnknownEntity(t *testing.T) {
	h := NewEntityHandler(&balanceServiceStub{}, &ledgerServiceStub{err: domain.ErrEntityNotFound})

	rec := serve("/entities/{id}/stale", h.Stale, "/entities/42/stale")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

type accountServiceStub struct {
	summary *usecase.AccountSummary
	err     error
}

func (s *accountServiceStub) AccountSummary(context.Context, int64) (*usecase.AccountSummary, error) {
	return s.summary, s.err
}

func TestAccountHandler_Summary(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{summary: &usecase.AccountSummary{
		AccountID: 1, Name: "Miner", PrimaryEntityID: 1001,
		Entities:    []usecase.EntityBalance{{EntityID: 1001, Balance: d("20")}, {EntityID: 1002, Balance: d("0")}},
		Obligations: d("35"), Credits: d("15"), Balance: d("20"),
	}})

	rec := serve("/accounts/{id}/summary", h.Summary, "/accounts/1/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.AccountSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Name != "Miner" || len(resp.Entities) != 2 || !resp.Balance.Equal(d("20")) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAccountHandler_SummaryNotFound(t *testing.T) {
	h := NewAccountHandler(&accountServiceStub{err: domain.ErrAccountNotFound})

	rec := serve("/accounts/{id}/summary", h.Summary, "/accounts/9/summary")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

type statsServiceStub struct {
	snapshot *domain.StatsSnapshot
	err      error
}

func (s *statsServiceStub) Latest(context.Context) (*domain.StatsSnapshot, error) {
	return s.snapshot, s.err
}

func TestStatsHandler_Latest(t *testing.T) {
	tests := []struct {
		name string
		stub *statsServiceStub
		want int
	}{
		{"snapshot available", &statsServiceStub{snapshot: &domain.StatsSnapshot{GeneratedAt: jan15}}, http.StatusOK},
		{"not built yet", &statsServiceStub{err: usecase.ErrStatsUnavailable}, http.StatusServiceUnavailable},
		{"redis down", &statsServiceStub{err: errors.New("dial tcp: connection refused")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve("/stats", NewStatsHandler(tt.stub).Latest, "/stats")
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

type consistencyServiceStub struct {
	report *usecase.ConsistencyReport
	err    error
}

func (s *consistencyServiceStub) CheckConsistency(context.Context) (*usecase.ConsistencyReport, error) {
	return s.report, s.err
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	inconsistent := &usecase.ConsistencyReport{
		TotalLines: 2,
		Discrepancies: []usecase.LineDiscrepancy{{
			Key:      domain.LedgerKey{EntityID: 1001, Date: jan15, LocationID: 1, CommodityID: 2},
			Recorded: d("9"), Calculated: d("10"), Difference: d("-1"),
		}},
	}

	tests := []struct {
		name       string
		stub       *consistencyServiceStub
		want       int
		wantStatus string
	}{
		{"consistent", &consistencyServiceStub{report: &usecase.ConsistencyReport{TotalLines: 2, Consistent: true}}, http.StatusOK, "consistent"},
		{"inconsistent", &consistencyServiceStub{report: inconsistent, err: usecase.ErrInconsistentLedger}, http.StatusConflict, "inconsistent"},
		{"storage error", &consistencyServiceStub{err: errors.New("boom")}, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve("/ledger/consistency", NewLedgerHandler(tt.stub).CheckConsistency, "/ledger/consistency")
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.wantStatus == "" {
				return
			}
			var resp dto.ConsistencyResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantStatus {
				t.Fatalf("expected status %s, got %s", tt.wantStatus, resp.Status)
			}
		})
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	tests := []struct {
		name      string
		postgres  Pinger
		redis     Pinger
		want      int
		wantRedis string
	}{
		{"all healthy", ok, ok, http.StatusOK, "ok"},
		{"redis down", ok, down, http.StatusOK, "unavailable"},
		{"postgres down", down, ok, http.StatusServiceUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.postgres, tt.redis).Readiness(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			if tt.wantRedis == "" {
				return
			}
			var body map[string]string
			_ = json.Unmarshal(rec.Body.Bytes(), &body)
			if body["redis"] != tt.wantRedis {
				t.Fatalf("expected redis %s, got %s", tt.wantRedis, body["redis"])
			}
		})
	}
}
