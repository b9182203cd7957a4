package handler

import (
	"context"
	"net/http"

	"github.com/GoosefleetEO/miningtaxes/internal/adapter/http/dto"
	"github.com/GoosefleetEO/miningtaxes/internal/domain"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

// BalanceService defines the aggregation behavior needed by EntityHandler.
type BalanceService interface {
	Balance(ctx context.Context, entityID int64) (*usecase.EntityBalance, error)
	MonthlyObligations(ctx context.Context, entityID int64) ([]domain.MonthlyAmount, error)
	MonthlyCredits(ctx context.Context, entityID int64) ([]domain.MonthlyAmount, error)
}

// LedgerService defines the ledger behavior needed by EntityHandler.
type LedgerService interface {
	ListLines(ctx context.Context, entityID int64) ([]*domain.LedgerLine, error)
	IsLedgerStale(ctx context.Context, entityID int64) (bool, error)
}

// EntityHandler serves per-entity balances and ledgers.
type EntityHandler struct {
	balances BalanceService
	ledger   LedgerService
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler(balances BalanceService, ledger LedgerService) *EntityHandler {
	return &EntityHandler{balances: balances, ledger: ledger}
}

// Balance returns obligations, credits and the outstanding balance.
func (h *EntityHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entity ID", err.Error())
		return
	}

	b, err := h.balances.Balance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromUseCase(b))
}

// Obligations returns monthly obligations and credits.
func (h *EntityHandler) Obligations(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entity ID", err.Error())
		return
	}

	obligations, err := h.balances.MonthlyObligations(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get obligations", err.Error())
		return
	}

	credits, err := h.balances.MonthlyCredits(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get credits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ObligationsResponse{
		EntityID:    id,
		Obligations: dto.MonthlyFromDomain(obligations),
		Credits:     dto.MonthlyFromDomain(credits),
	})
}

// Ledger lists ledger lines with value totals. ?since=YYYY-MM-DD limits the listing.
func (h *EntityHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entity ID", err.Error())
		return
	}

	lines, err := h.ledger.ListLines(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list ledger", err.Error())
		return
	}

	if since := r.URL.Query().Get("since"); since != "" {
		from, err := parseDay(since)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid since", err.Error())
			return
		}
		filtered := make([]*domain.LedgerLine, 0, len(lines))
		for _, l := range lines {
			if !l.Date.Before(from) {
				filtered = append(filtered, l)
			}
		}
		lines = filtered
	}

	stale, err := h.ledger.IsLedgerStale(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromDomain(id, stale, lines))
}

// Stale reports whether the entity's ledger is due for a refresh.
func (h *EntityHandler) Stale(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid entity ID", err.Error())
		return
	}

	stale, err := h.ledger.IsLedgerStale(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to check ledger", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StaleResponse{EntityID: id, Stale: stale})
}
