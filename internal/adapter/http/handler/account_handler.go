package handler

import (
	"context"
	"net/http"

	"github.com/GoosefleetEO/miningtaxes/internal/adapter/http/dto"
	"github.com/GoosefleetEO/miningtaxes/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	AccountSummary(ctx context.Context, accountID int64) (*usecase.AccountSummary, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accounts AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Summary returns the roll-up of every entity in the account.
func (h *AccountHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID", err.Error())
		return
	}

	summary, err := h.accounts.AccountSummary(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account summary", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountSummaryFromUseCase(summary))
}
