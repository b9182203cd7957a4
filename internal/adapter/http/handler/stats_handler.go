package handler

import (
	"context"
	"net/http"

	"github.com/GoosefleetEO/miningtaxes/internal/domain"
)

// StatsService defines the behavior needed by StatsHandler.
type StatsService interface {
	Latest(ctx context.Context) (*domain.StatsSnapshot, error)
}

// StatsHandler serves the latest precomputed stats snapshot.
type StatsHandler struct {
	stats StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Latest returns the most recent snapshot.
func (h *StatsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.stats.Latest(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "stats unavailable", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
