package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

type statsProvider interface {
	Get(ctx context.Context) (*domain.Stats, error)
}

// StatsHandler serves the aggregate counters.
type StatsHandler struct {
	stats statsProvider
	log   *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stats statsProvider, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, log: logger.With("handler", "stats")}
}

type statsResponse struct {
	TotalSessions     int `json:"total_sessions"`
	ActiveSessions    int `json:"active_sessions"`
	CompletedSessions int `json:"completed_sessions"`
	TotalCounselors   int `json:"total_counselors"`
	ActiveCounselors  int `json:"active_counselors"`
}

// Get handles GET /admin/stats.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !requireActor(w, r) {
		return
	}

	stats, err := h.stats.Get(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalSessions:     stats.TotalSessions,
		ActiveSessions:    stats.ActiveSessions,
		CompletedSessions: stats.CompletedSessions,
		TotalCounselors:   stats.TotalCounselors,
		ActiveCounselors:  stats.ActiveCounselors,
	})
}
