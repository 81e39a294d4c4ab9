// Package rest is the admin and health HTTP surface. The chat transport
// lives outside this process; everything here is operations-facing and
// calls the services, never the store directly.
package rest

import (
	"log/slog"
	"net/http"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/transport/middleware"
)

// Handlers bundles the REST handlers for router construction.
type Handlers struct {
	Health    *HealthHandler
	Session   *SessionHandler
	Counselor *CounselorHandler
	Stats     *StatsHandler
	Flow      *FlowHandler
}

// NewRouter builds the HTTP handler with the full middleware stack.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /health/live", h.Health.Live)
	mux.HandleFunc("GET /health/ready", h.Health.Ready)

	mux.HandleFunc("POST /admin/sessions/{id}/match", h.Session.ForceMatch)
	mux.HandleFunc("POST /admin/sessions/{id}/end", h.Session.ForceEnd)
	mux.HandleFunc("POST /admin/sessions/{id}/transfer", h.Session.Transfer)
	mux.HandleFunc("POST /admin/sessions/match-pending", h.Session.MatchPending)
	mux.HandleFunc("GET /admin/sessions/{id}/messages", h.Session.Messages)

	mux.HandleFunc("GET /admin/counselors/pending", h.Counselor.ListPending)
	mux.HandleFunc("POST /admin/counselors/{id}/approve", h.Counselor.Approve)
	mux.HandleFunc("POST /admin/counselors/{id}/reject", h.Counselor.Reject)
	mux.HandleFunc("POST /admin/counselors/{id}/deactivate", h.Counselor.Deactivate)
	mux.HandleFunc("POST /admin/counselors/{id}/reactivate", h.Counselor.Reactivate)
	mux.HandleFunc("POST /admin/counselors/{id}/ban", h.Counselor.Ban)
	mux.HandleFunc("DELETE /admin/counselors/{id}", h.Counselor.Delete)

	mux.HandleFunc("GET /admin/stats", h.Stats.Get)

	mux.HandleFunc("GET /admin/flows/{chat_id}", h.Flow.Get)
	mux.HandleFunc("DELETE /admin/flows/{chat_id}", h.Flow.Clear)

	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.ActorChatID(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
	)
	return chain(mux)
}
