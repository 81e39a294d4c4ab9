package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// sessionService defines the minimal interface needed by SessionHandler.
type sessionService interface {
	Match(ctx context.Context, sessionID, counselorID uuid.UUID) (*domain.Session, error)
	AutoMatch(ctx context.Context, sessionID uuid.UUID, exclude *uuid.UUID) (*domain.Session, error)
	End(ctx context.Context, sessionID uuid.UUID, reason domain.EndReason) error
	Transfer(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	MatchPending(ctx context.Context) (int, error)
	Transcript(ctx context.Context, sessionID uuid.UUID) ([]*domain.Message, error)
}

// SessionHandler serves the admin session override endpoints.
type SessionHandler struct {
	svc sessionService
	log *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(svc sessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, log: logger.With("handler", "session")}
}

type forceMatchRequest struct {
	CounselorID *string `json:"counselor_id"`
}

type forceEndRequest struct {
	Reason string `json:"reason"`
}

type sessionResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	CounselorID *string    `json:"counselor_id,omitempty"`
	Topic       string     `json:"topic"`
	Priority    int        `json:"priority"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	MatchedAt   *time.Time `json:"matched_at,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
}

// ForceMatch handles POST /admin/sessions/{id}/match. With a counselor_id
// in the body the session goes to that counselor, capacity and availability
// still enforced; without one the scorer picks.
func (h *SessionHandler) ForceMatch(w http.ResponseWriter, r *http.Request) {
	if !requireActor(w, r) {
		return
	}
	sessionID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req forceMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		sess *domain.Session
		err  error
	)
	if req.CounselorID != nil {
		counselorID, parseErr := uuid.Parse(*req.CounselorID)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid counselor_id")
			return
		}
		sess, err = h.svc.Match(r.Context(), sessionID, counselorID)
	} else {
		sess, err = h.svc.AutoMatch(r.Context(), sessionID, nil)
	}
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

// ForceEnd handles POST /admin/sessions/{id}/end.
func (h *SessionHandler) ForceEnd(w http.ResponseWriter, r *http.Request) {
	if !requireActor(w, r) {
		return
	}
	sessionID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req forceEndRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reason := domain.EndReason(req.Reason)
	if req.Reason == "" {
		reason = domain.EndReasonCompleted
	}

	if err := h.svc.End(r.Context(), sessionID, reason); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

// Transfer handles POST /admin/sessions/{id}/transfer: pulls an occupied
// session away from its counselor and re-queues it for matching.
func (h *SessionHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	if !requireActor(w, r) {
		return
	}
	sessionID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	sess, err := h.svc.Transfer(r.Context(), sessionID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(sess))
}

// MatchPending handles POST /admin/sessions/match-pending: one on-demand
// queue drain, same pass the sweeper runs.
func (h *SessionHandler) MatchPending(w http.ResponseWriter, r *http.Request) {
	if !requireActor(w, r) {
		return
	}

	matched, err := h.svc.MatchPending(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"matched": matched})
}

type messageResponse struct {
	ID         string    `json:"id"`
	SenderRole string    `json:"sender_role"`
	SenderID   string    `json:"sender_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

// Messages handles GET /admin/sessions/{id}/messages: the full transcript
// for moderation review.
func (h *SessionHandler) Messages(w http.ResponseWriter, r *http.Request) {
	if !requireActor(w, r) {
		return
	}
	sessionID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	msgs, err := h.svc.Transcript(r.Context(), sessionID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResponse{
			ID:         m.ID.String(),
			SenderRole: string(m.SenderRole),
			SenderID:   m.SenderID.String(),
			Text:       m.Text,
			CreatedAt:  m.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID.String(),
		UserID:    s.UserID.String(),
		Topic:     string(s.Topic),
		Priority:  s.Priority,
		Status:    string(s.Status),
		CreatedAt: s.CreatedAt,
		MatchedAt: s.MatchedAt,
		StartedAt: s.StartedAt,
	}
	if s.CounselorID != nil {
		id := s.CounselorID.String()
		resp.CounselorID = &id
	}
	return resp
}
