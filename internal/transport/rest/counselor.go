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

// counselorService defines the minimal interface needed by CounselorHandler.
type counselorService interface {
	ListPending(ctx context.Context) ([]*domain.Counselor, error)
	Approve(ctx context.Context, counselorID, moderatorID uuid.UUID) error
	Reject(ctx context.Context, counselorID, moderatorID uuid.UUID) error
	Deactivate(ctx context.Context, counselorID uuid.UUID) error
	Reactivate(ctx context.Context, counselorID uuid.UUID) error
	Ban(ctx context.Context, counselorID uuid.UUID) error
	Delete(ctx context.Context, counselorID uuid.UUID) error
}

// CounselorHandler serves the counselor moderation endpoints.
type CounselorHandler struct {
	svc counselorService
	log *slog.Logger
}

// NewCounselorHandler creates a CounselorHandler.
func NewCounselorHandler(svc counselorService, logger *slog.Logger) *CounselorHandler {
	return &CounselorHandler{svc: svc, log: logger.With("handler", "counselor")}
}

type moderateRequest struct {
	ModeratorID string `json:"moderator_id"`
}

type counselorResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	Bio             *string   `json:"bio,omitempty"`
	Specializations []string  `json:"specializations"`
	Status          string    `json:"status"`
	Available       bool      `json:"available"`
	TotalSessions   int       `json:"total_sessions"`
	AverageRating   float64   `json:"average_rating"`
	CreatedAt       time.Time `json:"created_at"`
}

// ListPending handles GET /admin/counselors/pending.
func (h *CounselorHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if !requireActor(w, r) {
		return
	}

	pending, err := h.svc.ListPending(r.Context())
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	out := make([]counselorResponse, 0, len(pending))
	for _, c := range pending {
		out = append(out, toCounselorResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

// Approve handles POST /admin/counselors/{id}/approve.
func (h *CounselorHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.svc.Approve)
}

// Reject handles POST /admin/counselors/{id}/reject.
func (h *CounselorHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.svc.Reject)
}

func (h *CounselorHandler) moderate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, counselorID, moderatorID uuid.UUID) error) {
	if !requireActor(w, r) {
		return
	}
	counselorID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	var req moderateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	moderatorID, err := uuid.Parse(req.ModeratorID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid moderator_id")
		return
	}

	if err := op(r.Context(), counselorID, moderatorID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Deactivate handles POST /admin/counselors/{id}/deactivate.
func (h *CounselorHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.svc.Deactivate)
}

// Reactivate handles POST /admin/counselors/{id}/reactivate.
func (h *CounselorHandler) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.svc.Reactivate)
}

// Ban handles POST /admin/counselors/{id}/ban.
func (h *CounselorHandler) Ban(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.svc.Ban)
}

func (h *CounselorHandler) setStatus(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, counselorID uuid.UUID) error) {
	if !requireActor(w, r) {
		return
	}
	counselorID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if err := op(r.Context(), counselorID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete handles DELETE /admin/counselors/{id}. Refused while the
// counselor holds live sessions.
func (h *CounselorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !requireActor(w, r) {
		return
	}
	counselorID, ok := pathUUID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), counselorID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func toCounselorResponse(c *domain.Counselor) counselorResponse {
	specs := make([]string, 0, len(c.Specializations))
	for _, s := range c.Specializations {
		specs = append(specs, string(s))
	}
	return counselorResponse{
		ID:              c.ID.String(),
		UserID:          c.UserID.String(),
		DisplayName:     c.DisplayName,
		Bio:             c.Bio,
		Specializations: specs,
		Status:          string(c.Status),
		Available:       c.Available,
		TotalSessions:   c.TotalSessions,
		AverageRating:   c.AverageRating(),
		CreatedAt:       c.CreatedAt,
	}
}
