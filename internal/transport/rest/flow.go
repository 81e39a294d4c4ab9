package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/flowstate"
)

type flowStore interface {
	Get(ctx context.Context, chatID int64) (*flowstate.State, error)
	Clear(ctx context.Context, chatID int64) error
}

// FlowHandler exposes the conversation flow state for support work: an
// operator can inspect where a stuck actor is and reset them.
type FlowHandler struct {
	flows flowStore
	log   *slog.Logger
}

// NewFlowHandler creates a FlowHandler.
func NewFlowHandler(flows flowStore, logger *slog.Logger) *FlowHandler {
	return &FlowHandler{flows: flows, log: logger.With("handler", "flow")}
}

type flowResponse struct {
	Step    string            `json:"step"`
	Payload map[string]string `json:"payload,omitempty"`
	SetAt   time.Time         `json:"set_at"`
}

// Get handles GET /admin/flows/{chat_id}.
func (h *FlowHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !requireActor(w, r) {
		return
	}
	chatID, ok := pathChatID(w, r)
	if !ok {
		return
	}

	state, err := h.flows.Get(r.Context(), chatID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, flowResponse{
		Step:    state.Step,
		Payload: state.Payload,
		SetAt:   state.SetAt,
	})
}

// Clear handles DELETE /admin/flows/{chat_id}.
func (h *FlowHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if !requireActor(w, r) {
		return
	}
	chatID, ok := pathChatID(w, r)
	if !ok {
		return
	}

	if err := h.flows.Clear(r.Context(), chatID); err != nil {
		handleError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// pathChatID parses the {chat_id} path segment.
func pathChatID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	chatID, err := strconv.ParseInt(r.PathValue("chat_id"), 10, 64)
	if err != nil || chatID == 0 {
		writeError(w, http.StatusBadRequest, "invalid chat id")
		return 0, false
	}
	return chatID, true
}
