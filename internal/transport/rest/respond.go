package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
	"github.com/ApexAppLabs/hu-counseling-bot/pkg/ctxutil"
)

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// handleError maps domain sentinels to HTTP statuses. Anything unmapped is
// a 500 and gets logged; mapped errors are the caller's problem, not ours.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrBanned):
		writeError(w, http.StatusForbidden, "actor is banned")
	case errors.Is(err, domain.ErrSessionExists):
		writeError(w, http.StatusConflict, "seeker already has a live session")
	case errors.Is(err, domain.ErrCounselorBusy):
		writeError(w, http.StatusConflict, "counselor at capacity")
	case errors.Is(err, domain.ErrAlreadyEnded):
		writeError(w, http.StatusConflict, "session already ended")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// requireActor rejects admin requests that carry no actor identity.
func requireActor(w http.ResponseWriter, r *http.Request) bool {
	if _, ok := ctxutil.ActorChatIDFromCtx(r.Context()); !ok {
		writeError(w, http.StatusForbidden, "actor identification required")
		return false
	}
	return true
}

// pathUUID parses the {id} path segment.
func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
