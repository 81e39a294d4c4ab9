package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/pkg/ctxutil"
)

// RequestIDHeader is the header carrying the request correlation ID.
const RequestIDHeader = "X-Request-Id"

// ActorChatIDHeader identifies the admin performing the request by their
// Telegram chat ID.
const ActorChatIDHeader = "X-Actor-Chat-Id"

// RequestID returns middleware that reuses an incoming request ID or
// assigns a fresh one, stores it in the context, and echoes it back in the
// response header.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}
			ctx := ctxutil.WithRequestID(r.Context(), id)
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
