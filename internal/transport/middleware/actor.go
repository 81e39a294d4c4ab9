package middleware

import (
	"net/http"
	"strconv"

	"github.com/ApexAppLabs/hu-counseling-bot/pkg/ctxutil"
)

// ActorChatID returns middleware that reads the acting admin's Telegram
// chat ID from the request header into the context. A missing or malformed
// header leaves the context untouched; handlers that require an actor
// reject the request themselves.
func ActorChatID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(ActorChatIDHeader)
			if raw != "" {
				if chatID, err := strconv.ParseInt(raw, 10, 64); err == nil && chatID != 0 {
					r = r.WithContext(ctxutil.WithActorChatID(r.Context(), chatID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
