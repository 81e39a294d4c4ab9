// Package ctxutil carries per-request identity through context: the
// request ID assigned by the transport layer and the Telegram chat ID of
// the acting admin.
package ctxutil

import "context"

type ctxKey string

const (
	requestIDKey   ctxKey = "request_id"
	actorChatIDKey ctxKey = "actor_chat_id"
)

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithActorChatID stores the acting admin's Telegram chat ID in the context.
func WithActorChatID(ctx context.Context, chatID int64) context.Context {
	return context.WithValue(ctx, actorChatIDKey, chatID)
}

// ActorChatIDFromCtx extracts the actor chat ID from the context.
// Returns 0 and false if the value is missing, zero, or the wrong type.
func ActorChatIDFromCtx(ctx context.Context) (int64, bool) {
	chatID, ok := ctx.Value(actorChatIDKey).(int64)
	if !ok || chatID == 0 {
		return 0, false
	}
	return chatID, true
}
