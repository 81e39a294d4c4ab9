// Package notify defines the outbound notification contract. Delivery is
// fire-and-forget; implementations log failures and never propagate them
// into state transitions.
package notify

import (
	"context"
	"log/slog"
)

// Notification kinds.
const (
	KindSessionMatched    = "session_matched"
	KindSessionStarted    = "session_started"
	KindSessionEnded      = "session_ended"
	KindSessionTimeout    = "session_timeout"
	KindCounselorApproved = "counselor_approved"
	KindCounselorRejected = "counselor_rejected"
	KindOpsAlert          = "ops_alert"
)

// Notifier delivers a notification to the recipient's chat. Implementations
// must not block state transitions on delivery.
type Notifier interface {
	Notify(ctx context.Context, recipientChatID int64, kind string, payload map[string]any)
}

// LogNotifier writes notifications to the structured log. Used as the
// fallback when no broker is configured, and in tests.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the notification.
func (n *LogNotifier) Notify(_ context.Context, recipientChatID int64, kind string, payload map[string]any) {
	n.log.Info("notification",
		slog.Int64("recipient_chat_id", recipientChatID),
		slog.String("kind", kind),
		slog.Any("payload", payload),
	)
}
