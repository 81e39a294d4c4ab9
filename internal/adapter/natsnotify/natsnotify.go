// Package natsnotify publishes notifications to NATS for the chat
// transport to deliver.
package natsnotify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/config"
)

// Publisher delivers notifications as JSON messages on
// <prefix>.<kind> subjects.
type Publisher struct {
	conn   *nats.Conn
	prefix string
	log    *slog.Logger
}

// envelope is the wire format consumed by the chat transport worker.
type envelope struct {
	RecipientChatID int64          `json:"recipient_chat_id"`
	Kind            string         `json:"kind"`
	Payload         map[string]any `json:"payload,omitempty"`
	SentAt          time.Time      `json:"sent_at"`
}

// New connects to NATS and returns a publisher. The caller owns Close.
func New(cfg config.NATSConfig, log *slog.Logger) (*Publisher, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name("counseling-bot"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{
		conn:   conn,
		prefix: cfg.SubjectPrefix,
		log:    log,
	}, nil
}

// Notify publishes the notification. Failures are logged and swallowed so
// a broker outage never blocks a session transition.
func (p *Publisher) Notify(_ context.Context, recipientChatID int64, kind string, payload map[string]any) {
	body, err := json.Marshal(envelope{
		RecipientChatID: recipientChatID,
		Kind:            kind,
		Payload:         payload,
		SentAt:          time.Now().UTC(),
	})
	if err != nil {
		p.log.Error("marshal notification", slog.String("kind", kind), slog.Any("error", err))
		return
	}

	subject := p.prefix + "." + kind
	if err := p.conn.Publish(subject, body); err != nil {
		p.log.Error("publish notification",
			slog.String("subject", subject),
			slog.Int64("recipient_chat_id", recipientChatID),
			slog.Any("error", err),
		)
	}
}

// Close drains the connection.
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.log.Warn("drain nats connection", slog.Any("error", err))
	}
}
