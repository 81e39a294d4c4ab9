// Package sweeper runs the periodic maintenance passes: timing out silent
// sessions, matching the queue, and purging old records. One Loop per
// concern, all sharing the failure-escalation behavior.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/notify"
)

// alertThreshold is how many consecutive failed passes escalate to an ops
// alert.
const alertThreshold = 5

// Loop runs a sweep function on a fixed interval until the context is
// cancelled. Individual pass failures are logged; sustained failure raises
// one ops alert and resets the counter.
type Loop struct {
	name     string
	interval time.Duration
	sweep    func(ctx context.Context) error

	log         *slog.Logger
	notifier    notify.Notifier
	adminChatID int64
}

// NewLoop creates a sweep loop.
func NewLoop(name string, interval time.Duration, sweep func(ctx context.Context) error, log *slog.Logger, notifier notify.Notifier, adminChatID int64) *Loop {
	return &Loop{
		name:        name,
		interval:    interval,
		sweep:       sweep,
		log:         log.With("sweeper", name),
		notifier:    notifier,
		adminChatID: adminChatID,
	}
}

// Run blocks until ctx is cancelled, sweeping every interval. The first
// pass waits one full interval so startup is not a thundering herd of
// sweeps.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			l.log.Info("sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := l.sweep(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				failures++
				l.log.Error("sweep failed", slog.Int("consecutive", failures), slog.Any("error", err))
				if failures >= alertThreshold {
					l.notifier.Notify(ctx, l.adminChatID, notify.KindOpsAlert, map[string]any{
						"sweeper":  l.name,
						"failures": failures,
						"error":    err.Error(),
					})
					failures = 0
				}
				continue
			}
			failures = 0
		}
	}
}
