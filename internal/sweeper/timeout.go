package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	sessionrepo "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres/session"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

type occupiedLister interface {
	ListOccupied(ctx context.Context) ([]sessionrepo.OccupiedSession, error)
}

type sessionEnder interface {
	End(ctx context.Context, sessionID uuid.UUID, reason domain.EndReason) error
}

// TimeoutSweeper ends occupied sessions whose last activity is older than
// the threshold. Last activity is the newest message, else the start time,
// else the match time; a session with none of those is logged as an
// integrity warning and skipped rather than guessed at.
type TimeoutSweeper struct {
	sessions  occupiedLister
	ender     sessionEnder
	threshold time.Duration
	log       *slog.Logger
	now       func() time.Time
}

// NewTimeoutSweeper creates a timeout sweeper.
func NewTimeoutSweeper(sessions occupiedLister, ender sessionEnder, threshold time.Duration, log *slog.Logger) *TimeoutSweeper {
	return &TimeoutSweeper{
		sessions:  sessions,
		ender:     ender,
		threshold: threshold,
		log:       log.With("sweeper", "timeout"),
		now:       time.Now,
	}
}

// Sweep runs one pass. Individual session failures do not abort the pass.
func (s *TimeoutSweeper) Sweep(ctx context.Context) error {
	occupied, err := s.sessions.ListOccupied(ctx)
	if err != nil {
		return err
	}

	cutoff := s.now().Add(-s.threshold)
	ended := 0
	for _, o := range occupied {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		last, ok := o.Session.LastActivity(o.LastMessageAt)
		if !ok {
			s.log.Warn("occupied session without any activity timestamp",
				slog.String("session_id", o.Session.ID.String()),
				slog.String("status", string(o.Session.Status)),
			)
			continue
		}
		if last.After(cutoff) {
			continue
		}

		if err := s.ender.End(ctx, o.Session.ID, domain.EndReasonTimeout); err != nil {
			// A session ended between listing and here is fine.
			if errors.Is(err, domain.ErrAlreadyEnded) {
				continue
			}
			s.log.Error("end timed-out session",
				slog.String("session_id", o.Session.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		ended++
	}

	if ended > 0 {
		s.log.Info("timed out sessions", slog.Int("count", ended))
	}
	return nil
}
