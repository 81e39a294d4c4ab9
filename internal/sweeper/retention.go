package sweeper

import (
	"context"
	"log/slog"
	"time"
)

type endedDeleter interface {
	DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// RetentionSweeper purges terminal sessions past the retention window,
// along with their transcript metadata.
type RetentionSweeper struct {
	sessions endedDeleter
	age      time.Duration
	log      *slog.Logger
	now      func() time.Time
}

// NewRetentionSweeper creates a retention sweeper.
func NewRetentionSweeper(sessions endedDeleter, age time.Duration, log *slog.Logger) *RetentionSweeper {
	return &RetentionSweeper{
		sessions: sessions,
		age:      age,
		log:      log.With("sweeper", "retention"),
		now:      time.Now,
	}
}

// Sweep deletes sessions that ended before the retention cutoff.
func (s *RetentionSweeper) Sweep(ctx context.Context) error {
	cutoff := s.now().Add(-s.age)

	purged, err := s.sessions.DeleteEndedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if purged > 0 {
		s.log.Info("purged expired sessions",
			slog.Int("count", purged),
			slog.Time("cutoff", cutoff),
		)
	}
	return nil
}
