package sweeper

import (
	"context"
	"log/slog"
)

type pendingMatcher interface {
	MatchPending(ctx context.Context) (int, error)
}

// AutoMatchSweeper drains the request queue on a timer, catching sessions
// created while no counselor was free.
type AutoMatchSweeper struct {
	matcher pendingMatcher
	log     *slog.Logger
}

// NewAutoMatchSweeper creates an auto-match sweeper.
func NewAutoMatchSweeper(matcher pendingMatcher, log *slog.Logger) *AutoMatchSweeper {
	return &AutoMatchSweeper{
		matcher: matcher,
		log:     log.With("sweeper", "automatch"),
	}
}

// Sweep runs one matching pass.
func (s *AutoMatchSweeper) Sweep(ctx context.Context) error {
	matched, err := s.matcher.MatchPending(ctx)
	if err != nil {
		return err
	}
	if matched > 0 {
		s.log.Info("matched pending sessions", slog.Int("count", matched))
	}
	return nil
}
