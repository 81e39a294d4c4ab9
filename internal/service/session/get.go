package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// GetActiveForUser returns the seeker's live session.
// Returns domain.ErrNotFound when none exists.
func (s *Service) GetActiveForUser(ctx context.Context, userID uuid.UUID) (*domain.Session, error) {
	return s.sessions.GetLiveByUser(ctx, userID)
}

// GetActiveForCounselor returns the counselor's current matched or active
// session.
// Returns domain.ErrNotFound when none exists.
func (s *Service) GetActiveForCounselor(ctx context.Context, counselorID uuid.UUID) (*domain.Session, error) {
	return s.sessions.GetLiveByCounselor(ctx, counselorID)
}

// MatchPending runs one auto-match pass over the queued sessions in
// priority order. Sessions that cannot be matched stay queued; the count of
// successful assignments is returned. Used by the sweeper and triggered
// synchronously when a counselor becomes available.
func (s *Service) MatchPending(ctx context.Context) (int, error) {
	pending, err := s.sessions.ListRequested(ctx, s.cfg.PendingBatch)
	if err != nil {
		return 0, err
	}

	matched := 0
	for _, sess := range pending {
		if ctx.Err() != nil {
			return matched, ctx.Err()
		}
		if _, err := s.AutoMatch(ctx, sess.ID, nil); err != nil {
			continue
		}
		matched++
	}
	return matched, nil
}
