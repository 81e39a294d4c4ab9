package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/notify"
)

// Match assigns a requested session to a specific counselor. The capacity
// check and the assignment run in one transaction holding the counselor's
// row lock, so two concurrent matches against the same counselor serialize
// and the loser re-checks a count that includes the winner.
func (s *Service) Match(ctx context.Context, sessionID, counselorID uuid.UUID) (*domain.Session, error) {
	var matched *domain.Session

	err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			if err := s.counselors.LockForUpdate(ctx, counselorID); err != nil {
				return fmt.Errorf("lock counselor: %w", err)
			}

			counselor, err := s.counselors.GetByID(ctx, counselorID)
			if err != nil {
				return fmt.Errorf("load counselor: %w", err)
			}
			if !counselor.Matchable() {
				return fmt.Errorf("counselor %s not matchable: %w", counselorID, domain.ErrCounselorBusy)
			}

			occupied, err := s.sessions.CountOccupiedByCounselor(ctx, counselorID)
			if err != nil {
				return err
			}
			if occupied >= s.cfg.CounselorCap {
				return fmt.Errorf("counselor %s at capacity %d: %w", counselorID, occupied, domain.ErrCounselorBusy)
			}

			matched, err = s.sessions.Assign(ctx, sessionID, counselorID)
			if err != nil {
				// Conditional update missed: the session was taken,
				// cancelled, or never existed.
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("session %s no longer requested: %w", sessionID, domain.ErrConflict)
				}
				return err
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("session matched",
		slog.String("session_id", matched.ID.String()),
		slog.String("counselor_id", counselorID.String()),
	)

	payload := map[string]any{
		"session_id": matched.ID.String(),
		"topic":      string(matched.Topic),
		"priority":   matched.Priority,
	}
	s.notifyCounselor(ctx, counselorID, notify.KindSessionMatched, payload)
	s.notifyUser(ctx, matched.UserID, notify.KindSessionMatched, payload)

	return matched, nil
}

// AutoMatch finds the best available counselor for a requested session and
// assigns it, skipping the excluded counselor if any.
// Returns domain.ErrNotFound when no counselor is available and
// domain.ErrCounselorBusy when the chosen one filled up concurrently; both
// leave the session requested for a later pass.
func (s *Service) AutoMatch(ctx context.Context, sessionID uuid.UUID, exclude *uuid.UUID) (*domain.Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != domain.SessionStatusRequested {
		return nil, fmt.Errorf("session %s is %s: %w", sessionID, sess.Status, domain.ErrConflict)
	}

	best, err := s.matcher.FindBestMatch(ctx, sess, exclude)
	if err != nil {
		return nil, err
	}

	return s.Match(ctx, sessionID, best.ID)
}
