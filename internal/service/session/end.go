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

// End terminates a session with the given reason and settles the counters
// in the same transaction as the transition: a session that reached active
// decrements the active gauge, increments the completed total, and bumps
// both parties' lifetime counts. Ending an already-ended session returns
// domain.ErrAlreadyEnded without touching anything.
func (s *Service) End(ctx context.Context, sessionID uuid.UUID, reason domain.EndReason) error {
	if !reason.IsValid() {
		return domain.NewValidationError("reason", "unknown end reason")
	}

	var res *domain.SessionEnd
	err := s.withRetry(ctx, func(ctx context.Context) error {
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			res, err = s.sessions.End(ctx, sessionID, reason)
			if err != nil {
				return err
			}
			if !res.WasStarted {
				return nil
			}

			if err := s.stats.Add(ctx, domain.StatActiveSessions, -1); err != nil {
				return err
			}
			if err := s.stats.Add(ctx, domain.StatCompletedSessions, 1); err != nil {
				return err
			}
			if err := s.users.IncrementSessions(ctx, res.UserID); err != nil {
				return fmt.Errorf("bump user sessions: %w", err)
			}
			if res.CounselorID != nil {
				if err := s.counselors.IncrementSessions(ctx, *res.CounselorID); err != nil {
					return fmt.Errorf("bump counselor sessions: %w", err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}

	s.log.Info("session ended",
		slog.String("session_id", sessionID.String()),
		slog.String("reason", string(reason)),
		slog.Bool("was_started", res.WasStarted),
	)

	kind := notify.KindSessionEnded
	if reason == domain.EndReasonTimeout {
		kind = notify.KindSessionTimeout
	}
	payload := map[string]any{
		"session_id": sessionID.String(),
		"reason":     string(reason),
	}
	s.notifyUser(ctx, res.UserID, kind, payload)
	if res.CounselorID != nil {
		s.notifyCounselor(ctx, *res.CounselorID, kind, payload)
	}

	return nil
}

// Cancel withdraws the seeker's own queued request. Only the owner may
// cancel, and only while the session is still waiting for a match; once a
// counselor is attached the seeker ends the session instead.
func (s *Service) Cancel(ctx context.Context, sessionID, userID uuid.UUID) error {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.UserID != userID {
		return fmt.Errorf("session %s not owned by user %s: %w", sessionID, userID, domain.ErrConflict)
	}
	if sess.Status != domain.SessionStatusRequested {
		return fmt.Errorf("session %s is %s: %w", sessionID, sess.Status, domain.ErrConflict)
	}

	if err := s.End(ctx, sessionID, domain.EndReasonUserCancelled); err != nil {
		if errors.Is(err, domain.ErrAlreadyEnded) {
			return nil
		}
		return err
	}
	return nil
}
