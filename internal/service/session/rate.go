package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// Rate records the seeker's post-session star rating and feedback, folding
// the stars into the counselor's running aggregate. Only the seeker who
// held the session may rate it, once it has ended.
func (s *Service) Rate(ctx context.Context, input RateInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	sess, err := s.sessions.GetByID(ctx, input.SessionID)
	if err != nil {
		return err
	}
	if sess.UserID != input.UserID {
		return fmt.Errorf("session %s not owned by user %s: %w", input.SessionID, input.UserID, domain.ErrConflict)
	}
	if !sess.IsTerminal() {
		return fmt.Errorf("session %s is %s: %w", input.SessionID, sess.Status, domain.ErrConflict)
	}

	if err := s.sessions.Rate(ctx, input.SessionID, input.Stars, input.Feedback); err != nil {
		return fmt.Errorf("store rating: %w", err)
	}

	if sess.CounselorID != nil {
		if err := s.counselors.AddRating(ctx, *sess.CounselorID, input.Stars); err != nil {
			s.log.Warn("fold rating into counselor aggregate",
				slog.String("counselor_id", sess.CounselorID.String()),
				slog.Any("error", err),
			)
		}
	}

	s.log.Info("session rated",
		slog.String("session_id", input.SessionID.String()),
		slog.Int("stars", input.Stars),
	)
	return nil
}
