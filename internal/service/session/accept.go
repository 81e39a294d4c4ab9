package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/notify"
)

// Accept moves a matched session to active on the counselor's confirmation.
// Only the assigned counselor may accept.
func (s *Service) Accept(ctx context.Context, sessionID, counselorID uuid.UUID) (*domain.Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.CounselorID == nil || *sess.CounselorID != counselorID {
		return nil, fmt.Errorf("session %s not assigned to counselor %s: %w", sessionID, counselorID, domain.ErrConflict)
	}

	var started *domain.Session
	err = s.withRetry(ctx, func(ctx context.Context) error {
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			started, err = s.sessions.Start(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("start session: %w", err)
			}
			return s.stats.Add(ctx, domain.StatActiveSessions, 1)
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("session started",
		slog.String("session_id", sessionID.String()),
		slog.String("counselor_id", counselorID.String()),
	)

	payload := map[string]any{"session_id": sessionID.String()}
	s.notifyUser(ctx, started.UserID, notify.KindSessionStarted, payload)
	s.notifyCounselor(ctx, counselorID, notify.KindSessionStarted, payload)

	return started, nil
}
