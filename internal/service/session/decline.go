package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// Decline returns a matched session to the queue when the assigned
// counselor turns it down, then immediately tries to re-match it with the
// decliner excluded. The re-match is best effort: failure leaves the
// session requested for the auto-match sweeper.
func (s *Service) Decline(ctx context.Context, sessionID, counselorID uuid.UUID) error {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.Status != domain.SessionStatusMatched {
		return fmt.Errorf("session %s is %s: %w", sessionID, sess.Status, domain.ErrConflict)
	}
	if sess.CounselorID == nil || *sess.CounselorID != counselorID {
		return fmt.Errorf("session %s not assigned to counselor %s: %w", sessionID, counselorID, domain.ErrConflict)
	}

	if _, err := s.sessions.Release(ctx, sessionID); err != nil {
		return fmt.Errorf("release session: %w", err)
	}

	s.log.Info("session declined",
		slog.String("session_id", sessionID.String()),
		slog.String("counselor_id", counselorID.String()),
	)

	// The exclusion only covers this immediate attempt; later sweeper
	// passes may route back to the decliner if nobody else frees up.
	if _, err := s.AutoMatch(ctx, sessionID, &counselorID); err != nil {
		s.log.Warn("re-match after decline failed",
			slog.String("session_id", sessionID.String()),
			slog.Any("error", err),
		)
	}
	return nil
}

// Transfer releases an active session from its current counselor and
// re-matches it, excluding them. Used when a counselor cannot continue an
// engagement.
func (s *Service) Transfer(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Status.Occupied() {
		return nil, fmt.Errorf("session %s is %s: %w", sessionID, sess.Status, domain.ErrConflict)
	}
	prev := sess.CounselorID

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.sessions.Release(ctx, sessionID); err != nil {
			return fmt.Errorf("release session: %w", err)
		}
		if sess.Status == domain.SessionStatusActive {
			return s.stats.Add(ctx, domain.StatActiveSessions, -1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("session transferred",
		slog.String("session_id", sessionID.String()),
		slog.String("from_counselor_id", prev.String()),
	)

	rematched, err := s.AutoMatch(ctx, sessionID, prev)
	if err != nil {
		// Stays queued; the seeker keeps their place in line.
		s.log.Warn("re-match after transfer failed",
			slog.String("session_id", sessionID.String()),
			slog.Any("error", err),
		)
		return nil, err
	}
	return rematched, nil
}
