package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/ratelimit"
)

// RecordMessage appends a relayed chat message to an active session. The
// sender must be the session's seeker or its assigned counselor, and must
// be under the per-sender message rate limit; the chat transport calls this
// for every delivered message so the timeout sweeper sees real activity.
func (s *Service) RecordMessage(ctx context.Context, input RecordMessageInput) (*domain.Message, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if ok, retryAfter := s.limiter.Allow(input.SenderID.String(), ratelimit.ActionMessage); !ok {
		return nil, &domain.RateLimitError{Action: ratelimit.ActionMessage, RetryAfter: retryAfter}
	}

	sess, err := s.sessions.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != domain.SessionStatusActive {
		return nil, fmt.Errorf("session %s is not active: %w", sess.ID, domain.ErrConflict)
	}
	if !isParty(sess, input.SenderRole, input.SenderID) {
		return nil, fmt.Errorf("sender %s is not a session party: %w", input.SenderID, domain.ErrConflict)
	}

	var msg *domain.Message
	err = s.withRetry(ctx, func(ctx context.Context) error {
		var err error
		msg, err = s.messages.Append(ctx, &domain.Message{
			ID:         uuid.New(),
			SessionID:  input.SessionID,
			SenderRole: input.SenderRole,
			SenderID:   input.SenderID,
			Text:       input.Text,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// Transcript returns the session's messages in chronological order.
func (s *Service) Transcript(ctx context.Context, sessionID uuid.UUID) ([]*domain.Message, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.messages.ListBySession(ctx, sessionID)
}

func isParty(sess *domain.Session, role domain.SenderRole, senderID uuid.UUID) bool {
	switch role {
	case domain.SenderRoleUser:
		return senderID == sess.UserID
	case domain.SenderRoleCounselor:
		return sess.CounselorID != nil && senderID == *sess.CounselorID
	}
	return false
}
