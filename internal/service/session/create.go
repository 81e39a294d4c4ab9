package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/ratelimit"
)

// Create opens a new session request for a seeker. The topic and free-text
// description classify the request's priority; crisis requests jump the
// queue. A banned seeker, one with a live session, or one over the request
// rate limit is rejected.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Session, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if ok, retryAfter := s.limiter.Allow(input.UserID.String(), ratelimit.ActionSessionRequest); !ok {
		return nil, &domain.RateLimitError{Action: ratelimit.ActionSessionRequest, RetryAfter: retryAfter}
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.Banned {
		return nil, fmt.Errorf("user %s: %w", user.ID, domain.ErrBanned)
	}

	var description string
	if input.Description != nil {
		description = *input.Description
	}
	priority := domain.ClassifyPriority(input.Topic, description)

	var created *domain.Session
	err = s.withRetry(ctx, func(ctx context.Context) error {
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			created, err = s.sessions.Create(ctx, &domain.Session{
				ID:          uuid.New(),
				UserID:      input.UserID,
				Topic:       input.Topic,
				Description: input.Description,
				Priority:    priority,
				Status:      domain.SessionStatusRequested,
			})
			if err != nil {
				// The store's one-live-session index is the authority; a
				// concurrent request from the same seeker loses here.
				if errors.Is(err, domain.ErrAlreadyExists) {
					return fmt.Errorf("user %s: %w", input.UserID, domain.ErrSessionExists)
				}
				return fmt.Errorf("create session: %w", err)
			}
			if err := s.stats.Add(ctx, domain.StatTotalSessions, 1); err != nil {
				return fmt.Errorf("bump total sessions: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("session requested",
		slog.String("session_id", created.ID.String()),
		slog.String("user_id", created.UserID.String()),
		slog.String("topic", string(created.Topic)),
		slog.Int("priority", created.Priority),
	)
	return created, nil
}
