package counselor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/ratelimit"
)

// Register files a counselor application, throttled per applicant. The new
// counselor starts pending and unavailable; a moderator decides from there.
// One application per user.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.Counselor, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if ok, retryAfter := s.limiter.Allow(input.UserID.String(), ratelimit.ActionCounselorRegister); !ok {
		return nil, &domain.RateLimitError{Action: ratelimit.ActionCounselorRegister, RetryAfter: retryAfter}
	}

	user, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.Banned {
		return nil, fmt.Errorf("user %s: %w", user.ID, domain.ErrBanned)
	}

	gender := input.Gender
	if gender == "" {
		gender = domain.GenderAnonymous
	}

	created, err := s.counselors.Create(ctx, &domain.Counselor{
		ID:              uuid.New(),
		UserID:          input.UserID,
		DisplayName:     input.DisplayName,
		Bio:             input.Bio,
		Gender:          gender,
		Specializations: input.Specializations,
		Status:          domain.CounselorStatusPending,
	})
	if err != nil {
		return nil, fmt.Errorf("create counselor: %w", err)
	}

	s.log.Info("counselor application filed",
		slog.String("counselor_id", created.ID.String()),
		slog.String("user_id", created.UserID.String()),
		slog.Int("specializations", len(created.Specializations)),
	)
	return created, nil
}

// ListPending returns applications awaiting review, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]*domain.Counselor, error) {
	return s.counselors.ListByStatus(ctx, domain.CounselorStatusPending)
}

// GetByUserID returns the counselor identity owned by the user.
func (s *Service) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Counselor, error) {
	return s.counselors.GetByUserID(ctx, userID)
}
