// Package counselor implements volunteer registration, moderation review,
// availability, and profile management.
package counselor

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/config"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/notify"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type counselorRepo interface {
	GetByID(ctx context.Context, counselorID uuid.UUID) (*domain.Counselor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Counselor, error)
	ListByStatus(ctx context.Context, status domain.CounselorStatus) ([]*domain.Counselor, error)
	Create(ctx context.Context, c *domain.Counselor) (*domain.Counselor, error)
	SetStatus(ctx context.Context, counselorID uuid.UUID, status domain.CounselorStatus, approvedBy *uuid.UUID, at time.Time) error
	SetAvailability(ctx context.Context, counselorID uuid.UUID, available bool) error
	UpdateProfile(ctx context.Context, counselorID uuid.UUID, params domain.CounselorUpdateParams) error
	Delete(ctx context.Context, counselorID uuid.UUID) error
}

type sessionRepo interface {
	CountOccupiedByCounselor(ctx context.Context, counselorID uuid.UUID) (int, error)
}

type userRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error
}

type statsRepo interface {
	Add(ctx context.Context, name string, delta int) error
}

// matchTrigger lets an availability flip immediately drain the queue
// instead of waiting for the next sweeper tick.
type matchTrigger interface {
	MatchPending(ctx context.Context) (int, error)
}

// rateLimiter throttles repeat applications from the same user.
type rateLimiter interface {
	Allow(actorID, action string) (allowed bool, retryAfter time.Duration)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the counselor management logic.
type Service struct {
	log        *slog.Logger
	counselors counselorRepo
	sessions   sessionRepo
	users      userRepo
	stats      statsRepo
	match      matchTrigger
	notifier   notify.Notifier
	limiter    rateLimiter
	cfg        config.MatchingConfig
	now        func() time.Time
}

// NewService creates a new Counselor service.
func NewService(
	logger *slog.Logger,
	counselors counselorRepo,
	sessions sessionRepo,
	users userRepo,
	stats statsRepo,
	match matchTrigger,
	notifier notify.Notifier,
	limiter rateLimiter,
	cfg config.MatchingConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "counselor"),
		counselors: counselors,
		sessions:   sessions,
		users:      users,
		stats:      stats,
		match:      match,
		notifier:   notifier,
		limiter:    limiter,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *Service) bumpStat(ctx context.Context, name string, delta int) {
	if err := s.stats.Add(ctx, name, delta); err != nil {
		s.log.Warn("stat update failed", slog.String("stat", name), slog.Any("error", err))
	}
}

func (s *Service) notifyCounselor(ctx context.Context, c *domain.Counselor, kind string, payload map[string]any) {
	u, err := s.users.GetByID(ctx, c.UserID)
	if err != nil {
		s.log.Warn("notify: resolve user", slog.String("user_id", c.UserID.String()), slog.Any("error", err))
		return
	}
	s.notifier.Notify(ctx, u.ChatID, kind, payload)
}
