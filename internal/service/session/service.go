// Package session implements the counseling session lifecycle: creation,
// capacity-checked matching, accept/decline, transfer, termination, and
// rating. All state transitions go through the store conditionally; the
// service never trusts an in-memory snapshot across a write.
package session

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

type sessionRepo interface {
	GetByID(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	GetLiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Session, error)
	GetLiveByCounselor(ctx context.Context, counselorID uuid.UUID) (*domain.Session, error)
	CountOccupiedByCounselor(ctx context.Context, counselorID uuid.UUID) (int, error)
	ListRequested(ctx context.Context, limit int) ([]*domain.Session, error)
	Create(ctx context.Context, s *domain.Session) (*domain.Session, error)
	Assign(ctx context.Context, sessionID, counselorID uuid.UUID) (*domain.Session, error)
	Release(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	Start(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	End(ctx context.Context, sessionID uuid.UUID, reason domain.EndReason) (*domain.SessionEnd, error)
	Rate(ctx context.Context, sessionID uuid.UUID, stars int, feedback *string) error
}

type messageRepo interface {
	Append(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Message, error)
}

type counselorRepo interface {
	GetByID(ctx context.Context, counselorID uuid.UUID) (*domain.Counselor, error)
	LockForUpdate(ctx context.Context, counselorID uuid.UUID) error
	IncrementSessions(ctx context.Context, counselorID uuid.UUID) error
	AddRating(ctx context.Context, counselorID uuid.UUID, stars int) error
}

type userRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	IncrementSessions(ctx context.Context, userID uuid.UUID) error
}

type statsRepo interface {
	Add(ctx context.Context, name string, delta int) error
}

type matcher interface {
	FindBestMatch(ctx context.Context, session *domain.Session, exclude *uuid.UUID) (*domain.Counselor, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// rateLimiter throttles seeker-driven actions before they reach the store.
type rateLimiter interface {
	Allow(actorID, action string) (allowed bool, retryAfter time.Duration)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the session lifecycle logic.
type Service struct {
	log        *slog.Logger
	sessions   sessionRepo
	messages   messageRepo
	counselors counselorRepo
	users      userRepo
	stats      statsRepo
	matcher    matcher
	tx         txManager
	notifier   notify.Notifier
	limiter    rateLimiter
	cfg        config.MatchingConfig
	now        func() time.Time
}

// NewService creates a new Session service.
func NewService(
	logger *slog.Logger,
	sessions sessionRepo,
	messages messageRepo,
	counselors counselorRepo,
	users userRepo,
	stats statsRepo,
	m matcher,
	tx txManager,
	notifier notify.Notifier,
	limiter rateLimiter,
	cfg config.MatchingConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "session"),
		sessions:   sessions,
		messages:   messages,
		counselors: counselors,
		users:      users,
		stats:      stats,
		matcher:    m,
		tx:         tx,
		notifier:   notifier,
		limiter:    limiter,
		cfg:        cfg,
		now:        time.Now,
	}
}

// notifyUser resolves the user's chat id and sends the notification.
func (s *Service) notifyUser(ctx context.Context, userID uuid.UUID, kind string, payload map[string]any) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.log.Warn("notify: resolve user", slog.String("user_id", userID.String()), slog.Any("error", err))
		return
	}
	s.notifier.Notify(ctx, u.ChatID, kind, payload)
}

// notifyCounselor resolves the counselor's owning user and sends the
// notification.
func (s *Service) notifyCounselor(ctx context.Context, counselorID uuid.UUID, kind string, payload map[string]any) {
	c, err := s.counselors.GetByID(ctx, counselorID)
	if err != nil {
		s.log.Warn("notify: resolve counselor", slog.String("counselor_id", counselorID.String()), slog.Any("error", err))
		return
	}
	s.notifyUser(ctx, c.UserID, kind, payload)
}
