package counselor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

var (
	_ counselorRepo = &counselorRepoMock{}
	_ sessionRepo   = &sessionRepoMock{}
	_ userRepo      = &userRepoMock{}
	_ statsRepo     = &statsRepoMock{}
	_ matchTrigger  = &matchTriggerMock{}
	_ rateLimiter   = &limiterMock{}
)

// limiterMock allows everything unless AllowFunc overrides it.
type limiterMock struct {
	AllowFunc func(actorID, action string) (bool, time.Duration)
}

func (m *limiterMock) Allow(actorID, action string) (bool, time.Duration) {
	if m.AllowFunc != nil {
		return m.AllowFunc(actorID, action)
	}
	return true, 0
}

type counselorRepoMock struct {
	GetByIDFunc         func(ctx context.Context, counselorID uuid.UUID) (*domain.Counselor, error)
	GetByUserIDFunc     func(ctx context.Context, userID uuid.UUID) (*domain.Counselor, error)
	ListByStatusFunc    func(ctx context.Context, status domain.CounselorStatus) ([]*domain.Counselor, error)
	CreateFunc          func(ctx context.Context, c *domain.Counselor) (*domain.Counselor, error)
	SetStatusFunc       func(ctx context.Context, counselorID uuid.UUID, status domain.CounselorStatus, approvedBy *uuid.UUID, at time.Time) error
	SetAvailabilityFunc func(ctx context.Context, counselorID uuid.UUID, available bool) error
	UpdateProfileFunc   func(ctx context.Context, counselorID uuid.UUID, params domain.CounselorUpdateParams) error
	DeleteFunc          func(ctx context.Context, counselorID uuid.UUID) error
}

func (m *counselorRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
	if m.GetByIDFunc == nil {
		panic("counselorRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *counselorRepoMock) GetByUserID(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
	if m.GetByUserIDFunc == nil {
		panic("counselorRepoMock.GetByUserIDFunc is nil")
	}
	return m.GetByUserIDFunc(ctx, id)
}

func (m *counselorRepoMock) ListByStatus(ctx context.Context, status domain.CounselorStatus) ([]*domain.Counselor, error) {
	if m.ListByStatusFunc == nil {
		panic("counselorRepoMock.ListByStatusFunc is nil")
	}
	return m.ListByStatusFunc(ctx, status)
}

func (m *counselorRepoMock) Create(ctx context.Context, c *domain.Counselor) (*domain.Counselor, error) {
	if m.CreateFunc == nil {
		panic("counselorRepoMock.CreateFunc is nil")
	}
	return m.CreateFunc(ctx, c)
}

func (m *counselorRepoMock) SetStatus(ctx context.Context, id uuid.UUID, status domain.CounselorStatus, approvedBy *uuid.UUID, at time.Time) error {
	if m.SetStatusFunc == nil {
		panic("counselorRepoMock.SetStatusFunc is nil")
	}
	return m.SetStatusFunc(ctx, id, status, approvedBy, at)
}

func (m *counselorRepoMock) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if m.SetAvailabilityFunc == nil {
		panic("counselorRepoMock.SetAvailabilityFunc is nil")
	}
	return m.SetAvailabilityFunc(ctx, id, available)
}

func (m *counselorRepoMock) UpdateProfile(ctx context.Context, id uuid.UUID, params domain.CounselorUpdateParams) error {
	if m.UpdateProfileFunc == nil {
		panic("counselorRepoMock.UpdateProfileFunc is nil")
	}
	return m.UpdateProfileFunc(ctx, id, params)
}

func (m *counselorRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc == nil {
		panic("counselorRepoMock.DeleteFunc is nil")
	}
	return m.DeleteFunc(ctx, id)
}

type sessionRepoMock struct {
	CountOccupiedByCounselorFunc func(ctx context.Context, counselorID uuid.UUID) (int, error)
}

func (m *sessionRepoMock) CountOccupiedByCounselor(ctx context.Context, id uuid.UUID) (int, error) {
	if m.CountOccupiedByCounselorFunc == nil {
		panic("sessionRepoMock.CountOccupiedByCounselorFunc is nil")
	}
	return m.CountOccupiedByCounselorFunc(ctx, id)
}

type userRepoMock struct {
	GetByIDFunc   func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	SetBannedFunc func(ctx context.Context, userID uuid.UUID, banned bool) error
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) SetBanned(ctx context.Context, id uuid.UUID, banned bool) error {
	if m.SetBannedFunc == nil {
		panic("userRepoMock.SetBannedFunc is nil")
	}
	return m.SetBannedFunc(ctx, id, banned)
}

type statsRepoMock struct {
	mu     sync.Mutex
	deltas map[string][]int
}

func (m *statsRepoMock) Add(_ context.Context, name string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deltas == nil {
		m.deltas = make(map[string][]int)
	}
	m.deltas[name] = append(m.deltas[name], delta)
	return nil
}

func (m *statsRepoMock) total(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := 0
	for _, d := range m.deltas[name] {
		sum += d
	}
	return sum
}

type matchTriggerMock struct {
	MatchPendingFunc func(ctx context.Context) (int, error)

	mu    sync.Mutex
	calls int
}

func (m *matchTriggerMock) MatchPending(ctx context.Context) (int, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.MatchPendingFunc == nil {
		return 0, nil
	}
	return m.MatchPendingFunc(ctx)
}

func (m *matchTriggerMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
