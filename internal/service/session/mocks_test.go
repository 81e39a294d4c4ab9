package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

var (
	_ sessionRepo   = &sessionRepoMock{}
	_ messageRepo   = &messageRepoMock{}
	_ counselorRepo = &counselorRepoMock{}
	_ userRepo      = &userRepoMock{}
	_ statsRepo     = &statsRepoMock{}
	_ matcher       = &matcherMock{}
	_ txManager     = &txManagerMock{}
	_ rateLimiter   = &limiterMock{}
)

type sessionRepoMock struct {
	GetByIDFunc                  func(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	GetLiveByUserFunc            func(ctx context.Context, userID uuid.UUID) (*domain.Session, error)
	GetLiveByCounselorFunc       func(ctx context.Context, counselorID uuid.UUID) (*domain.Session, error)
	CountOccupiedByCounselorFunc func(ctx context.Context, counselorID uuid.UUID) (int, error)
	ListRequestedFunc            func(ctx context.Context, limit int) ([]*domain.Session, error)
	CreateFunc                   func(ctx context.Context, s *domain.Session) (*domain.Session, error)
	AssignFunc                   func(ctx context.Context, sessionID, counselorID uuid.UUID) (*domain.Session, error)
	ReleaseFunc                  func(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	StartFunc                    func(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error)
	EndFunc                      func(ctx context.Context, sessionID uuid.UUID, reason domain.EndReason) (*domain.SessionEnd, error)
	RateFunc                     func(ctx context.Context, sessionID uuid.UUID, stars int, feedback *string) error
}

func (m *sessionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if m.GetByIDFunc == nil {
		panic("sessionRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *sessionRepoMock) GetLiveByUser(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if m.GetLiveByUserFunc == nil {
		panic("sessionRepoMock.GetLiveByUserFunc is nil")
	}
	return m.GetLiveByUserFunc(ctx, id)
}

func (m *sessionRepoMock) GetLiveByCounselor(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if m.GetLiveByCounselorFunc == nil {
		panic("sessionRepoMock.GetLiveByCounselorFunc is nil")
	}
	return m.GetLiveByCounselorFunc(ctx, id)
}

func (m *sessionRepoMock) CountOccupiedByCounselor(ctx context.Context, id uuid.UUID) (int, error) {
	if m.CountOccupiedByCounselorFunc == nil {
		panic("sessionRepoMock.CountOccupiedByCounselorFunc is nil")
	}
	return m.CountOccupiedByCounselorFunc(ctx, id)
}

func (m *sessionRepoMock) ListRequested(ctx context.Context, limit int) ([]*domain.Session, error) {
	if m.ListRequestedFunc == nil {
		panic("sessionRepoMock.ListRequestedFunc is nil")
	}
	return m.ListRequestedFunc(ctx, limit)
}

func (m *sessionRepoMock) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	if m.CreateFunc == nil {
		panic("sessionRepoMock.CreateFunc is nil")
	}
	return m.CreateFunc(ctx, s)
}

func (m *sessionRepoMock) Assign(ctx context.Context, sessionID, counselorID uuid.UUID) (*domain.Session, error) {
	if m.AssignFunc == nil {
		panic("sessionRepoMock.AssignFunc is nil")
	}
	return m.AssignFunc(ctx, sessionID, counselorID)
}

func (m *sessionRepoMock) Release(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if m.ReleaseFunc == nil {
		panic("sessionRepoMock.ReleaseFunc is nil")
	}
	return m.ReleaseFunc(ctx, id)
}

func (m *sessionRepoMock) Start(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	if m.StartFunc == nil {
		panic("sessionRepoMock.StartFunc is nil")
	}
	return m.StartFunc(ctx, id)
}

func (m *sessionRepoMock) End(ctx context.Context, id uuid.UUID, reason domain.EndReason) (*domain.SessionEnd, error) {
	if m.EndFunc == nil {
		panic("sessionRepoMock.EndFunc is nil")
	}
	return m.EndFunc(ctx, id, reason)
}

func (m *sessionRepoMock) Rate(ctx context.Context, id uuid.UUID, stars int, feedback *string) error {
	if m.RateFunc == nil {
		panic("sessionRepoMock.RateFunc is nil")
	}
	return m.RateFunc(ctx, id, stars, feedback)
}

type messageRepoMock struct {
	AppendFunc        func(ctx context.Context, m *domain.Message) (*domain.Message, error)
	ListBySessionFunc func(ctx context.Context, sessionID uuid.UUID) ([]*domain.Message, error)
}

func (m *messageRepoMock) Append(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	if m.AppendFunc == nil {
		panic("messageRepoMock.AppendFunc is nil")
	}
	return m.AppendFunc(ctx, msg)
}

func (m *messageRepoMock) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Message, error) {
	if m.ListBySessionFunc == nil {
		panic("messageRepoMock.ListBySessionFunc is nil")
	}
	return m.ListBySessionFunc(ctx, sessionID)
}

type counselorRepoMock struct {
	GetByIDFunc           func(ctx context.Context, counselorID uuid.UUID) (*domain.Counselor, error)
	LockForUpdateFunc     func(ctx context.Context, counselorID uuid.UUID) error
	IncrementSessionsFunc func(ctx context.Context, counselorID uuid.UUID) error
	AddRatingFunc         func(ctx context.Context, counselorID uuid.UUID, stars int) error
}

func (m *counselorRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
	if m.GetByIDFunc == nil {
		panic("counselorRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *counselorRepoMock) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	if m.LockForUpdateFunc == nil {
		panic("counselorRepoMock.LockForUpdateFunc is nil")
	}
	return m.LockForUpdateFunc(ctx, id)
}

func (m *counselorRepoMock) IncrementSessions(ctx context.Context, id uuid.UUID) error {
	if m.IncrementSessionsFunc == nil {
		panic("counselorRepoMock.IncrementSessionsFunc is nil")
	}
	return m.IncrementSessionsFunc(ctx, id)
}

func (m *counselorRepoMock) AddRating(ctx context.Context, id uuid.UUID, stars int) error {
	if m.AddRatingFunc == nil {
		panic("counselorRepoMock.AddRatingFunc is nil")
	}
	return m.AddRatingFunc(ctx, id, stars)
}

type userRepoMock struct {
	GetByIDFunc           func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	IncrementSessionsFunc func(ctx context.Context, userID uuid.UUID) error
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *userRepoMock) IncrementSessions(ctx context.Context, id uuid.UUID) error {
	if m.IncrementSessionsFunc == nil {
		panic("userRepoMock.IncrementSessionsFunc is nil")
	}
	return m.IncrementSessionsFunc(ctx, id)
}

// statsRepoMock records deltas per counter; safe for concurrent use.
// AddFunc, when set, replaces the recording behaviour.
type statsRepoMock struct {
	AddFunc func(ctx context.Context, name string, delta int) error

	mu     sync.Mutex
	deltas map[string][]int
}

func (m *statsRepoMock) Add(ctx context.Context, name string, delta int) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, name, delta)
	}
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

type matcherMock struct {
	FindBestMatchFunc func(ctx context.Context, session *domain.Session, exclude *uuid.UUID) (*domain.Counselor, error)

	calls struct {
		FindBestMatch []struct {
			Session *domain.Session
			Exclude *uuid.UUID
		}
	}
	lock sync.RWMutex
}

func (m *matcherMock) FindBestMatch(ctx context.Context, session *domain.Session, exclude *uuid.UUID) (*domain.Counselor, error) {
	if m.FindBestMatchFunc == nil {
		panic("matcherMock.FindBestMatchFunc is nil")
	}
	m.lock.Lock()
	m.calls.FindBestMatch = append(m.calls.FindBestMatch, struct {
		Session *domain.Session
		Exclude *uuid.UUID
	}{Session: session, Exclude: exclude})
	m.lock.Unlock()
	return m.FindBestMatchFunc(ctx, session, exclude)
}

func (m *matcherMock) FindBestMatchCalls() []struct {
	Session *domain.Session
	Exclude *uuid.UUID
} {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.calls.FindBestMatch
}

// txManagerMock runs the closure directly unless RunInTxFunc overrides it;
// repository mocks observe the calls made inside it.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

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
