package counselor

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/config"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/notify"
)

type fixture struct {
	counselors *counselorRepoMock
	sessions   *sessionRepoMock
	users      *userRepoMock
	stats      *statsRepoMock
	match      *matchTriggerMock
	limiter    *limiterMock
	svc        *Service
}

func newFixture() *fixture {
	f := &fixture{
		counselors: &counselorRepoMock{},
		sessions:   &sessionRepoMock{},
		users:      &userRepoMock{},
		stats:      &statsRepoMock{},
		match:      &matchTriggerMock{},
		limiter:    &limiterMock{},
	}
	f.svc = NewService(
		slog.Default(),
		f.counselors,
		f.sessions,
		f.users,
		f.stats,
		f.match,
		notify.NewLogNotifier(slog.Default()),
		f.limiter,
		config.MatchingConfig{CounselorCap: 3},
	)
	return f
}

func pendingCounselor(id uuid.UUID) *domain.Counselor {
	return &domain.Counselor{
		ID:              id,
		UserID:          uuid.New(),
		DisplayName:     "Hope",
		Specializations: []domain.Topic{domain.TopicGrief},
		Status:          domain.CounselorStatusPending,
	}
}

func TestService_Register(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		input   RegisterInput
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name: "valid application",
			input: RegisterInput{
				UserID:          userID,
				DisplayName:     "Hope",
				Specializations: []domain.Topic{domain.TopicGrief, domain.TopicFamily},
			},
			setup: func(f *fixture) {
				f.users.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
					return &domain.User{ID: id, ChatID: 7}, nil
				}
				f.counselors.CreateFunc = func(ctx context.Context, c *domain.Counselor) (*domain.Counselor, error) {
					return c, nil
				}
			},
		},
		{
			name: "repeat application throttled",
			input: RegisterInput{
				UserID:          userID,
				DisplayName:     "Hope",
				Specializations: []domain.Topic{domain.TopicGrief},
			},
			setup: func(f *fixture) {
				f.limiter.AllowFunc = func(actorID, action string) (bool, time.Duration) {
					return false, 12 * time.Hour
				}
			},
			wantErr: domain.ErrRateLimited,
		},
		{
			name: "banned user cannot apply",
			input: RegisterInput{
				UserID:          userID,
				DisplayName:     "Hope",
				Specializations: []domain.Topic{domain.TopicGrief},
			},
			setup: func(f *fixture) {
				f.users.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
					return &domain.User{ID: id, Banned: true}, nil
				}
			},
			wantErr: domain.ErrBanned,
		},
		{
			name: "no specializations",
			input: RegisterInput{
				UserID:      userID,
				DisplayName: "Hope",
			},
			setup:   func(f *fixture) {},
			wantErr: domain.ErrValidation,
		},
		{
			name: "too many specializations",
			input: RegisterInput{
				UserID:      userID,
				DisplayName: "Hope",
				Specializations: []domain.Topic{
					domain.TopicGrief, domain.TopicFamily, domain.TopicCareer,
					domain.TopicDoubt, domain.TopicIdentity, domain.TopicFinancial,
				},
			},
			setup:   func(f *fixture) {},
			wantErr: domain.ErrValidation,
		},
		{
			name: "duplicate specialization",
			input: RegisterInput{
				UserID:          userID,
				DisplayName:     "Hope",
				Specializations: []domain.Topic{domain.TopicGrief, domain.TopicGrief},
			},
			setup:   func(f *fixture) {},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			got, err := f.svc.Register(context.Background(), tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if got.Status != domain.CounselorStatusPending {
				t.Errorf("Register() status = %v, want pending", got.Status)
			}
			if got.Available {
				t.Error("Register() available = true, want false")
			}
		})
	}
}

func TestService_Approve(t *testing.T) {
	counselorID := uuid.New()
	moderatorID := uuid.New()

	t.Run("approves pending and bumps counters", func(t *testing.T) {
		f := newFixture()
		var gotStatus domain.CounselorStatus
		var gotBy *uuid.UUID

		f.counselors.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
			return pendingCounselor(id), nil
		}
		f.counselors.SetStatusFunc = func(ctx context.Context, id uuid.UUID, status domain.CounselorStatus, by *uuid.UUID, at time.Time) error {
			gotStatus, gotBy = status, by
			return nil
		}
		f.users.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, ChatID: 7}, nil
		}

		if err := f.svc.Approve(context.Background(), counselorID, moderatorID); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		if gotStatus != domain.CounselorStatusApproved {
			t.Errorf("SetStatus status = %v, want approved", gotStatus)
		}
		if gotBy == nil || *gotBy != moderatorID {
			t.Errorf("SetStatus approvedBy = %v, want %v", gotBy, moderatorID)
		}
		if f.stats.total(domain.StatTotalCounselors) != 1 || f.stats.total(domain.StatActiveCounselors) != 1 {
			t.Error("counselor counters not bumped")
		}
	})

	t.Run("already reviewed", func(t *testing.T) {
		f := newFixture()
		f.counselors.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
			c := pendingCounselor(id)
			c.Status = domain.CounselorStatusApproved
			return c, nil
		}

		err := f.svc.Approve(context.Background(), counselorID, moderatorID)
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("Approve() error = %v, want ErrConflict", err)
		}
	})
}

func TestService_Ban(t *testing.T) {
	counselorID := uuid.New()

	t.Run("bans counselor and owning user", func(t *testing.T) {
		f := newFixture()
		var bannedUser uuid.UUID
		var availability *bool

		c := pendingCounselor(counselorID)
		c.Status = domain.CounselorStatusApproved

		f.counselors.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
			return c, nil
		}
		f.counselors.SetStatusFunc = func(ctx context.Context, id uuid.UUID, status domain.CounselorStatus, by *uuid.UUID, at time.Time) error {
			return nil
		}
		f.counselors.SetAvailabilityFunc = func(ctx context.Context, id uuid.UUID, available bool) error {
			availability = &available
			return nil
		}
		f.users.SetBannedFunc = func(ctx context.Context, id uuid.UUID, banned bool) error {
			if banned {
				bannedUser = id
			}
			return nil
		}

		if err := f.svc.Ban(context.Background(), counselorID); err != nil {
			t.Fatalf("Ban() error = %v", err)
		}
		if bannedUser != c.UserID {
			t.Errorf("banned user = %v, want %v", bannedUser, c.UserID)
		}
		if availability == nil || *availability {
			t.Error("availability not cleared on ban")
		}
		if f.stats.total(domain.StatActiveCounselors) != -1 {
			t.Errorf("active_counselors delta = %d, want -1", f.stats.total(domain.StatActiveCounselors))
		}
	})

	t.Run("repeat ban is a no-op", func(t *testing.T) {
		f := newFixture()
		c := pendingCounselor(counselorID)
		c.Status = domain.CounselorStatusBanned
		f.counselors.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
			return c, nil
		}

		if err := f.svc.Ban(context.Background(), counselorID); err != nil {
			t.Errorf("Ban() error = %v, want nil", err)
		}
	})
}

func TestService_Delete(t *testing.T) {
	counselorID := uuid.New()

	t.Run("refused while sessions live", func(t *testing.T) {
		f := newFixture()
		f.sessions.CountOccupiedByCounselorFunc = func(ctx context.Context, id uuid.UUID) (int, error) {
			return 2, nil
		}

		err := f.svc.Delete(context.Background(), counselorID)
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("Delete() error = %v, want ErrConflict", err)
		}
	})

	t.Run("deletes idle counselor", func(t *testing.T) {
		f := newFixture()
		deleted := false
		f.sessions.CountOccupiedByCounselorFunc = func(ctx context.Context, id uuid.UUID) (int, error) {
			return 0, nil
		}
		f.counselors.DeleteFunc = func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		}

		if err := f.svc.Delete(context.Background(), counselorID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if !deleted {
			t.Error("repository Delete not called")
		}
	})
}

func TestService_SetAvailability(t *testing.T) {
	counselorID := uuid.New()

	approved := func(id uuid.UUID) *domain.Counselor {
		c := pendingCounselor(id)
		c.Status = domain.CounselorStatusApproved
		return c
	}

	t.Run("going available drains the queue", func(t *testing.T) {
		f := newFixture()
		f.counselors.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
			return approved(id), nil
		}
		f.counselors.SetAvailabilityFunc = func(ctx context.Context, id uuid.UUID, available bool) error {
			return nil
		}
		f.match.MatchPendingFunc = func(ctx context.Context) (int, error) { return 2, nil }

		if err := f.svc.SetAvailability(context.Background(), counselorID, true); err != nil {
			t.Fatalf("SetAvailability() error = %v", err)
		}
		if f.match.Calls() != 1 {
			t.Errorf("MatchPending called %d times, want 1", f.match.Calls())
		}
	})

	t.Run("going unavailable does not", func(t *testing.T) {
		f := newFixture()
		f.counselors.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
			return approved(id), nil
		}
		f.counselors.SetAvailabilityFunc = func(ctx context.Context, id uuid.UUID, available bool) error {
			return nil
		}

		if err := f.svc.SetAvailability(context.Background(), counselorID, false); err != nil {
			t.Fatalf("SetAvailability() error = %v", err)
		}
		if f.match.Calls() != 0 {
			t.Errorf("MatchPending called %d times, want 0", f.match.Calls())
		}
	})

	t.Run("unapproved counselor cannot opt in", func(t *testing.T) {
		f := newFixture()
		f.counselors.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
			return pendingCounselor(id), nil
		}

		err := f.svc.SetAvailability(context.Background(), counselorID, true)
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("SetAvailability() error = %v, want ErrConflict", err)
		}
	})

	t.Run("queue drain failure does not fail the flip", func(t *testing.T) {
		f := newFixture()
		f.counselors.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*domain.Counselor, error) {
			return approved(id), nil
		}
		f.counselors.SetAvailabilityFunc = func(ctx context.Context, id uuid.UUID, available bool) error {
			return nil
		}
		f.match.MatchPendingFunc = func(ctx context.Context) (int, error) {
			return 0, errors.New("store down")
		}

		if err := f.svc.SetAvailability(context.Background(), counselorID, true); err != nil {
			t.Errorf("SetAvailability() error = %v, want nil", err)
		}
	})
}
