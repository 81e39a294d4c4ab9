package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres/testutil"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

var userCols = []string{
	"id", "chat_id", "gender", "is_banned", "total_sessions", "created_at", "last_active",
}

func TestRepo_Upsert(t *testing.T) {
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)

	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), int64(555001), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(userID, int64(555001), "anonymous", false, 0, now, now))

	u, err := repo.Upsert(context.Background(), 555001)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if u.ChatID != 555001 {
		t.Errorf("Upsert() chat_id = %d, want 555001", u.ChatID)
	}
	if u.Gender != domain.GenderAnonymous {
		t.Errorf("Upsert() gender = %v, want anonymous", u.Gender)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_Upsert_ReturningExisting(t *testing.T) {
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)

	existingID := uuid.New()
	created := time.Now().Add(-24 * time.Hour)
	now := time.Now()

	// A repeat contact returns the original row, not the freshly drawn id.
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), int64(555001), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow(existingID, int64(555001), "female", false, 3, created, now))

	u, err := repo.Upsert(context.Background(), 555001)
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if u.ID != existingID {
		t.Errorf("Upsert() id = %v, want existing %v", u.ID, existingID)
	}
	if u.TotalSessions != 3 {
		t.Errorf("Upsert() total_sessions = %d, want 3", u.TotalSessions)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_GetByChatID_NotFound(t *testing.T) {
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)

	mock.ExpectQuery(`SELECT`).
		WithArgs(int64(404404)).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByChatID(context.Background(), 404404)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetByChatID() error = %v, want ErrNotFound", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_SetBanned(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "banned",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users`).
					WithArgs(userID, true).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "missing user",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE users`).
					WithArgs(userID, true).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := testutil.NewMockQuerier(t)
			repo := New(db)
			tt.setup(mock)

			err := repo.SetBanned(context.Background(), userID, true)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("SetBanned() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("SetBanned() error = %v", err)
			}

			testutil.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_SetGender(t *testing.T) {
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)

	userID := uuid.New()

	mock.ExpectExec(`UPDATE users`).
		WithArgs(userID, "female").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SetGender(context.Background(), userID, domain.GenderFemale); err != nil {
		t.Fatalf("SetGender() error = %v", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_IncrementSessions(t *testing.T) {
	db, mock := testutil.NewMockQuerier(t)
	repo := New(db)

	userID := uuid.New()

	mock.ExpectExec(`UPDATE users`).
		WithArgs(userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.IncrementSessions(context.Background(), userID); err != nil {
		t.Fatalf("IncrementSessions() error = %v", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}
