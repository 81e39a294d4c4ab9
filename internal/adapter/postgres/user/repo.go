// Package user implements the help-seeker repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// Repo provides user persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const userColumns = `id, chat_id, gender, is_banned, total_sessions, created_at, last_active`

const upsertSQL = `
INSERT INTO users (id, chat_id, created_at, last_active)
VALUES ($1, $2, $3, $3)
ON CONFLICT (chat_id) DO UPDATE SET last_active = $3
RETURNING ` + userColumns

const getByIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

const getByChatIDSQL = `
SELECT ` + userColumns + `
FROM users
WHERE chat_id = $1`

const setGenderSQL = `
UPDATE users
SET gender = $2
WHERE id = $1`

const setBannedSQL = `
UPDATE users
SET is_banned = $2
WHERE id = $1`

const incrementSessionsSQL = `
UPDATE users
SET total_sessions = total_sessions + 1
WHERE id = $1`

// Upsert creates the user on first contact or refreshes last_active on a
// repeat one. The caller supplies a fresh ID which is discarded when the
// chat is already known.
func (r *Repo) Upsert(ctx context.Context, chatID int64) (*domain.User, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := q.QueryRow(ctx, upsertSQL, uuid.New(), chatID, now)

	u, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}
	return u, nil
}

// GetByID returns a user by primary key.
// Returns domain.ErrNotFound if the user does not exist.
func (r *Repo) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	row := q.QueryRow(ctx, getByIDSQL, userID)

	u, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", userID)
	}
	return u, nil
}

// GetByChatID returns a user by their transport chat identifier.
// Returns domain.ErrNotFound if the user does not exist.
func (r *Repo) GetByChatID(ctx context.Context, chatID int64) (*domain.User, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	row := q.QueryRow(ctx, getByChatIDSQL, chatID)

	u, err := scanUser(row)
	if err != nil {
		return nil, postgres.MapError(err, "user", uuid.Nil)
	}
	return u, nil
}

// SetGender records the seeker's self-declared gender.
func (r *Repo) SetGender(ctx context.Context, userID uuid.UUID, gender domain.Gender) error {
	q := postgres.QuerierFrom(ctx, r.db)

	ct, err := q.Exec(ctx, setGenderSQL, userID, string(gender))
	if err != nil {
		return postgres.MapError(err, "user", userID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}

// SetBanned flips the moderation ban flag.
func (r *Repo) SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error {
	q := postgres.QuerierFrom(ctx, r.db)

	ct, err := q.Exec(ctx, setBannedSQL, userID, banned)
	if err != nil {
		return postgres.MapError(err, "user", userID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}

// IncrementSessions bumps the seeker's lifetime session counter.
func (r *Repo) IncrementSessions(ctx context.Context, userID uuid.UUID) error {
	q := postgres.QuerierFrom(ctx, r.db)

	ct, err := q.Exec(ctx, incrementSessionsSQL, userID)
	if err != nil {
		return postgres.MapError(err, "user", userID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.ChatID,
		(*string)(&u.Gender),
		&u.Banned,
		&u.TotalSessions,
		&u.CreatedAt,
		&u.LastActive,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
