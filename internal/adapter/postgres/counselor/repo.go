// Package counselor implements the counselor repository using PostgreSQL.
package counselor

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	postgres "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// Repo provides counselor persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
	sb sq.StatementBuilderType
}

// New creates a new counselor repository.
func New(db postgres.Querier) *Repo {
	return &Repo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const counselorColumns = `id, user_id, display_name, bio, gender, specializations, status,
is_available, total_sessions, rating_sum, rating_count, approved_by, approved_at, created_at`

const createSQL = `
INSERT INTO counselors (id, user_id, display_name, bio, gender, specializations, status, is_available, created_at)
VALUES ($1, $2, $3, $4, $5, $6, 'pending', FALSE, $7)
RETURNING ` + counselorColumns

const getByIDSQL = `
SELECT ` + counselorColumns + `
FROM counselors
WHERE id = $1`

const getByUserIDSQL = `
SELECT ` + counselorColumns + `
FROM counselors
WHERE user_id = $1`

const listByStatusSQL = `
SELECT ` + counselorColumns + `
FROM counselors
WHERE status = $1
ORDER BY created_at ASC`

const lockSQL = `
SELECT id FROM counselors
WHERE id = $1
FOR UPDATE`

const setStatusSQL = `
UPDATE counselors
SET status = $2, approved_by = $3, approved_at = $4
WHERE id = $1`

const setAvailabilitySQL = `
UPDATE counselors
SET is_available = $2
WHERE id = $1`

const incrementSessionsSQL = `
UPDATE counselors
SET total_sessions = total_sessions + 1
WHERE id = $1`

const addRatingSQL = `
UPDATE counselors
SET rating_sum = rating_sum + $2, rating_count = rating_count + 1
WHERE id = $1`

const deleteSQL = `
DELETE FROM counselors
WHERE id = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a counselor by primary key.
// Returns domain.ErrNotFound if the counselor does not exist.
func (r *Repo) GetByID(ctx context.Context, counselorID uuid.UUID) (*domain.Counselor, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	row := q.QueryRow(ctx, getByIDSQL, counselorID)

	c, err := scanCounselor(row)
	if err != nil {
		return nil, postgres.MapError(err, "counselor", counselorID)
	}
	return c, nil
}

// GetByUserID returns the counselor identity owned by the given user.
// Returns domain.ErrNotFound if the user is not a counselor.
func (r *Repo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Counselor, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	row := q.QueryRow(ctx, getByUserIDSQL, userID)

	c, err := scanCounselor(row)
	if err != nil {
		return nil, postgres.MapError(err, "counselor", userID)
	}
	return c, nil
}

// ListByStatus returns counselors in the given moderation status, oldest
// application first.
func (r *Repo) ListByStatus(ctx context.Context, status domain.CounselorStatus) ([]*domain.Counselor, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, listByStatusSQL, string(status))
	if err != nil {
		return nil, fmt.Errorf("list counselors by status: %w", err)
	}
	defer rows.Close()

	return scanCounselors(rows)
}

// ListCandidates returns approved, available counselors whose occupied
// session count is below the cap, ordered by total sessions ascending so
// the scorer sees least-loaded counselors first. A non-nil topic restricts
// the set to counselors listing it.
func (r *Repo) ListCandidates(ctx context.Context, topic *domain.Topic, capacity int) ([]*domain.Counselor, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	builder := r.sb.
		Select(
			"c.id", "c.user_id", "c.display_name", "c.bio", "c.gender",
			"c.specializations", "c.status", "c.is_available",
			"c.total_sessions", "c.rating_sum", "c.rating_count",
			"c.approved_by", "c.approved_at", "c.created_at",
		).
		From("counselors c").
		Where(sq.Eq{"c.status": string(domain.CounselorStatusApproved)}).
		Where("c.is_available").
		Where(sq.Expr(
			`(SELECT count(*) FROM counseling_sessions s
  WHERE s.counselor_id = c.id AND s.status IN ('matched', 'active')) < ?`, capacity)).
		OrderBy("c.total_sessions ASC")

	if topic != nil {
		builder = builder.Where("? = ANY(c.specializations)", string(*topic))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build candidates query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list candidate counselors: %w", err)
	}
	defer rows.Close()

	return scanCounselors(rows)
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new counselor application in the pending state.
// The unique constraint on user_id surfaces as domain.ErrAlreadyExists when
// the user already has a counselor identity.
func (r *Repo) Create(ctx context.Context, c *domain.Counselor) (*domain.Counselor, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := q.QueryRow(ctx, createSQL,
		c.ID,
		c.UserID,
		c.DisplayName,
		c.Bio,
		string(c.Gender),
		topicsToStrings(c.Specializations),
		now,
	)

	created, err := scanCounselor(row)
	if err != nil {
		return nil, postgres.MapError(err, "counselor", c.ID)
	}
	return created, nil
}

// LockForUpdate takes a row lock on the counselor for the duration of the
// surrounding transaction. Capacity checks rely on this lock to serialize
// concurrent assignments to the same counselor.
func (r *Repo) LockForUpdate(ctx context.Context, counselorID uuid.UUID) error {
	q := postgres.QuerierFrom(ctx, r.db)

	var id uuid.UUID
	if err := q.QueryRow(ctx, lockSQL, counselorID).Scan(&id); err != nil {
		return postgres.MapError(err, "counselor", counselorID)
	}
	return nil
}

// SetStatus moves the counselor to a new moderation status, recording the
// moderator and time for approvals. Pass nil approvedBy for non-approval
// transitions.
func (r *Repo) SetStatus(ctx context.Context, counselorID uuid.UUID, status domain.CounselorStatus, approvedBy *uuid.UUID, at time.Time) error {
	q := postgres.QuerierFrom(ctx, r.db)

	var approvedAt *time.Time
	if approvedBy != nil {
		approvedAt = &at
	}

	ct, err := q.Exec(ctx, setStatusSQL, counselorID, string(status), approvedBy, approvedAt)
	if err != nil {
		return postgres.MapError(err, "counselor", counselorID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("counselor %s: %w", counselorID, domain.ErrNotFound)
	}
	return nil
}

// SetAvailability flips the counselor's availability flag.
func (r *Repo) SetAvailability(ctx context.Context, counselorID uuid.UUID, available bool) error {
	q := postgres.QuerierFrom(ctx, r.db)

	ct, err := q.Exec(ctx, setAvailabilitySQL, counselorID, available)
	if err != nil {
		return postgres.MapError(err, "counselor", counselorID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("counselor %s: %w", counselorID, domain.ErrNotFound)
	}
	return nil
}

// UpdateProfile applies a partial profile update. Nil fields are left
// untouched; an empty update is a no-op.
func (r *Repo) UpdateProfile(ctx context.Context, counselorID uuid.UUID, params domain.CounselorUpdateParams) error {
	q := postgres.QuerierFrom(ctx, r.db)

	builder := r.sb.Update("counselors").Where(sq.Eq{"id": counselorID})

	touched := false
	if params.DisplayName != nil {
		builder = builder.Set("display_name", *params.DisplayName)
		touched = true
	}
	if params.Bio != nil {
		builder = builder.Set("bio", *params.Bio)
		touched = true
	}
	if params.Specializations != nil {
		builder = builder.Set("specializations", topicsToStrings(params.Specializations))
		touched = true
	}
	if !touched {
		return nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build profile update: %w", err)
	}

	ct, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "counselor", counselorID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("counselor %s: %w", counselorID, domain.ErrNotFound)
	}
	return nil
}

// IncrementSessions bumps the counselor's lifetime session counter.
func (r *Repo) IncrementSessions(ctx context.Context, counselorID uuid.UUID) error {
	q := postgres.QuerierFrom(ctx, r.db)

	ct, err := q.Exec(ctx, incrementSessionsSQL, counselorID)
	if err != nil {
		return postgres.MapError(err, "counselor", counselorID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("counselor %s: %w", counselorID, domain.ErrNotFound)
	}
	return nil
}

// AddRating folds a 1-5 star rating into the counselor's running aggregate.
func (r *Repo) AddRating(ctx context.Context, counselorID uuid.UUID, stars int) error {
	q := postgres.QuerierFrom(ctx, r.db)

	ct, err := q.Exec(ctx, addRatingSQL, counselorID, stars)
	if err != nil {
		return postgres.MapError(err, "counselor", counselorID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("counselor %s: %w", counselorID, domain.ErrNotFound)
	}
	return nil
}

// Delete removes the counselor row. Sessions referencing it block deletion
// via the foreign key, surfaced as domain.ErrConflict.
func (r *Repo) Delete(ctx context.Context, counselorID uuid.UUID) error {
	q := postgres.QuerierFrom(ctx, r.db)

	ct, err := q.Exec(ctx, deleteSQL, counselorID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("counselor %s has session history: %w", counselorID, domain.ErrConflict)
		}
		return postgres.MapError(err, "counselor", counselorID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("counselor %s: %w", counselorID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func counselorScanDest(c *domain.Counselor, specs *[]string) []any {
	return []any{
		&c.ID,
		&c.UserID,
		&c.DisplayName,
		&c.Bio,
		(*string)(&c.Gender),
		specs,
		(*string)(&c.Status),
		&c.Available,
		&c.TotalSessions,
		&c.RatingSum,
		&c.RatingCount,
		&c.ApprovedBy,
		&c.ApprovedAt,
		&c.CreatedAt,
	}
}

func scanCounselor(row pgx.Row) (*domain.Counselor, error) {
	var (
		c     domain.Counselor
		specs []string
	)
	if err := row.Scan(counselorScanDest(&c, &specs)...); err != nil {
		return nil, err
	}
	c.Specializations = stringsToTopics(specs)
	return &c, nil
}

func scanCounselors(rows pgx.Rows) ([]*domain.Counselor, error) {
	var counselors []*domain.Counselor
	for rows.Next() {
		var (
			c     domain.Counselor
			specs []string
		)
		if err := rows.Scan(counselorScanDest(&c, &specs)...); err != nil {
			return nil, err
		}
		c.Specializations = stringsToTopics(specs)
		counselors = append(counselors, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if counselors == nil {
		counselors = []*domain.Counselor{}
	}
	return counselors, nil
}

func topicsToStrings(topics []domain.Topic) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = string(t)
	}
	return out
}

func stringsToTopics(specs []string) []domain.Topic {
	out := make([]domain.Topic, len(specs))
	for i, s := range specs {
		out[i] = domain.Topic(s)
	}
	return out
}
