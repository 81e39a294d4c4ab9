// Package session implements the counseling session repository using
// PostgreSQL. The capacity-checked Assign operation is the concurrency
// choke point of the whole engine: it must run inside a transaction that
// holds the counselor row lock (see service/session.Match).
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// Repo provides session persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new session repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const sessionColumns = `id, user_id, counselor_id, topic, description, priority, status,
created_at, matched_at, started_at, ended_at, end_reason, user_rating, user_feedback`

const createSQL = `
INSERT INTO counseling_sessions (id, user_id, topic, description, priority, status, created_at)
VALUES ($1, $2, $3, $4, $5, 'requested', $6)
RETURNING ` + sessionColumns

const getByIDSQL = `
SELECT ` + sessionColumns + `
FROM counseling_sessions
WHERE id = $1`

const getLiveByUserSQL = `
SELECT ` + sessionColumns + `
FROM counseling_sessions
WHERE user_id = $1 AND status IN ('requested', 'matched', 'active')
ORDER BY created_at DESC
LIMIT 1`

const getLiveByCounselorSQL = `
SELECT ` + sessionColumns + `
FROM counseling_sessions
WHERE counselor_id = $1 AND status IN ('matched', 'active')
ORDER BY created_at DESC
LIMIT 1`

const countOccupiedByCounselorSQL = `
SELECT count(*) FROM counseling_sessions
WHERE counselor_id = $1 AND status IN ('matched', 'active')`

const assignSQL = `
UPDATE counseling_sessions
SET counselor_id = $2, status = 'matched', matched_at = $3
WHERE id = $1 AND status = 'requested'
RETURNING ` + sessionColumns

const releaseSQL = `
UPDATE counseling_sessions
SET counselor_id = NULL, status = 'requested', matched_at = NULL, started_at = NULL
WHERE id = $1 AND status IN ('matched', 'active')
RETURNING ` + sessionColumns

const startSQL = `
UPDATE counseling_sessions
SET status = 'active', started_at = $2
WHERE id = $1 AND status = 'matched'
RETURNING ` + sessionColumns

// The counselor assignment survives into the ended row for rating and
// history; occupancy queries filter on status alone.
const endSQL = `
UPDATE counseling_sessions
SET status = 'ended', ended_at = $2, end_reason = $3
WHERE id = $1 AND status <> 'ended'
RETURNING user_id, counselor_id, started_at`

const rateSQL = `
UPDATE counseling_sessions
SET user_rating = $2, user_feedback = $3
WHERE id = $1 AND status = 'ended'`

const listRequestedSQL = `
SELECT ` + sessionColumns + `
FROM counseling_sessions
WHERE status = 'requested'
ORDER BY priority DESC, created_at ASC
LIMIT $1`

const listOccupiedSQL = `
SELECT ` + sessionColumns + `, m.last_message_at
FROM counseling_sessions s
LEFT JOIN (
    SELECT session_id, max(created_at) AS last_message_at
    FROM session_messages
    GROUP BY session_id
) m ON m.session_id = s.id
WHERE s.status IN ('matched', 'active')`

const deleteEndedBeforeSQL = `
DELETE FROM counseling_sessions
WHERE status = 'ended' AND ended_at < $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a session by primary key.
// Returns domain.ErrNotFound if the session does not exist.
func (r *Repo) GetByID(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	row := q.QueryRow(ctx, getByIDSQL, sessionID)

	s, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "session", sessionID)
	}
	return s, nil
}

// GetLiveByUser returns the seeker's session in {requested, matched, active}.
// Returns domain.ErrNotFound when the seeker has no live session.
func (r *Repo) GetLiveByUser(ctx context.Context, userID uuid.UUID) (*domain.Session, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	row := q.QueryRow(ctx, getLiveByUserSQL, userID)

	s, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "session", uuid.Nil)
	}
	return s, nil
}

// GetLiveByCounselor returns the counselor's most recent matched or active session.
// Returns domain.ErrNotFound when none exists.
func (r *Repo) GetLiveByCounselor(ctx context.Context, counselorID uuid.UUID) (*domain.Session, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	row := q.QueryRow(ctx, getLiveByCounselorSQL, counselorID)

	s, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "session", uuid.Nil)
	}
	return s, nil
}

// CountOccupiedByCounselor returns the counselor's current {matched, active}
// session count. Callers comparing against the cap must hold the counselor
// row lock in the same transaction.
func (r *Repo) CountOccupiedByCounselor(ctx context.Context, counselorID uuid.UUID) (int, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	var count int
	if err := q.QueryRow(ctx, countOccupiedByCounselorSQL, counselorID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count occupied sessions: %w", err)
	}
	return count, nil
}

// ListRequested returns queued sessions ordered by priority descending,
// then creation time ascending. Crisis requests always precede normal ones.
func (r *Repo) ListRequested(ctx context.Context, limit int) ([]*domain.Session, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, listRequestedSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list requested sessions: %w", err)
	}
	defer rows.Close()

	return scanSessions(rows)
}

// OccupiedSession pairs a live session with its latest message timestamp
// for timeout evaluation.
type OccupiedSession struct {
	Session       domain.Session
	LastMessageAt *time.Time
}

// ListOccupied returns all {matched, active} sessions joined with their
// latest message timestamp.
func (r *Repo) ListOccupied(ctx context.Context) ([]OccupiedSession, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, listOccupiedSQL)
	if err != nil {
		return nil, fmt.Errorf("list occupied sessions: %w", err)
	}
	defer rows.Close()

	var result []OccupiedSession
	for rows.Next() {
		var (
			s      domain.Session
			reason *string
			lastAt *time.Time
		)
		if err := rows.Scan(sessionScanDest(&s, &reason, &lastAt)...); err != nil {
			return nil, fmt.Errorf("scan occupied session: %w", err)
		}
		setEndReason(&s, reason)
		result = append(result, OccupiedSession{Session: s, LastMessageAt: lastAt})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []OccupiedSession{}
	}
	return result, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new session in the requested state.
// The partial unique index on live sessions per user surfaces as
// domain.ErrAlreadyExists when the seeker already holds one.
func (r *Repo) Create(ctx context.Context, s *domain.Session) (*domain.Session, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := q.QueryRow(ctx, createSQL,
		s.ID,
		s.UserID,
		string(s.Topic),
		s.Description,
		s.Priority,
		now,
	)

	created, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "session", s.ID)
	}
	return created, nil
}

// Assign moves a requested session to matched with the given counselor.
// Conditional on status = 'requested': a concurrent assignment or
// cancellation makes this a no-op surfaced as domain.ErrNotFound.
func (r *Repo) Assign(ctx context.Context, sessionID, counselorID uuid.UUID) (*domain.Session, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := q.QueryRow(ctx, assignSQL, sessionID, counselorID, now)

	matched, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "session", sessionID)
	}
	return matched, nil
}

// Release returns a matched or active session to the queue, clearing the
// counselor assignment. Returns domain.ErrNotFound when the session is in
// neither state.
func (r *Repo) Release(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	row := q.QueryRow(ctx, releaseSQL, sessionID)

	released, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "session", sessionID)
	}
	return released, nil
}

// Start moves a matched session to active.
// Returns domain.ErrNotFound when the session is not matched.
func (r *Repo) Start(ctx context.Context, sessionID uuid.UUID) (*domain.Session, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := q.QueryRow(ctx, startSQL, sessionID, now)

	started, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "session", sessionID)
	}
	return started, nil
}

// End terminates a non-terminal session with the given reason.
// Returns domain.ErrAlreadyEnded when the session is already terminal, so
// callers can treat repeat ends as idempotent no-ops without touching
// counters.
func (r *Repo) End(ctx context.Context, sessionID uuid.UUID, reason domain.EndReason) (*domain.SessionEnd, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	var (
		userID      uuid.UUID
		counselorID *uuid.UUID
		startedAt   *time.Time
	)
	err := q.QueryRow(ctx, endSQL, sessionID, now, string(reason)).Scan(&userID, &counselorID, &startedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either missing or already terminal; disambiguate for the caller.
		if _, getErr := r.GetByID(ctx, sessionID); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrAlreadyEnded)
	}
	if err != nil {
		return nil, postgres.MapError(err, "session", sessionID)
	}

	return &domain.SessionEnd{UserID: userID, CounselorID: counselorID, WasStarted: startedAt != nil}, nil
}

// Rate stores the seeker's 1–5 rating and optional feedback on an ended
// session. Returns domain.ErrNotFound when the session is missing or not
// yet ended.
func (r *Repo) Rate(ctx context.Context, sessionID uuid.UUID, stars int, feedback *string) error {
	q := postgres.QuerierFrom(ctx, r.db)

	ct, err := q.Exec(ctx, rateSQL, sessionID, stars, feedback)
	if err != nil {
		return postgres.MapError(err, "session", sessionID)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return nil
}

// DeleteEndedBefore removes terminal sessions older than the cutoff.
// Messages cascade via the foreign key. Returns the number of sessions removed.
func (r *Repo) DeleteEndedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	ct, err := q.Exec(ctx, deleteEndedBeforeSQL, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete ended sessions: %w", err)
	}
	return int(ct.RowsAffected()), nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

// sessionScanDest returns scan destinations for sessionColumns, with an
// optional trailing destination for joined columns. The nullable end_reason
// column scans through a plain string pointer; callers convert it with
// setEndReason after a successful scan.
func sessionScanDest(s *domain.Session, reason **string, extra ...any) []any {
	dest := []any{
		&s.ID,
		&s.UserID,
		&s.CounselorID,
		(*string)(&s.Topic),
		&s.Description,
		&s.Priority,
		(*string)(&s.Status),
		&s.CreatedAt,
		&s.MatchedAt,
		&s.StartedAt,
		&s.EndedAt,
		reason,
		&s.Rating,
		&s.Feedback,
	}
	return append(dest, extra...)
}

func setEndReason(s *domain.Session, reason *string) {
	if reason == nil {
		return
	}
	r := domain.EndReason(*reason)
	s.EndReason = &r
}

// scanSession scans a single session row from pgx.Row.
func scanSession(row pgx.Row) (*domain.Session, error) {
	var (
		s      domain.Session
		reason *string
	)
	if err := row.Scan(sessionScanDest(&s, &reason)...); err != nil {
		return nil, err
	}
	setEndReason(&s, reason)
	return &s, nil
}

// scanSessions scans multiple session rows into a []*domain.Session slice.
func scanSessions(rows pgx.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		var (
			s      domain.Session
			reason *string
		)
		if err := rows.Scan(sessionScanDest(&s, &reason)...); err != nil {
			return nil, err
		}
		setEndReason(&s, reason)
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if sessions == nil {
		sessions = []*domain.Session{}
	}
	return sessions, nil
}
