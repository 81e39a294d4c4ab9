// Package message implements the session message repository using PostgreSQL.
package message

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// Repo provides message persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new message repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const messageColumns = `id, session_id, sender_role, sender_id, message_text, created_at`

const appendSQL = `
INSERT INTO session_messages (id, session_id, sender_role, sender_id, message_text, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + messageColumns

const listBySessionSQL = `
SELECT ` + messageColumns + `
FROM session_messages
WHERE session_id = $1
ORDER BY created_at ASC`

// Append stores a relayed message. A missing session surfaces as
// domain.ErrNotFound via the foreign key.
func (r *Repo) Append(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	row := q.QueryRow(ctx, appendSQL,
		m.ID,
		m.SessionID,
		string(m.SenderRole),
		m.SenderID,
		m.Text,
		now,
	)

	stored, err := scanMessage(row)
	if err != nil {
		return nil, postgres.MapError(err, "message", m.ID)
	}
	return stored, nil
}

// ListBySession returns the session transcript in chronological order.
func (r *Repo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Message, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, listBySessionSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list session messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if messages == nil {
		messages = []*domain.Message{}
	}
	return messages, nil
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(
		&m.ID,
		&m.SessionID,
		(*string)(&m.SenderRole),
		&m.SenderID,
		&m.Text,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
