// Package stats implements the aggregate counter repository using PostgreSQL.
package stats

import (
	"context"
	"fmt"
	"time"

	postgres "github.com/ApexAppLabs/hu-counseling-bot/internal/adapter/postgres"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// Repo provides counter persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new stats repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

const addSQL = `
INSERT INTO bot_stats (stat_name, stat_value, updated_at)
VALUES ($1, greatest($2, 0), $3)
ON CONFLICT (stat_name) DO UPDATE
SET stat_value = greatest(bot_stats.stat_value + $2, 0), updated_at = $3`

const getAllSQL = `
SELECT stat_name, stat_value
FROM bot_stats`

// Add applies a signed delta to the named counter, creating it on first
// use. Counters are floored at zero so a missed increment can never drive
// a gauge negative.
func (r *Repo) Add(ctx context.Context, name string, delta int) error {
	q := postgres.QuerierFrom(ctx, r.db)

	now := time.Now().UTC().Truncate(time.Microsecond)

	if _, err := q.Exec(ctx, addSQL, name, delta, now); err != nil {
		return fmt.Errorf("update stat %s: %w", name, err)
	}
	return nil
}

// Get returns the current counter snapshot.
func (r *Repo) Get(ctx context.Context) (*domain.Stats, error) {
	q := postgres.QuerierFrom(ctx, r.db)

	rows, err := q.Query(ctx, getAllSQL)
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	defer rows.Close()

	var s domain.Stats
	for rows.Next() {
		var (
			name  string
			value int
		)
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan stat row: %w", err)
		}
		switch name {
		case domain.StatTotalSessions:
			s.TotalSessions = value
		case domain.StatActiveSessions:
			s.ActiveSessions = value
		case domain.StatCompletedSessions:
			s.CompletedSessions = value
		case domain.StatTotalCounselors:
			s.TotalCounselors = value
		case domain.StatActiveCounselors:
			s.ActiveCounselors = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}
