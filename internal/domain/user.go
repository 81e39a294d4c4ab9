package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an anonymous help-seeker identity. Created on first contact,
// never deleted; moderation sets the Banned flag instead.
type User struct {
	ID            uuid.UUID
	ChatID        int64
	Gender        Gender
	Banned        bool
	TotalSessions int
	CreatedAt     time.Time
	LastActive    time.Time
}

// Stats holds the aggregate counters maintained alongside state transitions.
type Stats struct {
	TotalSessions     int
	ActiveSessions    int
	CompletedSessions int
	TotalCounselors   int
	ActiveCounselors  int
}

// Counter names as stored in the stats table.
const (
	StatTotalSessions     = "total_sessions"
	StatActiveSessions    = "active_sessions"
	StatCompletedSessions = "completed_sessions"
	StatTotalCounselors   = "total_counselors"
	StatActiveCounselors  = "active_counselors"
)
