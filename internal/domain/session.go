package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is one counseling engagement from request to termination.
//
// Invariants: CounselorID is always set while Status is matched or active
// and never while requested; ended sessions keep it for rating and history.
// A seeker holds at most one live session; a counselor holds at most the
// configured cap of sessions in {matched, active}.
type Session struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	CounselorID *uuid.UUID
	Topic       Topic
	Description *string
	Priority    int
	Status      SessionStatus
	CreatedAt   time.Time
	MatchedAt   *time.Time
	StartedAt   *time.Time
	EndedAt     *time.Time
	EndReason   *EndReason
	Rating      *int
	Feedback    *string
}

// IsTerminal reports whether the session can never transition again.
func (s *Session) IsTerminal() bool {
	return s.Status == SessionStatusEnded
}

// LastActivity returns the reference time used by the timeout sweeper when
// the session has no messages: started_at, then matched_at. The boolean is
// false when the session carries no time reference at all, which violates
// the lifecycle invariants and is treated as an integrity warning upstream.
func (s *Session) LastActivity(lastMessageAt *time.Time) (time.Time, bool) {
	switch {
	case lastMessageAt != nil:
		return *lastMessageAt, true
	case s.StartedAt != nil:
		return *s.StartedAt, true
	case s.MatchedAt != nil:
		return *s.MatchedAt, true
	}
	return time.Time{}, false
}

// SessionEnd reports the parties of a just-ended session so callers can
// adjust counters and notify without re-reading the row.
type SessionEnd struct {
	UserID      uuid.UUID
	CounselorID *uuid.UUID
	WasStarted  bool
}

// Message is an append-only chat record belonging to exactly one session.
type Message struct {
	ID         uuid.UUID
	SessionID  uuid.UUID
	SenderRole SenderRole
	SenderID   uuid.UUID
	Text       string
	CreatedAt  time.Time
}
