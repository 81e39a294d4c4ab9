package domain

// SessionStatus represents the lifecycle state of a counseling session.
// Transitions: REQUESTED → MATCHED → ACTIVE → ENDED. A MATCHED session may
// return to REQUESTED (decline, transfer, reassignment). ENDED is terminal.
type SessionStatus string

const (
	SessionStatusRequested SessionStatus = "requested"
	SessionStatusMatched   SessionStatus = "matched"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusEnded     SessionStatus = "ended"
)

func (s SessionStatus) String() string { return string(s) }

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusRequested, SessionStatusMatched, SessionStatusActive, SessionStatusEnded:
		return true
	}
	return false
}

// IsLive reports whether the session still occupies seeker or counselor
// capacity (any non-terminal state).
func (s SessionStatus) IsLive() bool {
	return s == SessionStatusRequested || s == SessionStatusMatched || s == SessionStatusActive
}

// Occupied reports whether the session counts toward a counselor's
// concurrency cap.
func (s SessionStatus) Occupied() bool {
	return s == SessionStatusMatched || s == SessionStatusActive
}

// EndReason records why a session reached the ENDED state.
type EndReason string

const (
	EndReasonCompleted     EndReason = "completed"
	EndReasonUserEnded     EndReason = "user_ended"
	EndReasonUserCancelled EndReason = "user_cancelled"
	EndReasonTimeout       EndReason = "timeout"
)

func (r EndReason) String() string { return string(r) }

func (r EndReason) IsValid() bool {
	switch r {
	case EndReasonCompleted, EndReasonUserEnded, EndReasonUserCancelled, EndReasonTimeout:
		return true
	}
	return false
}

// CounselorStatus represents the lifecycle state of a counselor account.
// PENDING → APPROVED | REJECTED; APPROVED ↔ DEACTIVATED; any → BANNED.
type CounselorStatus string

const (
	CounselorStatusPending     CounselorStatus = "pending"
	CounselorStatusApproved    CounselorStatus = "approved"
	CounselorStatusRejected    CounselorStatus = "rejected"
	CounselorStatusDeactivated CounselorStatus = "deactivated"
	CounselorStatusBanned      CounselorStatus = "banned"
)

func (s CounselorStatus) String() string { return string(s) }

func (s CounselorStatus) IsValid() bool {
	switch s {
	case CounselorStatusPending, CounselorStatusApproved, CounselorStatusRejected,
		CounselorStatusDeactivated, CounselorStatusBanned:
		return true
	}
	return false
}

// SenderRole identifies which side of a session authored a message.
type SenderRole string

const (
	SenderRoleUser      SenderRole = "user"
	SenderRoleCounselor SenderRole = "counselor"
)

func (r SenderRole) String() string { return string(r) }

func (r SenderRole) IsValid() bool {
	return r == SenderRoleUser || r == SenderRoleCounselor
}

// Gender is the optional display gender of a seeker or counselor.
// Anonymity is the default; this is display metadata only.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderAnonymous Gender = "anonymous"
)

func (g Gender) String() string { return string(g) }

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderAnonymous
}
