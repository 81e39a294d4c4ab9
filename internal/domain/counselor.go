package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxSpecializations bounds the size of a counselor's specialization set.
const MaxSpecializations = 5

// Counselor is a volunteer identity owned 1:1 by a User.
type Counselor struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	DisplayName     string
	Bio             *string
	Gender          Gender
	Specializations []Topic
	Status          CounselorStatus
	Available       bool
	TotalSessions   int
	RatingSum       int
	RatingCount     int
	ApprovedBy      *uuid.UUID
	ApprovedAt      *time.Time
	CreatedAt       time.Time
}

// AverageRating returns the mean star rating, or 0 when unrated.
func (c *Counselor) AverageRating() float64 {
	if c.RatingCount == 0 {
		return 0
	}
	return float64(c.RatingSum) / float64(c.RatingCount)
}

// Specializes reports whether the counselor lists the topic.
func (c *Counselor) Specializes(topic Topic) bool {
	for _, s := range c.Specializations {
		if s == topic {
			return true
		}
	}
	return false
}

// PrimarySpecialization returns the first listed specialization, the
// counselor's declared primary expertise.
func (c *Counselor) PrimarySpecialization() (Topic, bool) {
	if len(c.Specializations) == 0 {
		return "", false
	}
	return c.Specializations[0], true
}

// Matchable reports whether the counselor may receive new assignments,
// ignoring the concurrency cap (checked against the store at match time).
func (c *Counselor) Matchable() bool {
	return c.Status == CounselorStatusApproved && c.Available
}

// CounselorUpdateParams holds optional profile fields for partial updates.
type CounselorUpdateParams struct {
	DisplayName     *string
	Bio             *string
	Specializations []Topic
}
