package session

import (
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

const (
	maxDescriptionLen = 2000
	maxFeedbackLen    = 1000
	maxMessageLen     = 4000
)

// CreateInput holds parameters for the session request operation.
type CreateInput struct {
	UserID      uuid.UUID
	Topic       domain.Topic
	Description *string
}

// Validate validates the create input.
func (i CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}

	if i.Topic == "" {
		errs = append(errs, domain.FieldError{Field: "topic", Message: "required"})
	} else if !i.Topic.IsValid() {
		errs = append(errs, domain.FieldError{Field: "topic", Message: "unknown topic"})
	}

	if i.Description != nil && utf8.RuneCountInString(*i.Description) > maxDescriptionLen {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RecordMessageInput holds parameters for the message relay operation.
type RecordMessageInput struct {
	SessionID  uuid.UUID
	SenderRole domain.SenderRole
	SenderID   uuid.UUID
	Text       string
}

// Validate validates the record-message input.
func (i RecordMessageInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	if !i.SenderRole.IsValid() {
		errs = append(errs, domain.FieldError{Field: "sender_role", Message: "unknown role"})
	}
	if i.SenderID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "sender_id", Message: "required"})
	}

	if i.Text == "" {
		errs = append(errs, domain.FieldError{Field: "text", Message: "required"})
	} else if utf8.RuneCountInString(i.Text) > maxMessageLen {
		errs = append(errs, domain.FieldError{Field: "text", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RateInput holds parameters for the session rating operation.
type RateInput struct {
	SessionID uuid.UUID
	UserID    uuid.UUID
	Stars     int
	Feedback  *string
}

// Validate validates the rate input.
func (i RateInput) Validate() error {
	var errs []domain.FieldError

	if i.SessionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "session_id", Message: "required"})
	}
	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}

	if i.Stars < 1 || i.Stars > 5 {
		errs = append(errs, domain.FieldError{Field: "stars", Message: "must be between 1 and 5"})
	}

	if i.Feedback != nil && utf8.RuneCountInString(*i.Feedback) > maxFeedbackLen {
		errs = append(errs, domain.FieldError{Field: "feedback", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
