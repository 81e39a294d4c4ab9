package counselor

import (
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

const (
	maxDisplayNameLen = 100
	maxBioLen         = 1000
)

// RegisterInput holds parameters for the counselor application operation.
type RegisterInput struct {
	UserID          uuid.UUID
	DisplayName     string
	Bio             *string
	Gender          domain.Gender
	Specializations []domain.Topic
}

// Validate validates the register input.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	if i.UserID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "user_id", Message: "required"})
	}

	if i.DisplayName == "" {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: "required"})
	} else if utf8.RuneCountInString(i.DisplayName) > maxDisplayNameLen {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: "too long"})
	}

	if i.Bio != nil && utf8.RuneCountInString(*i.Bio) > maxBioLen {
		errs = append(errs, domain.FieldError{Field: "bio", Message: "too long"})
	}

	if i.Gender != "" && !i.Gender.IsValid() {
		errs = append(errs, domain.FieldError{Field: "gender", Message: "unknown gender"})
	}

	errs = append(errs, validateSpecializations(i.Specializations)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// UpdateProfileInput holds parameters for the profile update operation.
type UpdateProfileInput struct {
	CounselorID uuid.UUID
	Params      domain.CounselorUpdateParams
}

// Validate validates the update input.
func (i UpdateProfileInput) Validate() error {
	var errs []domain.FieldError

	if i.CounselorID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "counselor_id", Message: "required"})
	}

	if i.Params.DisplayName != nil {
		if *i.Params.DisplayName == "" {
			errs = append(errs, domain.FieldError{Field: "display_name", Message: "required"})
		} else if utf8.RuneCountInString(*i.Params.DisplayName) > maxDisplayNameLen {
			errs = append(errs, domain.FieldError{Field: "display_name", Message: "too long"})
		}
	}

	if i.Params.Bio != nil && utf8.RuneCountInString(*i.Params.Bio) > maxBioLen {
		errs = append(errs, domain.FieldError{Field: "bio", Message: "too long"})
	}

	if i.Params.Specializations != nil {
		errs = append(errs, validateSpecializations(i.Params.Specializations)...)
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validateSpecializations(specs []domain.Topic) []domain.FieldError {
	var errs []domain.FieldError

	if len(specs) == 0 {
		errs = append(errs, domain.FieldError{Field: "specializations", Message: "at least one required"})
		return errs
	}
	if len(specs) > domain.MaxSpecializations {
		errs = append(errs, domain.FieldError{Field: "specializations", Message: "too many"})
	}

	seen := make(map[domain.Topic]struct{}, len(specs))
	for _, t := range specs {
		if !t.IsValid() {
			errs = append(errs, domain.FieldError{Field: "specializations", Message: "unknown topic " + string(t)})
			continue
		}
		if _, dup := seen[t]; dup {
			errs = append(errs, domain.FieldError{Field: "specializations", Message: "duplicate topic " + string(t)})
		}
		seen[t] = struct{}{}
	}
	return errs
}
