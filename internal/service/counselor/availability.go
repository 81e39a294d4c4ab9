package counselor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// SetAvailability flips whether an approved counselor accepts new matches.
// Becoming available immediately drains the pending queue so waiting
// seekers are not held until the next sweeper tick.
func (s *Service) SetAvailability(ctx context.Context, counselorID uuid.UUID, available bool) error {
	c, err := s.counselors.GetByID(ctx, counselorID)
	if err != nil {
		return err
	}
	if c.Status != domain.CounselorStatusApproved {
		return fmt.Errorf("counselor %s is %s: %w", counselorID, c.Status, domain.ErrConflict)
	}

	if err := s.counselors.SetAvailability(ctx, counselorID, available); err != nil {
		return err
	}

	s.log.Info("availability changed",
		slog.String("counselor_id", counselorID.String()),
		slog.Bool("available", available),
	)

	if available {
		matched, err := s.match.MatchPending(ctx)
		if err != nil {
			s.log.Warn("queue drain after availability flip failed", slog.Any("error", err))
			return nil
		}
		if matched > 0 {
			s.log.Info("queue drained", slog.Int("matched", matched))
		}
	}
	return nil
}

// UpdateProfile applies a partial profile edit.
func (s *Service) UpdateProfile(ctx context.Context, input UpdateProfileInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	if err := s.counselors.UpdateProfile(ctx, input.CounselorID, input.Params); err != nil {
		return err
	}

	s.log.Info("profile updated", slog.String("counselor_id", input.CounselorID.String()))
	return nil
}
