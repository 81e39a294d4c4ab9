package counselor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/notify"
)

// Approve accepts a pending application and opens the counselor for
// matching once they flip themselves available.
func (s *Service) Approve(ctx context.Context, counselorID, moderatorID uuid.UUID) error {
	c, err := s.counselors.GetByID(ctx, counselorID)
	if err != nil {
		return err
	}
	if c.Status != domain.CounselorStatusPending {
		return fmt.Errorf("counselor %s is %s: %w", counselorID, c.Status, domain.ErrConflict)
	}

	if err := s.counselors.SetStatus(ctx, counselorID, domain.CounselorStatusApproved, &moderatorID, s.now()); err != nil {
		return err
	}

	s.bumpStat(ctx, domain.StatTotalCounselors, 1)
	s.bumpStat(ctx, domain.StatActiveCounselors, 1)

	s.log.Info("counselor approved",
		slog.String("counselor_id", counselorID.String()),
		slog.String("moderator_id", moderatorID.String()),
	)
	s.notifyCounselor(ctx, c, notify.KindCounselorApproved, map[string]any{
		"counselor_id": counselorID.String(),
	})
	return nil
}

// Reject declines a pending application.
func (s *Service) Reject(ctx context.Context, counselorID, moderatorID uuid.UUID) error {
	c, err := s.counselors.GetByID(ctx, counselorID)
	if err != nil {
		return err
	}
	if c.Status != domain.CounselorStatusPending {
		return fmt.Errorf("counselor %s is %s: %w", counselorID, c.Status, domain.ErrConflict)
	}

	if err := s.counselors.SetStatus(ctx, counselorID, domain.CounselorStatusRejected, nil, s.now()); err != nil {
		return err
	}

	s.log.Info("counselor rejected",
		slog.String("counselor_id", counselorID.String()),
		slog.String("moderator_id", moderatorID.String()),
	)
	s.notifyCounselor(ctx, c, notify.KindCounselorRejected, map[string]any{
		"counselor_id": counselorID.String(),
	})
	return nil
}

// Deactivate takes an approved counselor out of service. Their live
// sessions run to completion; no new matches reach them.
func (s *Service) Deactivate(ctx context.Context, counselorID uuid.UUID) error {
	c, err := s.counselors.GetByID(ctx, counselorID)
	if err != nil {
		return err
	}
	if c.Status != domain.CounselorStatusApproved {
		return fmt.Errorf("counselor %s is %s: %w", counselorID, c.Status, domain.ErrConflict)
	}

	if err := s.counselors.SetStatus(ctx, counselorID, domain.CounselorStatusDeactivated, nil, s.now()); err != nil {
		return err
	}
	if err := s.counselors.SetAvailability(ctx, counselorID, false); err != nil {
		return err
	}

	s.bumpStat(ctx, domain.StatActiveCounselors, -1)

	s.log.Info("counselor deactivated", slog.String("counselor_id", counselorID.String()))
	return nil
}

// Reactivate returns a deactivated counselor to the approved pool. They
// come back unavailable and opt in again themselves.
func (s *Service) Reactivate(ctx context.Context, counselorID uuid.UUID) error {
	c, err := s.counselors.GetByID(ctx, counselorID)
	if err != nil {
		return err
	}
	if c.Status != domain.CounselorStatusDeactivated {
		return fmt.Errorf("counselor %s is %s: %w", counselorID, c.Status, domain.ErrConflict)
	}

	if err := s.counselors.SetStatus(ctx, counselorID, domain.CounselorStatusApproved, c.ApprovedBy, s.now()); err != nil {
		return err
	}

	s.bumpStat(ctx, domain.StatActiveCounselors, 1)

	s.log.Info("counselor reactivated", slog.String("counselor_id", counselorID.String()))
	return nil
}

// Ban permanently removes a counselor from service and bans the owning
// user account.
func (s *Service) Ban(ctx context.Context, counselorID uuid.UUID) error {
	c, err := s.counselors.GetByID(ctx, counselorID)
	if err != nil {
		return err
	}
	if c.Status == domain.CounselorStatusBanned {
		return nil
	}
	wasActive := c.Status == domain.CounselorStatusApproved

	if err := s.counselors.SetStatus(ctx, counselorID, domain.CounselorStatusBanned, nil, s.now()); err != nil {
		return err
	}
	if err := s.counselors.SetAvailability(ctx, counselorID, false); err != nil {
		return err
	}
	if err := s.users.SetBanned(ctx, c.UserID, true); err != nil {
		return fmt.Errorf("ban owning user: %w", err)
	}

	if wasActive {
		s.bumpStat(ctx, domain.StatActiveCounselors, -1)
	}

	s.log.Info("counselor banned",
		slog.String("counselor_id", counselorID.String()),
		slog.String("user_id", c.UserID.String()),
	)
	return nil
}

// Delete removes a counselor identity entirely. Refused while the
// counselor holds live sessions; ended session history blocks deletion at
// the store level.
func (s *Service) Delete(ctx context.Context, counselorID uuid.UUID) error {
	occupied, err := s.sessions.CountOccupiedByCounselor(ctx, counselorID)
	if err != nil {
		return err
	}
	if occupied > 0 {
		return fmt.Errorf("counselor %s holds %d live sessions: %w", counselorID, occupied, domain.ErrConflict)
	}

	if err := s.counselors.Delete(ctx, counselorID); err != nil {
		return err
	}

	s.log.Info("counselor deleted", slog.String("counselor_id", counselorID.String()))
	return nil
}
