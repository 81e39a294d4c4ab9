// Package matching selects the best counselor for a session request using
// a deterministic additive score over specialization fit, load, rating
// quality, experience, and crisis readiness.
package matching

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/config"
	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type counselorRepo interface {
	ListCandidates(ctx context.Context, topic *domain.Topic, capacity int) ([]*domain.Counselor, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the matching logic.
type Service struct {
	log        *slog.Logger
	counselors counselorRepo
	cfg        config.MatchingConfig
}

// NewService creates a new Matching service.
func NewService(logger *slog.Logger, counselors counselorRepo, cfg config.MatchingConfig) *Service {
	return &Service{
		log:        logger.With("service", "matching"),
		counselors: counselors,
		cfg:        cfg,
	}
}

// FindBestMatch returns the highest-scoring candidate for the session,
// skipping the excluded counselor if any. Candidates arrive ordered by
// lifetime session count ascending, so score ties resolve toward the
// least-experienced counselor.
// Returns domain.ErrNotFound when no candidate is available.
func (s *Service) FindBestMatch(ctx context.Context, session *domain.Session, exclude *uuid.UUID) (*domain.Counselor, error) {
	candidates, err := s.counselors.ListCandidates(ctx, nil, s.cfg.CounselorCap)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	var (
		best      *domain.Counselor
		bestScore float64
	)
	for _, c := range candidates {
		if exclude != nil && c.ID == *exclude {
			continue
		}
		score := Score(c, session.Topic, session.Priority)
		if best == nil || score > bestScore {
			best = c
			bestScore = score
		}
	}

	if best == nil {
		return nil, fmt.Errorf("session %s: no available counselor: %w", session.ID, domain.ErrNotFound)
	}

	s.log.Info("matched counselor",
		slog.String("session_id", session.ID.String()),
		slog.String("counselor_id", best.ID.String()),
		slog.String("topic", string(session.Topic)),
		slog.Int("priority", session.Priority),
		slog.Float64("score", bestScore),
	)
	return best, nil
}

// Score rates how well a counselor fits a session request. Pure and
// deterministic; equal inputs always produce equal scores.
func Score(c *domain.Counselor, topic domain.Topic, priority int) float64 {
	var score float64

	// Specialization fit, up to 50.
	if c.Specializes(topic) {
		score += 40
		if primary, ok := c.PrimarySpecialization(); ok && primary == topic {
			score += 10
		}
	} else if c.Specializes(domain.TopicGeneral) {
		score += 20
	}

	// Load balancing, up to 20. New counselors take priority.
	if c.TotalSessions == 0 {
		score += 20
	} else {
		score += max(0, 20-float64(c.TotalSessions)*0.5)
	}

	// Rating quality, up to 20; unrated counselors sit at the midpoint.
	if c.RatingCount > 0 {
		score += c.AverageRating() / 5.0 * 20
	} else {
		score += 12
	}

	// Experience bonus, up to 10.
	if c.TotalSessions >= 5 {
		score += min(10, float64(c.TotalSessions)*0.5)
	}

	// Crisis readiness bonus.
	if priority >= domain.PriorityCrisis {
		if c.Specializes(domain.TopicCrisis) || c.Specializes(domain.TopicMentalHealth) {
			score += 10
		}
	}

	return score
}
