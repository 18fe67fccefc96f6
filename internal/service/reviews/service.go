// Package reviews implements the double-blind review protocol: submission,
// mutual-reveal gating, and the expiry sweep.
package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rentloop/gamification/internal/apperrors"
	prommetrics "github.com/rentloop/gamification/internal/metrics"
	"github.com/rentloop/gamification/internal/models"
	"github.com/rentloop/gamification/internal/repository"
	"github.com/rentloop/gamification/pkg/logger"
)

// LeaseRepository interface for lease lookups.
type LeaseRepository interface {
	GetByID(id uint) (*models.Lease, error)
}

// ReviewRepository interface for review persistence and reveal transitions.
type ReviewRepository interface {
	CreateAndMaybeReveal(review *models.Review) ([]models.Review, error)
	FindVisibleByTarget(targetID uint) ([]models.Review, error)
	LeaseIDsWithPendingSince(cutoff time.Time) ([]uint, error)
	ExpirePendingByLeases(leaseIDs []uint, now time.Time) (int64, error)
}

// SubmitInput carries a review submission.
type SubmitInput struct {
	LeaseID                uint
	AuthorID               uint
	Rating                 float64
	Criteria               map[string]float64
	Comment                string
	DepositReturned        *bool
	DepositReturnedPercent *float64
}

// SubmitResult is the outcome of a submission.
type SubmitResult struct {
	Review *models.Review
	// Revealed holds both reviews of the lease when this submission was the
	// second of the pair and triggered the mutual reveal; nil while the
	// review stays pending.
	Revealed []models.Review
}

// Service orchestrates the double-blind review protocol.
type Service struct {
	leaseRepo   LeaseRepository
	reviewRepo  ReviewRepository
	revealDelay time.Duration
	log         *logger.Logger
}

// NewService creates a new review service with concrete repository types.
func NewService(
	leaseRepo *repository.LeaseRepository,
	reviewRepo *repository.ReviewRepository,
	revealDelay time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		leaseRepo:   leaseRepo,
		reviewRepo:  reviewRepo,
		revealDelay: revealDelay,
		log:         log,
	}
}

// NewServiceWithInterfaces creates a new review service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	leaseRepo LeaseRepository,
	reviewRepo ReviewRepository,
	revealDelay time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		leaseRepo:   leaseRepo,
		reviewRepo:  reviewRepo,
		revealDelay: revealDelay,
		log:         log,
	}
}

// Submit validates and stores a review. The review starts pending and stays
// invisible to everyone; if the counterpart review already exists, both flip
// to revealed atomically with a shared timestamp.
//
//nolint:revive // ctx reserved for future context-aware repository calls
func (s *Service) Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	lease, err := s.leaseRepo.GetByID(input.LeaseID)
	if err != nil {
		return nil, err
	}
	if lease.Status != models.LeaseStatusEnded {
		return nil, fmt.Errorf("lease %d is %s, reviews require an ended lease: %w",
			lease.ID, lease.Status, apperrors.ErrInvalidState)
	}

	// Only the two legitimate parties may review, and each reviews the other.
	var targetID uint
	switch input.AuthorID {
	case lease.OwnerID():
		targetID = lease.TenantID
	case lease.TenantID:
		targetID = lease.OwnerID()
	default:
		return nil, fmt.Errorf("user %d is not a party to lease %d: %w",
			input.AuthorID, lease.ID, apperrors.ErrForbidden)
	}

	criteria, err := json.Marshal(input.Criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to encode criteria: %w", err)
	}

	review := &models.Review{
		LeaseID:                input.LeaseID,
		AuthorID:               input.AuthorID,
		TargetID:               targetID,
		Rating:                 input.Rating,
		Criteria:               criteria,
		Comment:                input.Comment,
		DepositReturned:        input.DepositReturned,
		DepositReturnedPercent: input.DepositReturnedPercent,
		Status:                 models.ReviewStatusPending,
		SubmittedAt:            time.Now().UTC(),
	}

	revealed, err := s.reviewRepo.CreateAndMaybeReveal(review)
	if err != nil {
		return nil, err
	}

	prommetrics.ReviewsSubmittedTotal.Inc()
	if len(revealed) > 0 {
		prommetrics.RecordReviewsRevealed(prommetrics.RevealModeMutual, len(revealed))
	}

	s.log.Info().
		Uint("lease_id", input.LeaseID).
		Uint("author_id", input.AuthorID).
		Uint("target_id", targetID).
		Bool("revealed", len(revealed) > 0).
		Msg("Review submitted")

	return &SubmitResult{Review: review, Revealed: revealed}, nil
}

// RevealExpired flips to expired every pending review on leases where at
// least one review has been pending for the full reveal delay. This keeps
// reviews from staying hidden forever when one party never reciprocates.
// Returns the number of reviews flipped.
//
//nolint:revive // ctx reserved for future context-aware repository calls
func (s *Service) RevealExpired(ctx context.Context, now time.Time) (int64, error) {
	start := time.Now()
	cutoff := now.Add(-s.revealDelay)

	leaseIDs, err := s.reviewRepo.LeaseIDsWithPendingSince(cutoff)
	if err != nil {
		return 0, err
	}
	if len(leaseIDs) == 0 {
		return 0, nil
	}

	expired, err := s.reviewRepo.ExpirePendingByLeases(leaseIDs, now)
	if err != nil {
		return 0, err
	}

	prommetrics.RecordReviewsRevealed(prommetrics.RevealModeExpired, int(expired))
	prommetrics.SweepDurationSeconds.Observe(time.Since(start).Seconds())

	s.log.Info().
		Int("leases", len(leaseIDs)).
		Int64("reviews_expired", expired).
		Msg("Review expiry sweep complete")

	return expired, nil
}

// ListForTarget returns the revealed reviews about a user. Pending reviews
// never pass this read path.
//
//nolint:revive // ctx reserved for future context-aware repository calls
func (s *Service) ListForTarget(ctx context.Context, targetID uint) ([]models.Review, error) {
	return s.reviewRepo.FindVisibleByTarget(targetID)
}

// validateInput rejects malformed submissions before touching storage.
func validateInput(input *SubmitInput) error {
	if input.Rating < 0 || input.Rating > 5 {
		return fmt.Errorf("rating %.2f outside [0,5]: %w", input.Rating, apperrors.ErrValidation)
	}
	for name, score := range input.Criteria {
		if score < 0 || score > 5 {
			return fmt.Errorf("criteria %q score %.2f outside [0,5]: %w", name, score, apperrors.ErrValidation)
		}
	}
	if input.DepositReturnedPercent != nil {
		if *input.DepositReturnedPercent < 0 || *input.DepositReturnedPercent > 100 {
			return fmt.Errorf("deposit returned percent %.2f outside [0,100]: %w",
				*input.DepositReturnedPercent, apperrors.ErrValidation)
		}
	}
	return nil
}
