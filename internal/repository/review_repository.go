package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rentloop/gamification/internal/apperrors"
	"github.com/rentloop/gamification/internal/models"
)

// ReviewRepository handles review-related database operations, including the
// double-blind reveal transition.
type ReviewRepository struct {
	db *DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// CreateAndMaybeReveal inserts a pending review and, when the counterpart
// review for the same lease already exists, flips both to revealed with a
// shared revealed_at timestamp. The whole sequence runs in one transaction
// serialized on the lease row, so two submissions racing to be "the second"
// cannot double-reveal or leave the lease stuck pending.
//
// Returns the revealed pair when the reveal fired, nil while the review
// stays pending.
func (r *ReviewRepository) CreateAndMaybeReveal(review *models.Review) ([]models.Review, error) {
	var pair []models.Review

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Serialization point: lock the lease row for the duration of the
		// check-counterpart-then-flip sequence. SQLite (tests) has no row
		// locks; its single-writer transactions serialize anyway.
		leaseQuery := tx
		if tx.Dialector.Name() == "postgres" {
			leaseQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var lease models.Lease
		if err := leaseQuery.First(&lease, review.LeaseID).Error; err != nil {
			return fmt.Errorf("failed to lock lease %d: %w", review.LeaseID, err)
		}

		// Uniqueness on {lease, author}; the unique index is the backstop.
		var existing int64
		if err := tx.Model(&models.Review{}).
			Where("lease_id = ? AND author_id = ?", review.LeaseID, review.AuthorID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check for existing review: %w", err)
		}
		if existing > 0 {
			return fmt.Errorf("review for lease %d by author %d: %w",
				review.LeaseID, review.AuthorID, apperrors.ErrConflict)
		}

		if err := tx.Create(review).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		// The counterpart is the review authored by this review's target.
		var counterpart int64
		if err := tx.Model(&models.Review{}).
			Where("lease_id = ? AND author_id = ? AND status = ?",
				review.LeaseID, review.TargetID, models.ReviewStatusPending).
			Count(&counterpart).Error; err != nil {
			return fmt.Errorf("failed to check for counterpart review: %w", err)
		}
		if counterpart == 0 {
			return nil
		}

		// Both sides exist: flip every pending review on the lease together.
		now := time.Now().UTC()
		result := tx.Model(&models.Review{}).
			Where("lease_id = ? AND status = ?", review.LeaseID, models.ReviewStatusPending).
			Updates(map[string]interface{}{
				"status":      models.ReviewStatusRevealed,
				"revealed_at": now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to reveal reviews for lease %d: %w", review.LeaseID, result.Error)
		}

		if err := tx.Where("lease_id = ? AND status = ?", review.LeaseID, models.ReviewStatusRevealed).
			Order("submitted_at ASC").
			Find(&pair).Error; err != nil {
			return fmt.Errorf("failed to load revealed pair for lease %d: %w", review.LeaseID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(pair) > 0 {
		// Reflect the flip on the caller's copy.
		for i := range pair {
			if pair[i].ID == review.ID {
				review.Status = pair[i].Status
				review.RevealedAt = pair[i].RevealedAt
			}
		}
	}
	return pair, nil
}

// FindVisibleByTarget retrieves all revealed or expired reviews about a user.
// Pending reviews never leave this filter.
func (r *ReviewRepository) FindVisibleByTarget(targetID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.
		Where("target_id = ? AND status <> ?", targetID, models.ReviewStatusPending).
		Order("submitted_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find visible reviews for target %d: %w", targetID, err)
	}
	return reviews, nil
}

// FindByLeaseAndAuthor retrieves a single review regardless of status. Used
// by internal flows only; callers surfacing reviews must filter on Visible.
func (r *ReviewRepository) FindByLeaseAndAuthor(leaseID, authorID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.
		Where("lease_id = ? AND author_id = ?", leaseID, authorID).
		First(&review).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("review for lease %d by author %d: %w", leaseID, authorID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find review for lease %d by author %d: %w", leaseID, authorID, err)
	}
	return &review, nil
}

// LeaseIDsWithPendingSince returns the distinct leases that still have a
// pending review submitted at or before the cutoff.
func (r *ReviewRepository) LeaseIDsWithPendingSince(cutoff time.Time) ([]uint, error) {
	var leaseIDs []uint
	err := r.db.Model(&models.Review{}).
		Where("status = ? AND submitted_at <= ?", models.ReviewStatusPending, cutoff).
		Distinct("lease_id").
		Pluck("lease_id", &leaseIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find leases with expired pending reviews: %w", err)
	}
	return leaseIDs, nil
}

// ExpirePendingByLeases flips every pending review on the given leases to
// expired with a shared revealed_at. Returns the number of reviews flipped.
func (r *ReviewRepository) ExpirePendingByLeases(leaseIDs []uint, now time.Time) (int64, error) {
	if len(leaseIDs) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Review{}).
		Where("lease_id IN ? AND status = ?", leaseIDs, models.ReviewStatusPending).
		Updates(map[string]interface{}{
			"status":      models.ReviewStatusExpired,
			"revealed_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire pending reviews: %w", result.Error)
	}
	return result.RowsAffected, nil
}
