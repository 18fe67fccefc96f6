package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm/clause"

	"github.com/rentloop/gamification/internal/models"
)

// UnlockRepository maintains the append-only journal of first badge unlocks.
type UnlockRepository struct {
	db *DB
}

// NewUnlockRepository creates a new unlock repository.
func NewUnlockRepository(db *DB) *UnlockRepository {
	return &UnlockRepository{db: db}
}

// RecordFirstUnlock inserts a journal row for the badge unless one already
// exists. Idempotent: recomputing an already-journaled badge is a no-op, so
// the recorded unlocked_at keeps the first observation time.
func (r *UnlockRepository) RecordFirstUnlock(userID uint, badgeID string, now time.Time) error {
	unlock := models.UserBadgeUnlock{
		UserID:     userID,
		BadgeID:    badgeID,
		UnlockedAt: now,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
		DoNothing: true,
	}).Create(&unlock).Error
	if err != nil {
		return fmt.Errorf("failed to record unlock of %s for user %d: %w", badgeID, userID, err)
	}
	return nil
}

// GetByUser retrieves the journaled unlocks for a user, oldest first.
func (r *UnlockRepository) GetByUser(userID uint) ([]models.UserBadgeUnlock, error) {
	var unlocks []models.UserBadgeUnlock
	err := r.db.
		Where("user_id = ?", userID).
		Order("unlocked_at ASC").
		Find(&unlocks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get unlocks for user %d: %w", userID, err)
	}
	return unlocks, nil
}
