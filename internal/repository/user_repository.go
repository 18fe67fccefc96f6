package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rentloop/gamification/internal/apperrors"
	"github.com/rentloop/gamification/internal/models"
)

// UserRepository handles user-related database operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user.
func (r *UserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// List retrieves all users ordered by signup date.
func (r *UserRepository) List() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at ASC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// AddXP atomically adds to a user's cumulative XP and persists the level
// derived from the new total, returning both. The relative increment and the
// level write share one transaction serialized on the user row, so two
// concurrent awards both land instead of one overwriting the other.
func (r *UserRepository) AddXP(id uint, amount int, levelForXP func(xp int) int) (int, int, error) {
	var newXP, newLevel int

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.User{}).
			Where("id = ?", id).
			Update("xp", gorm.Expr("xp + ?", amount))
		if result.Error != nil {
			return fmt.Errorf("failed to add xp for user %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
		}

		var user models.User
		if err := tx.Select("xp").First(&user, id).Error; err != nil {
			return fmt.Errorf("failed to read xp for user %d: %w", id, err)
		}
		newXP = user.XP
		newLevel = levelForXP(newXP)

		if err := tx.Model(&models.User{}).
			Where("id = ?", id).
			Update("level", newLevel).Error; err != nil {
			return fmt.Errorf("failed to update level for user %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return newXP, newLevel, nil
}

// MarkProfileBonusGranted flips the one-time profile bonus flag. Returns
// true when this call actually granted it, false when it was already set,
// which makes the bonus award race-safe under concurrent profile updates.
func (r *UserRepository) MarkProfileBonusGranted(id uint) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND profile_bonus_granted = ?", id, false).
		Update("profile_bonus_granted", true)
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark profile bonus for user %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// CountCreatedBefore returns how many users signed up strictly before the
// given time. Used to derive a user's signup rank for the early-adopter badge.
func (r *UserRepository) CountCreatedBefore(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("created_at < ?", t).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count users created before %s: %w", t, err)
	}
	return count, nil
}
