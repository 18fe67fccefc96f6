package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rentloop/gamification/internal/apperrors"
	"github.com/rentloop/gamification/internal/models"
)

// LeaseRepository handles lease and property database operations.
type LeaseRepository struct {
	db *DB
}

// NewLeaseRepository creates a new lease repository.
func NewLeaseRepository(db *DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

// GetByID retrieves a lease by ID with its property preloaded so both
// parties (tenant and property owner) are resolvable.
func (r *LeaseRepository) GetByID(id uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.Preload("Property").First(&lease, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("lease %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get lease %d: %w", id, err)
	}
	return &lease, nil
}

// CountEndedByTenant counts the leases a user completed as tenant, i.e.
// whose end date has passed. The status flag is not consulted: a tenancy is
// over once its end date is behind us, whether or not the lease record has
// been flipped yet.
func (r *LeaseRepository) CountEndedByTenant(tenantID uint, now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Lease{}).
		Where("tenant_id = ? AND end_date IS NOT NULL AND end_date < ?", tenantID, now).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count ended leases for tenant %d: %w", tenantID, err)
	}
	return count, nil
}

// CountPropertiesByOwner counts all properties owned by a user.
func (r *LeaseRepository) CountPropertiesByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Property{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count properties for owner %d: %w", ownerID, err)
	}
	return count, nil
}

// CountActivePropertiesByOwner counts active listings owned by a user.
func (r *LeaseRepository) CountActivePropertiesByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Property{}).
		Where("owner_id = ? AND status = ?", ownerID, models.PropertyStatusActive).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active properties for owner %d: %w", ownerID, err)
	}
	return count, nil
}
