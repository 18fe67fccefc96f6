package repository

import (
	"fmt"

	"github.com/rentloop/gamification/internal/models"
)

// StatsRepository answers the aggregate count queries that feed badge
// evaluation (receipts, messages).
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountReceiptsByTenant counts confirmed payments recorded for leases where
// the user is the tenant.
func (r *StatsRepository) CountReceiptsByTenant(tenantID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Payment{}).
		Where("tenant_id = ? AND status = ?", tenantID, "confirmed").
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count receipts for tenant %d: %w", tenantID, err)
	}
	return count, nil
}

// CountMessagesBySender counts chat messages sent by a user.
func (r *StatsRepository) CountMessagesBySender(senderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("sender_id = ?", senderID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count messages for sender %d: %w", senderID, err)
	}
	return count, nil
}
