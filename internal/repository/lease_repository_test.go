package repository

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rentloop/gamification/internal/models"
)

// setupLeaseTestDB creates an in-memory SQLite database for testing.
func setupLeaseTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Lease{},
	)
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

func createLease(t *testing.T, db *DB, tenantID uint, status string, endDate *time.Time) {
	t.Helper()

	property := &models.Property{OwnerID: 1, Status: models.PropertyStatusActive}
	if err := db.Create(property).Error; err != nil {
		t.Fatalf("Failed to create property: %v", err)
	}
	lease := &models.Lease{
		PropertyID: property.ID,
		TenantID:   tenantID,
		Status:     status,
		StartDate:  time.Now().Add(-365 * 24 * time.Hour),
		EndDate:    endDate,
	}
	if err := db.Create(lease).Error; err != nil {
		t.Fatalf("Failed to create lease: %v", err)
	}
}

func TestCountEndedByTenant(t *testing.T) {
	db := setupLeaseTestDB(t)
	repo := NewLeaseRepository(db)
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(30 * 24 * time.Hour)

	// A tenancy counts once its end date has passed, whether or not the
	// status flag has caught up.
	createLease(t, db, 1, models.LeaseStatusEnded, &past)
	createLease(t, db, 1, models.LeaseStatusActive, &past)
	// Not over yet: future end date, or open-ended.
	createLease(t, db, 1, models.LeaseStatusActive, &future)
	createLease(t, db, 1, models.LeaseStatusActive, nil)
	// Another tenant's completed lease.
	createLease(t, db, 2, models.LeaseStatusEnded, &past)

	count, err := repo.CountEndedByTenant(1, now)
	if err != nil {
		t.Fatalf("CountEndedByTenant failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	count, err = repo.CountEndedByTenant(3, now)
	if err != nil {
		t.Fatalf("CountEndedByTenant failed: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d for tenant with no leases, want 0", count)
	}
}

func TestCountPropertiesByOwner(t *testing.T) {
	db := setupLeaseTestDB(t)
	repo := NewLeaseRepository(db)

	for _, status := range []string{
		models.PropertyStatusActive,
		models.PropertyStatusActive,
		models.PropertyStatusInactive,
	} {
		property := &models.Property{OwnerID: 7, Status: status}
		if err := db.Create(property).Error; err != nil {
			t.Fatalf("Failed to create property: %v", err)
		}
	}

	total, err := repo.CountPropertiesByOwner(7)
	if err != nil {
		t.Fatalf("CountPropertiesByOwner failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}

	active, err := repo.CountActivePropertiesByOwner(7)
	if err != nil {
		t.Fatalf("CountActivePropertiesByOwner failed: %v", err)
	}
	if active != 2 {
		t.Errorf("active = %d, want 2", active)
	}
}
