package reviews

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rentloop/gamification/internal/apperrors"
	"github.com/rentloop/gamification/internal/models"
	"github.com/rentloop/gamification/pkg/logger"
)

// Mock repositories for testing
type mockLeaseRepository struct {
	leases map[uint]*models.Lease
}

func newMockLeaseRepository() *mockLeaseRepository {
	return &mockLeaseRepository{leases: make(map[uint]*models.Lease)}
}

func (m *mockLeaseRepository) GetByID(id uint) (*models.Lease, error) {
	lease, ok := m.leases[id]
	if !ok {
		return nil, fmt.Errorf("lease %d: %w", id, apperrors.ErrNotFound)
	}
	return lease, nil
}

type mockReviewRepository struct {
	created []*models.Review
	// revealOnCreate is returned from CreateAndMaybeReveal to simulate the
	// counterpart already being present.
	revealOnCreate []models.Review
	createErr      error

	pendingLeases []uint
	expiredCount  int64
	expireCalls   [][]uint
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{}
}

func (m *mockReviewRepository) CreateAndMaybeReveal(review *models.Review) ([]models.Review, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, review)
	return m.revealOnCreate, nil
}

func (m *mockReviewRepository) FindVisibleByTarget(targetID uint) ([]models.Review, error) {
	var out []models.Review
	for _, r := range m.created {
		if r.TargetID == targetID && r.Visible() {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockReviewRepository) LeaseIDsWithPendingSince(cutoff time.Time) ([]uint, error) {
	return m.pendingLeases, nil
}

func (m *mockReviewRepository) ExpirePendingByLeases(leaseIDs []uint, now time.Time) (int64, error) {
	m.expireCalls = append(m.expireCalls, leaseIDs)
	return m.expiredCount, nil
}

func endedLease(id, ownerID, tenantID uint) *models.Lease {
	return &models.Lease{
		ID:       id,
		TenantID: tenantID,
		Status:   models.LeaseStatusEnded,
		Property: models.Property{OwnerID: ownerID},
	}
}

func newTestService(leaseRepo *mockLeaseRepository, reviewRepo *mockReviewRepository) *Service {
	return NewServiceWithInterfaces(leaseRepo, reviewRepo, 14*24*time.Hour,
		logger.New("error", "json", "stdout"))
}

func TestSubmit_TenantReviewsOwner(t *testing.T) {
	leaseRepo := newMockLeaseRepository()
	reviewRepo := newMockReviewRepository()
	leaseRepo.leases[1] = endedLease(1, 10, 20)
	service := newTestService(leaseRepo, reviewRepo)

	result, err := service.Submit(context.Background(), SubmitInput{
		LeaseID:  1,
		AuthorID: 20,
		Rating:   4.5,
		Criteria: map[string]float64{"communication": 5, "condition": 4},
		Comment:  "Great landlord",
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if result.Review.TargetID != 10 {
		t.Errorf("TargetID = %d, want 10 (the owner)", result.Review.TargetID)
	}
	if result.Review.Status != models.ReviewStatusPending {
		t.Errorf("Status = %s, want %s", result.Review.Status, models.ReviewStatusPending)
	}
	if result.Revealed != nil {
		t.Error("first submission must not reveal anything")
	}
	if result.Review.SubmittedAt.IsZero() {
		t.Error("SubmittedAt not set")
	}
}

func TestSubmit_OwnerReviewsTenant(t *testing.T) {
	leaseRepo := newMockLeaseRepository()
	reviewRepo := newMockReviewRepository()
	leaseRepo.leases[1] = endedLease(1, 10, 20)
	service := newTestService(leaseRepo, reviewRepo)

	result, err := service.Submit(context.Background(), SubmitInput{
		LeaseID:  1,
		AuthorID: 10,
		Rating:   5,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.Review.TargetID != 20 {
		t.Errorf("TargetID = %d, want 20 (the tenant)", result.Review.TargetID)
	}
}

func TestSubmit_SecondOfPairReveals(t *testing.T) {
	leaseRepo := newMockLeaseRepository()
	reviewRepo := newMockReviewRepository()
	leaseRepo.leases[1] = endedLease(1, 10, 20)
	now := time.Now().UTC()
	reviewRepo.revealOnCreate = []models.Review{
		{LeaseID: 1, AuthorID: 10, TargetID: 20, Status: models.ReviewStatusRevealed, RevealedAt: &now},
		{LeaseID: 1, AuthorID: 20, TargetID: 10, Status: models.ReviewStatusRevealed, RevealedAt: &now},
	}
	service := newTestService(leaseRepo, reviewRepo)

	result, err := service.Submit(context.Background(), SubmitInput{
		LeaseID:  1,
		AuthorID: 20,
		Rating:   4,
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(result.Revealed) != 2 {
		t.Fatalf("Revealed = %d reviews, want 2", len(result.Revealed))
	}
}

func TestSubmit_RejectsNonParty(t *testing.T) {
	leaseRepo := newMockLeaseRepository()
	reviewRepo := newMockReviewRepository()
	leaseRepo.leases[1] = endedLease(1, 10, 20)
	service := newTestService(leaseRepo, reviewRepo)

	_, err := service.Submit(context.Background(), SubmitInput{LeaseID: 1, AuthorID: 99, Rating: 3})
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if len(reviewRepo.created) != 0 {
		t.Error("forbidden submission must not reach storage")
	}
}

func TestSubmit_RejectsActiveLease(t *testing.T) {
	leaseRepo := newMockLeaseRepository()
	reviewRepo := newMockReviewRepository()
	lease := endedLease(1, 10, 20)
	lease.Status = models.LeaseStatusActive
	leaseRepo.leases[1] = lease
	service := newTestService(leaseRepo, reviewRepo)

	_, err := service.Submit(context.Background(), SubmitInput{LeaseID: 1, AuthorID: 20, Rating: 3})
	if !errors.Is(err, apperrors.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestSubmit_LeaseNotFound(t *testing.T) {
	service := newTestService(newMockLeaseRepository(), newMockReviewRepository())

	_, err := service.Submit(context.Background(), SubmitInput{LeaseID: 42, AuthorID: 20, Rating: 3})
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmit_Validation(t *testing.T) {
	leaseRepo := newMockLeaseRepository()
	leaseRepo.leases[1] = endedLease(1, 10, 20)
	service := newTestService(leaseRepo, newMockReviewRepository())

	bad := 120.0
	cases := []struct {
		name  string
		input SubmitInput
	}{
		{"rating above 5", SubmitInput{LeaseID: 1, AuthorID: 20, Rating: 5.5}},
		{"negative rating", SubmitInput{LeaseID: 1, AuthorID: 20, Rating: -1}},
		{"criteria score above 5", SubmitInput{
			LeaseID: 1, AuthorID: 20, Rating: 4,
			Criteria: map[string]float64{"communication": 6},
		}},
		{"deposit percent above 100", SubmitInput{
			LeaseID: 1, AuthorID: 20, Rating: 4,
			DepositReturnedPercent: &bad,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Submit(context.Background(), tc.input)
			if !errors.Is(err, apperrors.ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestSubmit_DuplicatePropagatesConflict(t *testing.T) {
	leaseRepo := newMockLeaseRepository()
	reviewRepo := newMockReviewRepository()
	leaseRepo.leases[1] = endedLease(1, 10, 20)
	reviewRepo.createErr = fmt.Errorf("review already submitted: %w", apperrors.ErrConflict)
	service := newTestService(leaseRepo, reviewRepo)

	_, err := service.Submit(context.Background(), SubmitInput{LeaseID: 1, AuthorID: 20, Rating: 4})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestRevealExpired_SweepsOverdueLeases(t *testing.T) {
	reviewRepo := newMockReviewRepository()
	reviewRepo.pendingLeases = []uint{3, 7}
	reviewRepo.expiredCount = 2
	service := newTestService(newMockLeaseRepository(), reviewRepo)

	expired, err := service.RevealExpired(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("RevealExpired failed: %v", err)
	}
	if expired != 2 {
		t.Errorf("expired = %d, want 2", expired)
	}
	if len(reviewRepo.expireCalls) != 1 || len(reviewRepo.expireCalls[0]) != 2 {
		t.Errorf("expected one expire call over 2 leases, got %v", reviewRepo.expireCalls)
	}
}

func TestRevealExpired_NothingPending(t *testing.T) {
	reviewRepo := newMockReviewRepository()
	service := newTestService(newMockLeaseRepository(), reviewRepo)

	expired, err := service.RevealExpired(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("RevealExpired failed: %v", err)
	}
	if expired != 0 {
		t.Errorf("expired = %d, want 0", expired)
	}
	if len(reviewRepo.expireCalls) != 0 {
		t.Error("expire must not be called with nothing pending")
	}
}
