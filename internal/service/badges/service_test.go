package badges

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rentloop/gamification/internal/apperrors"
	"github.com/rentloop/gamification/internal/models"
	"github.com/rentloop/gamification/pkg/logger"
)

// Mock repositories for testing
type mockUserRepository struct {
	users map[uint]*models.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[uint]*models.User)}
}

func (m *mockUserRepository) GetByID(id uint) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	return user, nil
}

func (m *mockUserRepository) List() ([]models.User, error) {
	users := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, *u)
	}
	return users, nil
}

func (m *mockUserRepository) CountCreatedBefore(t time.Time) (int64, error) {
	var count int64
	for _, u := range m.users {
		if u.CreatedAt.Before(t) {
			count++
		}
	}
	return count, nil
}

type mockLeaseRepository struct {
	endedLeases      map[uint]int64
	ownedProperties  map[uint]int64
	activeProperties map[uint]int64
}

func newMockLeaseRepository() *mockLeaseRepository {
	return &mockLeaseRepository{
		endedLeases:      make(map[uint]int64),
		ownedProperties:  make(map[uint]int64),
		activeProperties: make(map[uint]int64),
	}
}

func (m *mockLeaseRepository) CountEndedByTenant(tenantID uint, now time.Time) (int64, error) {
	return m.endedLeases[tenantID], nil
}

func (m *mockLeaseRepository) CountPropertiesByOwner(ownerID uint) (int64, error) {
	return m.ownedProperties[ownerID], nil
}

func (m *mockLeaseRepository) CountActivePropertiesByOwner(ownerID uint) (int64, error) {
	return m.activeProperties[ownerID], nil
}

type mockStatsRepository struct {
	receipts map[uint]int64
	messages map[uint]int64
}

func newMockStatsRepository() *mockStatsRepository {
	return &mockStatsRepository{
		receipts: make(map[uint]int64),
		messages: make(map[uint]int64),
	}
}

func (m *mockStatsRepository) CountReceiptsByTenant(tenantID uint) (int64, error) {
	return m.receipts[tenantID], nil
}

func (m *mockStatsRepository) CountMessagesBySender(senderID uint) (int64, error) {
	return m.messages[senderID], nil
}

type mockReviewRepository struct {
	visible map[uint][]models.Review
}

func newMockReviewRepository() *mockReviewRepository {
	return &mockReviewRepository{visible: make(map[uint][]models.Review)}
}

func (m *mockReviewRepository) FindVisibleByTarget(targetID uint) ([]models.Review, error) {
	return m.visible[targetID], nil
}

type mockUnlockRepository struct {
	unlocks map[uint]map[string]time.Time
}

func newMockUnlockRepository() *mockUnlockRepository {
	return &mockUnlockRepository{unlocks: make(map[uint]map[string]time.Time)}
}

func (m *mockUnlockRepository) RecordFirstUnlock(userID uint, badgeID string, now time.Time) error {
	if m.unlocks[userID] == nil {
		m.unlocks[userID] = make(map[string]time.Time)
	}
	if _, exists := m.unlocks[userID][badgeID]; !exists {
		m.unlocks[userID][badgeID] = now
	}
	return nil
}

func (m *mockUnlockRepository) GetByUser(userID uint) ([]models.UserBadgeUnlock, error) {
	var out []models.UserBadgeUnlock
	for badgeID, at := range m.unlocks[userID] {
		out = append(out, models.UserBadgeUnlock{UserID: userID, BadgeID: badgeID, UnlockedAt: at})
	}
	return out, nil
}

type testEnv struct {
	userRepo   *mockUserRepository
	leaseRepo  *mockLeaseRepository
	statsRepo  *mockStatsRepository
	reviewRepo *mockReviewRepository
	unlockRepo *mockUnlockRepository
	service    *Service
}

func newTestEnv() *testEnv {
	env := &testEnv{
		userRepo:   newMockUserRepository(),
		leaseRepo:  newMockLeaseRepository(),
		statsRepo:  newMockStatsRepository(),
		reviewRepo: newMockReviewRepository(),
		unlockRepo: newMockUnlockRepository(),
	}
	env.service = NewServiceWithInterfaces(
		env.userRepo, env.leaseRepo, env.statsRepo, env.reviewRepo, env.unlockRepo,
		logger.New("error", "json", "stdout"),
	)
	return env
}

func TestCollect_BuildsStats(t *testing.T) {
	env := newTestEnv()
	birthDate := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	env.userRepo.users[1] = &models.User{
		ID:              1,
		ProfileComplete: true,
		Phone:           "+33600000000",
		Address:         "1 rue de la Paix",
		Gender:          "female",
		BirthDate:       &birthDate,
		CreatedAt:       time.Now().Add(-400 * 24 * time.Hour),
	}
	env.leaseRepo.endedLeases[1] = 2
	env.statsRepo.receipts[1] = 4
	env.statsRepo.messages[1] = 15
	env.reviewRepo.visible[1] = []models.Review{
		{Rating: 4.5, Status: models.ReviewStatusRevealed},
		{Rating: 5, Status: models.ReviewStatusExpired},
	}

	stats, err := env.service.Collect(context.Background(), 1)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}

	if !stats.ProfileComplete || !stats.HasPhone || !stats.HasAddress || !stats.HasGender || !stats.HasBirthDate {
		t.Error("profile flags not collected")
	}
	if stats.MemberMonths != 13 {
		t.Errorf("MemberMonths = %d, want 13", stats.MemberMonths)
	}
	if stats.EndedLeaseCount != 2 || stats.ReceiptCount != 4 || stats.SentMessageCount != 15 {
		t.Errorf("counts = %d/%d/%d, want 2/4/15",
			stats.EndedLeaseCount, stats.ReceiptCount, stats.SentMessageCount)
	}
	if len(stats.ReviewsReceived) != 2 {
		t.Errorf("ReviewsReceived = %d, want 2", len(stats.ReviewsReceived))
	}
}

func TestRecompute_JournalsFirstUnlockOnce(t *testing.T) {
	env := newTestEnv()
	env.userRepo.users[1] = &models.User{
		ID:              1,
		ProfileComplete: true,
		CreatedAt:       time.Now(),
	}

	first, err := env.service.Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if !contains(first, BadgeFirstSteps) {
		t.Fatalf("expected first-steps in %v", first)
	}
	firstAt := env.unlockRepo.unlocks[1][BadgeFirstSteps]

	time.Sleep(5 * time.Millisecond)

	second, err := env.service.Recompute(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recompute failed: %v", err)
	}
	if !contains(second, BadgeFirstSteps) {
		t.Fatalf("expected first-steps in %v", second)
	}
	if got := env.unlockRepo.unlocks[1][BadgeFirstSteps]; !got.Equal(firstAt) {
		t.Errorf("unlock timestamp changed on recompute: %v -> %v", firstAt, got)
	}
}

func TestSnapshot_DoesNotJournal(t *testing.T) {
	env := newTestEnv()
	env.userRepo.users[1] = &models.User{ID: 1, ProfileComplete: true, CreatedAt: time.Now()}

	set, err := env.service.Snapshot(context.Background(), 1)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if !contains(set, BadgeFirstSteps) {
		t.Fatalf("expected first-steps in %v", set)
	}
	if len(env.unlockRepo.unlocks[1]) != 0 {
		t.Error("Snapshot must not write to the unlock journal")
	}
}

func TestSyncAll_CoversAllUsers(t *testing.T) {
	env := newTestEnv()
	env.userRepo.users[1] = &models.User{ID: 1, ProfileComplete: true, CreatedAt: time.Now()}
	env.userRepo.users[2] = &models.User{ID: 2, Phone: "+33600000001", CreatedAt: time.Now()}

	synced, err := env.service.SyncAll(context.Background())
	if err != nil {
		t.Fatalf("SyncAll failed: %v", err)
	}
	if synced != 2 {
		t.Errorf("synced = %d, want 2", synced)
	}
	if _, ok := env.unlockRepo.unlocks[1][BadgeFirstSteps]; !ok {
		t.Error("user 1 missing first-steps unlock")
	}
	if _, ok := env.unlockRepo.unlocks[2][BadgeCommunicator]; !ok {
		t.Error("user 2 missing communicator unlock")
	}
}

func TestMemberMonths(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		daysAgo int
		want    int
	}{
		{0, 0},
		{29, 0},
		{30, 1},
		{360, 12},
		{365, 12},
	}
	for _, tc := range cases {
		createdAt := now.Add(-time.Duration(tc.daysAgo) * 24 * time.Hour)
		if got := memberMonths(createdAt, now); got != tc.want {
			t.Errorf("memberMonths(%d days) = %d, want %d", tc.daysAgo, got, tc.want)
		}
	}
}
