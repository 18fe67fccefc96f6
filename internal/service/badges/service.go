package badges

import (
	"context"
	"time"

	prommetrics "github.com/rentloop/gamification/internal/metrics"
	"github.com/rentloop/gamification/internal/models"
	"github.com/rentloop/gamification/internal/repository"
	"github.com/rentloop/gamification/pkg/logger"
)

// UserRepository interface for user operations.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	List() ([]models.User, error)
	CountCreatedBefore(t time.Time) (int64, error)
}

// LeaseRepository interface for lease and property counts.
type LeaseRepository interface {
	CountEndedByTenant(tenantID uint, now time.Time) (int64, error)
	CountPropertiesByOwner(ownerID uint) (int64, error)
	CountActivePropertiesByOwner(ownerID uint) (int64, error)
}

// StatsRepository interface for activity counts.
type StatsRepository interface {
	CountReceiptsByTenant(tenantID uint) (int64, error)
	CountMessagesBySender(senderID uint) (int64, error)
}

// ReviewRepository interface for revealed review reads.
type ReviewRepository interface {
	FindVisibleByTarget(targetID uint) ([]models.Review, error)
}

// UnlockRepository interface for the first-unlock journal.
type UnlockRepository interface {
	RecordFirstUnlock(userID uint, badgeID string, now time.Time) error
	GetByUser(userID uint) ([]models.UserBadgeUnlock, error)
}

// Service collects user stats, evaluates the catalog, and journals first
// unlocks.
type Service struct {
	userRepo   UserRepository
	leaseRepo  LeaseRepository
	statsRepo  StatsRepository
	reviewRepo ReviewRepository
	unlockRepo UnlockRepository
	log        *logger.Logger
}

// NewService creates a new badge service.
func NewService(
	userRepo *repository.UserRepository,
	leaseRepo *repository.LeaseRepository,
	statsRepo *repository.StatsRepository,
	reviewRepo *repository.ReviewRepository,
	unlockRepo *repository.UnlockRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:   userRepo,
		leaseRepo:  leaseRepo,
		statsRepo:  statsRepo,
		reviewRepo: reviewRepo,
		unlockRepo: unlockRepo,
		log:        log,
	}
}

// NewServiceWithInterfaces creates a new badge service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	userRepo UserRepository,
	leaseRepo LeaseRepository,
	statsRepo StatsRepository,
	reviewRepo ReviewRepository,
	unlockRepo UnlockRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:   userRepo,
		leaseRepo:  leaseRepo,
		statsRepo:  statsRepo,
		reviewRepo: reviewRepo,
		unlockRepo: unlockRepo,
		log:        log,
	}
}

// Collect builds the stats aggregate for a user from live data. Only
// revealed (or expired) reviews feed the rating and deposit inputs; the
// repository filter guarantees pending reviews never leak into badge state.
//
//nolint:revive // ctx reserved for future context-aware repository calls
func (s *Service) Collect(ctx context.Context, userID uint) (*UserStats, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &UserStats{
		ProfileComplete: user.ProfileComplete,
		HasPhone:        user.Phone != "",
		HasAddress:      user.Address != "",
		HasGender:       user.Gender != "",
		HasBirthDate:    user.BirthDate != nil,
		MemberMonths:    memberMonths(user.CreatedAt, now),
	}

	endedLeases, err := s.leaseRepo.CountEndedByTenant(userID, now)
	if err != nil {
		return nil, err
	}
	stats.EndedLeaseCount = int(endedLeases)

	receipts, err := s.statsRepo.CountReceiptsByTenant(userID)
	if err != nil {
		return nil, err
	}
	stats.ReceiptCount = int(receipts)

	messages, err := s.statsRepo.CountMessagesBySender(userID)
	if err != nil {
		return nil, err
	}
	stats.SentMessageCount = int(messages)

	owned, err := s.leaseRepo.CountPropertiesByOwner(userID)
	if err != nil {
		return nil, err
	}
	stats.OwnedPropertyCount = int(owned)

	active, err := s.leaseRepo.CountActivePropertiesByOwner(userID)
	if err != nil {
		return nil, err
	}
	stats.ActivePropertyCount = int(active)

	rank, err := s.userRepo.CountCreatedBefore(user.CreatedAt)
	if err != nil {
		return nil, err
	}
	stats.SignupRank = rank

	reviews, err := s.reviewRepo.FindVisibleByTarget(userID)
	if err != nil {
		return nil, err
	}
	for _, r := range reviews {
		stats.ReviewsReceived = append(stats.ReviewsReceived, ReceivedReview{
			Rating:                 r.Rating,
			DepositReturnedPercent: r.DepositReturnedPercent,
		})
	}

	return stats, nil
}

// Snapshot returns the currently satisfied badge set without touching the
// unlock journal. The XP ledger uses it for before/after diffing.
func (s *Service) Snapshot(ctx context.Context, userID uint) ([]string, error) {
	stats, err := s.Collect(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Evaluate(*stats), nil
}

// Recompute evaluates the catalog for a user and journals any badge seen
// unlocked for the first time. Returns the full current set.
func (s *Service) Recompute(ctx context.Context, userID uint) ([]string, error) {
	unlocked, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	recorded, err := s.unlockRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(recorded))
	for _, u := range recorded {
		known[u.BadgeID] = true
	}

	now := time.Now().UTC()
	for _, badgeID := range unlocked {
		if known[badgeID] {
			continue
		}
		if err := s.unlockRepo.RecordFirstUnlock(userID, badgeID, now); err != nil {
			// The journal is advisory; evaluation results stand either way.
			s.log.Error().Err(err).Uint("user_id", userID).Str("badge", badgeID).Msg("Failed to journal badge unlock")
			continue
		}
		prommetrics.RecordBadgeUnlocked(badgeID)
		s.log.Info().Uint("user_id", userID).Str("badge", badgeID).Msg("Badge unlocked")
	}

	return unlocked, nil
}

// SyncAll recomputes badges for every user. Run as a scheduled job so
// time-based unlocks (veteran) appear without user activity.
func (s *Service) SyncAll(ctx context.Context) (int, error) {
	start := time.Now()
	users, err := s.userRepo.List()
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, user := range users {
		if _, err := s.Recompute(ctx, user.ID); err != nil {
			s.log.Error().Err(err).Uint("user_id", user.ID).Msg("Failed to recompute badges")
			continue
		}
		synced++
	}

	s.log.Info().
		Int("users", synced).
		Dur("duration", time.Since(start)).
		Msg("Badge sync complete")

	return synced, nil
}

// GetUserUnlocks returns the journaled unlocks for a user.
//
//nolint:revive // ctx reserved for future context-aware repository calls
func (s *Service) GetUserUnlocks(ctx context.Context, userID uint) ([]models.UserBadgeUnlock, error) {
	return s.unlockRepo.GetByUser(userID)
}

// memberMonths is the whole number of 30-day periods since signup.
func memberMonths(createdAt, now time.Time) int {
	if now.Before(createdAt) {
		return 0
	}
	return int(now.Sub(createdAt) / (30 * 24 * time.Hour))
}
