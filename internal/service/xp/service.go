// Package xp implements the XP ledger: append-only accrual of experience
// points and recomputation of the derived level.
package xp

import (
	"context"
	"fmt"
	"time"

	"github.com/rentloop/gamification/internal/apperrors"
	prommetrics "github.com/rentloop/gamification/internal/metrics"
	"github.com/rentloop/gamification/internal/models"
	"github.com/rentloop/gamification/internal/repository"
	"github.com/rentloop/gamification/pkg/logger"
)

// UserRepository interface for user operations.
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	// AddXP applies a relative increment and persists the derived level
	// atomically, returning the new totals.
	AddXP(id uint, amount int, levelForXP func(xp int) int) (int, int, error)
	MarkProfileBonusGranted(id uint) (bool, error)
}

// Evaluator snapshots the currently unlocked badge set for a user. The
// ledger diffs snapshots taken before and after an award to report newly
// unlocked badges; badge state itself stays a pure function of stats.
type Evaluator interface {
	Snapshot(ctx context.Context, userID uint) ([]string, error)
}

// Throttle suppresses repeat awards within a rolling window.
type Throttle interface {
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
}

// AwardResult describes the outcome of an XP award.
type AwardResult struct {
	NewXP     int      `json:"new_xp"`
	NewLevel  int      `json:"new_level"`
	LevelUp   bool     `json:"level_up"`
	NewBadges []string `json:"new_badges"`
	// Throttled is true when a message award was suppressed by the
	// anti-spam window; no state changed.
	Throttled bool `json:"throttled"`
}

// Service is the XP ledger.
type Service struct {
	userRepo       UserRepository
	evaluator      Evaluator
	throttle       Throttle
	throttleWindow time.Duration
	log            *logger.Logger
}

// NewService creates a new XP ledger with concrete repository types.
func NewService(
	userRepo *repository.UserRepository,
	evaluator Evaluator,
	throttle Throttle,
	throttleWindow time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:       userRepo,
		evaluator:      evaluator,
		throttle:       throttle,
		throttleWindow: throttleWindow,
		log:            log,
	}
}

// NewServiceWithInterfaces creates a new XP ledger with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	userRepo UserRepository,
	evaluator Evaluator,
	throttle Throttle,
	throttleWindow time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		userRepo:       userRepo,
		evaluator:      evaluator,
		throttle:       throttle,
		throttleWindow: throttleWindow,
		log:            log,
	}
}

// Award grants the fixed XP amount for an action and recomputes the level.
// XP is authoritative and monotonic; badge snapshots are advisory, so a
// failure to compute the badge diff never rolls back a persisted award.
func (s *Service) Award(ctx context.Context, userID uint, action Action) (*AwardResult, error) {
	amount, ok := Reward(action)
	if !ok {
		return nil, fmt.Errorf("unknown action %q: %w", action, apperrors.ErrValidation)
	}

	if action == ActionMessageSent {
		allowed, err := s.passesMessageThrottle(ctx, userID)
		if err != nil {
			// A broken throttle should not block legitimate awards.
			s.log.Warn().Err(err).Uint("user_id", userID).Msg("Message XP throttle check failed, allowing award")
		} else if !allowed {
			prommetrics.XPAwardsThrottledTotal.Inc()
			s.log.Debug().Uint("user_id", userID).Msg("Message XP award throttled")
			return &AwardResult{Throttled: true}, nil
		}
	}

	return s.award(ctx, userID, amount, string(action))
}

// AwardProfileBonus grants the one-time profile-completion bonus. The grant
// is keyed on an explicit flag, not on the XP total, so a user who earned
// XP elsewhere first still receives it exactly once.
func (s *Service) AwardProfileBonus(ctx context.Context, userID uint) (*AwardResult, error) {
	granted, err := s.userRepo.MarkProfileBonusGranted(userID)
	if err != nil {
		return nil, err
	}
	if !granted {
		s.log.Debug().Uint("user_id", userID).Msg("Profile bonus already granted")
		return nil, fmt.Errorf("profile bonus for user %d: %w", userID, apperrors.ErrConflict)
	}

	amount, _ := Reward(ActionProfileCompleted)
	return s.award(ctx, userID, amount, string(ActionProfileCompleted))
}

// award is the core ledger operation: add the increment, derive the level.
func (s *Service) award(ctx context.Context, userID uint, amount int, reason string) (*AwardResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("award amount must be positive: %w", apperrors.ErrValidation)
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	before := s.snapshotBadges(ctx, userID)

	// The increment is relative and applied inside the repository, so two
	// concurrent awards to the same user both land.
	newXP, newLevel, err := s.userRepo.AddXP(userID, amount, LevelForXP)
	if err != nil {
		return nil, err
	}

	levelUp := newLevel > user.Level
	prommetrics.RecordXPAwarded(reason, amount)
	if levelUp {
		prommetrics.LevelUpsTotal.Inc()
	}

	after := s.snapshotBadges(ctx, userID)
	newBadges := diffBadges(before, after)

	s.log.Info().
		Uint("user_id", userID).
		Str("reason", reason).
		Int("amount", amount).
		Int("new_xp", newXP).
		Int("new_level", newLevel).
		Bool("level_up", levelUp).
		Strs("new_badges", newBadges).
		Msg("XP awarded")

	return &AwardResult{
		NewXP:     newXP,
		NewLevel:  newLevel,
		LevelUp:   levelUp,
		NewBadges: newBadges,
	}, nil
}

// passesMessageThrottle allows at most one message award per sender within
// the rolling window.
func (s *Service) passesMessageThrottle(ctx context.Context, userID uint) (bool, error) {
	if s.throttle == nil {
		return true, nil
	}
	key := fmt.Sprintf("xp:throttle:message:%d", userID)
	return s.throttle.SetNX(ctx, key, "1", s.throttleWindow)
}

// snapshotBadges fetches the unlocked set, tolerating evaluator failures.
func (s *Service) snapshotBadges(ctx context.Context, userID uint) []string {
	if s.evaluator == nil {
		return nil
	}
	set, err := s.evaluator.Snapshot(ctx, userID)
	if err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("Badge snapshot failed")
		return nil
	}
	return set
}

// diffBadges returns badges present in after but not in before.
func diffBadges(before, after []string) []string {
	seen := make(map[string]bool, len(before))
	for _, id := range before {
		seen[id] = true
	}
	var diff []string
	for _, id := range after {
		if !seen[id] {
			diff = append(diff, id)
		}
	}
	return diff
}
