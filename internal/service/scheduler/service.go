// Package scheduler runs the periodic gamification jobs: the review expiry
// sweep and the badge unlock sync.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rentloop/gamification/internal/config"
	"github.com/rentloop/gamification/pkg/logger"
)

// ReviewService is the sweep operation the scheduler triggers.
type ReviewService interface {
	RevealExpired(ctx context.Context, now time.Time) (int64, error)
}

// BadgeService is the badge sync operation the scheduler triggers.
type BadgeService interface {
	SyncAll(ctx context.Context) (int, error)
}

// Service owns the cron runner.
type Service struct {
	config        *config.SchedulerConfig
	reviewService ReviewService
	badgeService  BadgeService
	log           *logger.Logger
	cron          *cron.Cron
}

// NewService creates a new scheduler service.
func NewService(
	cfg *config.SchedulerConfig,
	reviewService ReviewService,
	badgeService BadgeService,
	log *logger.Logger,
) *Service {
	return &Service{
		config:        cfg,
		reviewService: reviewService,
		badgeService:  badgeService,
		log:           log,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.config.Enabled {
		s.log.Info().Msg("Scheduler is disabled in configuration")
		return nil
	}

	location, err := s.config.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.config.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	if s.config.SweepSchedule != "" {
		_, err = s.cron.AddFunc(s.config.SweepSchedule, func() {
			s.runSweep(context.Background())
		})
		if err != nil {
			return fmt.Errorf("failed to register review sweep job: %w", err)
		}
		s.log.Info().
			Str("schedule", s.config.SweepSchedule).
			Msg("Review expiry sweep job registered")
	}

	if s.config.BadgeSyncTime != "" && s.badgeService != nil {
		_, err = s.cron.AddFunc(s.config.BadgeSyncTime, func() {
			s.runBadgeSync(context.Background())
		})
		if err != nil {
			return fmt.Errorf("failed to register badge sync job: %w", err)
		}
		s.log.Info().
			Str("schedule", s.config.BadgeSyncTime).
			Msg("Badge sync job registered")
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}
	s.log.Info().
		Int("jobs", len(entries)).
		Str("next_run", nextRun).
		Msg("Scheduler started")

	return nil
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Service) Stop() {
	if s.cron == nil {
		return
	}
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Scheduler stopped")
}

func (s *Service) runSweep(ctx context.Context) {
	expired, err := s.reviewService.RevealExpired(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error().Err(err).Msg("Review expiry sweep failed")
		return
	}
	if expired > 0 {
		s.log.Info().Int64("reviews_expired", expired).Msg("Review expiry sweep revealed reviews")
	}
}

func (s *Service) runBadgeSync(ctx context.Context) {
	if _, err := s.badgeService.SyncAll(ctx); err != nil {
		s.log.Error().Err(err).Msg("Badge sync failed")
	}
}
