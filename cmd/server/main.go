// Command server runs the gamification API server, its cron jobs, and the
// Prometheus exporter.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rentloop/gamification/internal/api/gamification"
	"github.com/rentloop/gamification/internal/cache"
	"github.com/rentloop/gamification/internal/config"
	"github.com/rentloop/gamification/internal/repository"
	"github.com/rentloop/gamification/internal/service/badges"
	"github.com/rentloop/gamification/internal/service/reviews"
	"github.com/rentloop/gamification/internal/service/scheduler"
	"github.com/rentloop/gamification/internal/service/xp"
	"github.com/rentloop/gamification/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	log := logger.Get()

	if err := repository.RunMigrations(&cfg.Database.Postgres, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	db, err := repository.NewDB(&cfg.Database.Postgres, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto-migrate database")
	}

	redisCache, err := cache.NewRedisCache(&cfg.Database.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisCache.Close()

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	leaseRepo := repository.NewLeaseRepository(db)
	statsRepo := repository.NewStatsRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	unlockRepo := repository.NewUnlockRepository(db)

	// Services. The XP ledger takes the badge service as its evaluator so
	// awards can report newly unlocked badges by diffing snapshots.
	badgeService := badges.NewService(userRepo, leaseRepo, statsRepo, reviewRepo, unlockRepo, log)
	xpService := xp.NewService(userRepo, badgeService, redisCache, cfg.Gamification.MessageThrottleWindow(), log)
	reviewService := reviews.NewService(leaseRepo, reviewRepo, cfg.Gamification.RevealDelay(), log)

	schedulerService := scheduler.NewService(&cfg.Scheduler, reviewService, badgeService, log)
	if err := schedulerService.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}
	defer schedulerService.Stop()

	// HTTP server.
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	handler := gamification.NewHandler(userRepo, badgeService, xpService, reviewService, log)
	handler.RegisterRoutes(router.Group("/api/v1"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}
