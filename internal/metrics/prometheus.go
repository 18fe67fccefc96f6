// Package metrics provides Prometheus exporters for gamification metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the gamification core.
var (
	// Counters.
	XPAwardedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_xp_awarded_total",
			Help: "Total XP awarded, by action",
		},
		[]string{"action"},
	)

	XPAwardsThrottledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamification_xp_awards_throttled_total",
			Help: "Total message XP awards suppressed by the anti-spam throttle",
		},
	)

	LevelUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamification_level_ups_total",
			Help: "Total level-up events",
		},
	)

	BadgeUnlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_badge_unlocks_total",
			Help: "Total first-time badge unlocks journaled",
		},
		[]string{"badge"},
	)

	ReviewsSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamification_reviews_submitted_total",
			Help: "Total double-blind reviews submitted",
		},
	)

	ReviewsRevealedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamification_reviews_revealed_total",
			Help: "Total reviews made visible, by mode (mutual or expired)",
		},
		[]string{"mode"},
	)

	// Histograms.
	SweepDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gamification_sweep_duration_seconds",
			Help:    "Duration of the review expiry sweep",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)
)

// Reveal mode label values.
const (
	RevealModeMutual  = "mutual"
	RevealModeExpired = "expired"
)

// RecordXPAwarded records an XP award event.
func RecordXPAwarded(action string, amount int) {
	XPAwardedTotal.WithLabelValues(action).Add(float64(amount))
}

// RecordBadgeUnlocked records a first-time badge unlock.
func RecordBadgeUnlocked(badgeID string) {
	BadgeUnlocksTotal.WithLabelValues(badgeID).Inc()
}

// RecordReviewsRevealed records reviews becoming visible.
func RecordReviewsRevealed(mode string, count int) {
	ReviewsRevealedTotal.WithLabelValues(mode).Add(float64(count))
}
