// Package gamification provides the REST API for the gamification core:
// profile summaries, the badge catalog, review submission, and the expiry
// sweep trigger.
package gamification

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rentloop/gamification/internal/apperrors"
	"github.com/rentloop/gamification/internal/models"
	"github.com/rentloop/gamification/internal/service/badges"
	"github.com/rentloop/gamification/internal/service/rank"
	"github.com/rentloop/gamification/internal/service/reviews"
	"github.com/rentloop/gamification/internal/service/xp"
	"github.com/rentloop/gamification/pkg/logger"
)

// UserService interface for user reads.
type UserService interface {
	GetByID(id uint) (*models.User, error)
}

// BadgeService interface for badge operations.
type BadgeService interface {
	Recompute(ctx context.Context, userID uint) ([]string, error)
	GetUserUnlocks(ctx context.Context, userID uint) ([]models.UserBadgeUnlock, error)
}

// XPService interface for XP awards triggered by review flows.
type XPService interface {
	Award(ctx context.Context, userID uint, action xp.Action) (*xp.AwardResult, error)
}

// ReviewService interface for the double-blind protocol.
type ReviewService interface {
	Submit(ctx context.Context, input reviews.SubmitInput) (*reviews.SubmitResult, error)
	RevealExpired(ctx context.Context, now time.Time) (int64, error)
	ListForTarget(ctx context.Context, targetID uint) ([]models.Review, error)
}

// Handler handles gamification API requests.
type Handler struct {
	userService   UserService
	badgeService  BadgeService
	xpService     XPService
	reviewService ReviewService
	log           *logger.Logger
}

// NewHandler creates a new gamification handler.
func NewHandler(
	userService UserService,
	badgeService BadgeService,
	xpService XPService,
	reviewService ReviewService,
	log *logger.Logger,
) *Handler {
	return &Handler{
		userService:   userService,
		badgeService:  badgeService,
		xpService:     xpService,
		reviewService: reviewService,
		log:           log,
	}
}

// RegisterRoutes registers the gamification routes on a router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/badges", h.GetBadgeCatalog)
	rg.GET("/users/:id/gamification", h.GetUserGamification)
	rg.GET("/users/:id/badges", h.GetUserBadges)
	rg.GET("/users/:id/reviews", h.GetUserReviews)
	rg.POST("/leases/:id/reviews", h.SubmitReview)
	rg.POST("/admin/reviews/sweep", h.RunSweep)
}

// GetBadgeCatalog returns the full badge catalog.
// GET /api/v1/badges.
func (h *Handler) GetBadgeCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"badges": badges.Catalog()})
}

// GetUserGamification returns the aggregated gamification state for a user:
// xp, level, the full unlocked badge set, and the derived rank.
// GET /api/v1/users/:id/gamification.
func (h *Handler) GetUserGamification(c *gin.Context) {
	userID, err := h.parseID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	unlocked, err := h.badgeService.Recompute(c.Request.Context(), userID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	defs := make([]badges.Badge, 0, len(unlocked))
	for _, id := range unlocked {
		if def, ok := badges.Lookup(id); ok {
			defs = append(defs, def)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"xp":      user.XP,
		"level":   user.Level,
		"badges":  defs,
		"rank":    rank.Compute(user.Level, len(unlocked)),
	})
}

// GetUserBadges returns the journaled badge unlocks for a user with their
// first-unlock timestamps.
// GET /api/v1/users/:id/badges.
func (h *Handler) GetUserBadges(c *gin.Context) {
	userID, err := h.parseID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	unlocks, err := h.badgeService.GetUserUnlocks(c.Request.Context(), userID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	type unlockedBadge struct {
		Badge      badges.Badge `json:"badge"`
		UnlockedAt time.Time    `json:"unlocked_at"`
	}
	out := make([]unlockedBadge, 0, len(unlocks))
	for _, u := range unlocks {
		if def, ok := badges.Lookup(u.BadgeID); ok {
			out = append(out, unlockedBadge{Badge: def, UnlockedAt: u.UnlockedAt})
		}
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "badges": out})
}

// GetUserReviews returns the revealed reviews about a user.
// GET /api/v1/users/:id/reviews.
func (h *Handler) GetUserReviews(c *gin.Context) {
	userID, err := h.parseID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	revs, err := h.reviewService.ListForTarget(c.Request.Context(), userID)
	if err != nil {
		h.mapError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user_id": userID, "reviews": revs})
}

// submitReviewRequest is the request body for review submission.
type submitReviewRequest struct {
	AuthorID               uint               `json:"author_id" binding:"required"`
	Rating                 *float64           `json:"rating" binding:"required"`
	Criteria               map[string]float64 `json:"criteria"`
	Comment                string             `json:"comment"`
	DepositReturned        *bool              `json:"deposit_returned"`
	DepositReturnedPercent *float64           `json:"deposit_returned_percent"`
}

// SubmitReview submits a double-blind review for an ended lease and wires
// the XP side effects: the author earns the review-given award immediately,
// and when the submission triggers the mutual reveal, each revealed review
// rated at or above the positive threshold earns its target the
// positive-review award.
// POST /api/v1/leases/:id/reviews.
func (h *Handler) SubmitReview(c *gin.Context) {
	leaseID, err := h.parseID(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	ctx := c.Request.Context()
	result, err := h.reviewService.Submit(ctx, reviews.SubmitInput{
		LeaseID:                leaseID,
		AuthorID:               req.AuthorID,
		Rating:                 *req.Rating,
		Criteria:               req.Criteria,
		Comment:                req.Comment,
		DepositReturned:        req.DepositReturned,
		DepositReturnedPercent: req.DepositReturnedPercent,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}

	// XP is a side effect of a successful submission; award failures are
	// logged and surfaced separately, never rolled into the review result.
	if _, err := h.xpService.Award(ctx, req.AuthorID, xp.ActionReviewGiven); err != nil {
		h.log.Error().Err(err).Uint("user_id", req.AuthorID).Msg("Failed to award review XP")
	}
	for _, rev := range result.Revealed {
		if rev.Rating >= xp.PositiveReviewThreshold {
			if _, err := h.xpService.Award(ctx, rev.TargetID, xp.ActionPositiveReviewReceived); err != nil {
				h.log.Error().Err(err).Uint("user_id", rev.TargetID).Msg("Failed to award positive review XP")
			}
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"review":   result.Review,
		"revealed": len(result.Revealed) > 0,
	})
}

// RunSweep triggers the review expiry sweep.
// POST /api/v1/admin/reviews/sweep.
func (h *Handler) RunSweep(c *gin.Context) {
	expired, err := h.reviewService.RevealExpired(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.mapError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews_expired": expired})
}

// parseID parses the :id path parameter.
func (h *Handler) parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", c.Param("id"))
	}
	return uint(id), nil
}

// mapError translates domain error kinds to HTTP statuses.
func (h *Handler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		h.errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, apperrors.ErrForbidden):
		h.errorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, apperrors.ErrInvalidState):
		h.errorResponse(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, apperrors.ErrValidation):
		h.errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("Internal error")
		h.errorResponse(c, http.StatusInternalServerError, "internal error")
	}
}

// errorResponse sends a JSON error response.
func (h *Handler) errorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
