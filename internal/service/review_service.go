package service

import (
	"errors"
	"math"
	"strings"

	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReviewService handles review submission and the denormalized rating
// aggregate on plugins
type ReviewService struct {
	db         *gorm.DB
	reviewRepo *repository.ReviewRepository
	pluginRepo *repository.PluginRepository
}

// NewReviewService creates a new ReviewService
func NewReviewService(db *gorm.DB, reviewRepo *repository.ReviewRepository, pluginRepo *repository.PluginRepository) *ReviewService {
	return &ReviewService{db: db, reviewRepo: reviewRepo, pluginRepo: pluginRepo}
}

// Submit creates or overwrites the caller's review of a plugin and
// recomputes the plugin's rating aggregate in the same transaction.
// Authors cannot review their own plugin.
func (s *ReviewService) Submit(pluginID, userID uint64, req *domain.ReviewRequest) (*domain.Review, error) {
	plugin, err := s.pluginRepo.FindByID(pluginID, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrPluginNotFound
		}
		return nil, err
	}
	if plugin.Status != domain.PluginStatusActive {
		return nil, common.ErrPluginNotFound
	}
	if plugin.IsOwnedBy(userID) {
		return nil, common.ErrSelfReview
	}

	review := &domain.Review{
		PluginID: pluginID,
		UserID:   userID,
		Rating:   req.Rating,
		Comment:  stripMarkup(req.Comment),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Upsert(review); err != nil {
			return err
		}
		return s.recomputeRating(tx, pluginID)
	})
	if err != nil {
		return nil, err
	}

	// Upsert via ON CONFLICT does not report the surviving row ID, so
	// reload the review the caller now owns
	saved, err := s.reviewRepo.FindByPluginAndUser(pluginID, userID)
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// FindForUser returns the review a user left on a plugin
func (s *ReviewService) FindForUser(pluginID, userID uint64) (*domain.Review, error) {
	review, err := s.reviewRepo.FindByPluginAndUser(pluginID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// List returns a plugin's reviews, newest first
func (s *ReviewService) List(pluginID uint64, page, limit int) ([]domain.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if _, err := s.pluginRepo.FindByID(pluginID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, common.ErrPluginNotFound
		}
		return nil, 0, err
	}
	return s.reviewRepo.ListByPlugin(pluginID, page, limit)
}

// Delete removes a review and recomputes the plugin's rating aggregate in
// the same transaction. Only the review's author or an admin may delete.
func (s *ReviewService) Delete(reviewID, userID uint64, isAdmin bool) (uint64, error) {
	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, common.ErrReviewNotFound
		}
		return 0, err
	}
	if review.UserID != userID && !isAdmin {
		return 0, common.ErrForbidden
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Delete(reviewID); err != nil {
			return err
		}
		return s.recomputeRating(tx, review.PluginID)
	})
	if err != nil {
		return 0, err
	}
	return review.PluginID, nil
}

// stripMarkup drops HTML/BB-style tags from a comment, keeping the text
func stripMarkup(comment string) string {
	var b strings.Builder
	b.Grow(len(comment))
	depth := 0
	for _, r := range comment {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// recomputeRating rebuilds the plugin's rating columns from the full
// review set. The average is rounded half up to two decimals and drops
// to 0.00 when the last review goes.
func (s *ReviewService) recomputeRating(tx *gorm.DB, pluginID uint64) error {
	summary, err := s.reviewRepo.WithTx(tx).Aggregate(pluginID)
	if err != nil {
		return err
	}
	avg := math.Round(summary.Avg*100) / 100
	if err := s.pluginRepo.WithTx(tx).UpdateRating(pluginID, avg, int64(summary.Count)); err != nil {
		return err
	}
	log.Debug().Uint64("plugin_id", pluginID).Float64("rating_avg", avg).
		Int("rating_count", summary.Count).Msg("rating aggregate recomputed")
	return nil
}
