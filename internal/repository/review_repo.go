package repository

import (
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository handles review data operations
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ReviewRepository) WithTx(tx *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: tx}
}

// Upsert inserts a review or, when the user already reviewed the plugin,
// overwrites the existing rating and comment
func (r *ReviewRepository) Upsert(review *domain.Review) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plugin_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(review).Error
}

// FindByID retrieves a review by ID
func (r *ReviewRepository) FindByID(id uint64) (*domain.Review, error) {
	var review domain.Review
	if err := r.db.First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByPluginAndUser retrieves the review a user left on a plugin
func (r *ReviewRepository) FindByPluginAndUser(pluginID, userID uint64) (*domain.Review, error) {
	var review domain.Review
	err := r.db.Where("plugin_id = ? AND user_id = ?", pluginID, userID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByPlugin returns a plugin's reviews, newest first
func (r *ReviewRepository) ListByPlugin(pluginID uint64, page, limit int) ([]domain.Review, int64, error) {
	query := r.db.Model(&domain.Review{}).Where("plugin_id = ?", pluginID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []domain.Review
	err := query.Preload("User").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Delete removes a review
func (r *ReviewRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.Review{}, id).Error
}

// DeleteByPlugin removes all reviews of a plugin
func (r *ReviewRepository) DeleteByPlugin(pluginID uint64) error {
	return r.db.Where("plugin_id = ?", pluginID).Delete(&domain.Review{}).Error
}

// Aggregate recomputes the rating summary from all reviews of a plugin
func (r *ReviewRepository) Aggregate(pluginID uint64) (domain.RatingSummary, error) {
	var summary domain.RatingSummary
	err := r.db.Model(&domain.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("plugin_id = ?", pluginID).
		Scan(&summary).Error
	return summary, err
}

// Count returns the total number of reviews
func (r *ReviewRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Review{}).Count(&count).Error
	return count, err
}
