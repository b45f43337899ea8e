package repository

import (
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepository handles favorite data operations
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new FavoriteRepository
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *FavoriteRepository) WithTx(tx *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: tx}
}

// Create inserts a favorite, ignoring the write when it already exists
func (r *FavoriteRepository) Create(favorite *domain.Favorite) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "plugin_id"}},
		DoNothing: true,
	}).Create(favorite).Error
}

// Delete removes a user's favorite on a plugin, reporting whether a row existed
func (r *FavoriteRepository) Delete(userID, pluginID uint64) (bool, error) {
	result := r.db.Where("user_id = ? AND plugin_id = ?", userID, pluginID).
		Delete(&domain.Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteByPlugin removes every favorite pointing at a plugin
func (r *FavoriteRepository) DeleteByPlugin(pluginID uint64) error {
	return r.db.Where("plugin_id = ?", pluginID).Delete(&domain.Favorite{}).Error
}

// Exists reports whether the user has favorited the plugin
func (r *FavoriteRepository) Exists(userID, pluginID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Favorite{}).
		Where("user_id = ? AND plugin_id = ?", userID, pluginID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser returns the plugins a user has favorited, newest favorite first
func (r *FavoriteRepository) ListByUser(userID uint64, page, limit int) ([]domain.Favorite, int64, error) {
	query := r.db.Model(&domain.Favorite{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var favorites []domain.Favorite
	err := query.Preload("Plugin").Preload("Plugin.User").Preload("Plugin.Category").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&favorites).Error
	if err != nil {
		return nil, 0, err
	}
	return favorites, total, nil
}
