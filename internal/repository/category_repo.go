package repository

import (
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"gorm.io/gorm"
)

// CategoryRepository handles category data operations
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListWithCounts returns all categories with the number of active plugins in each
func (r *CategoryRepository) ListWithCounts() ([]domain.CategoryWithCount, error) {
	var rows []domain.CategoryWithCount
	err := r.db.Model(&domain.Category{}).
		Select("categories.*, COUNT(plugins.id) AS plugin_count").
		Joins("LEFT JOIN plugins ON plugins.category_id = categories.id AND plugins.status = ? AND plugins.deleted_at IS NULL", domain.PluginStatusActive).
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID retrieves a category by ID
func (r *CategoryRepository) FindByID(id uint64) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// SlugExists reports whether a category slug is already taken
func (r *CategoryRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Category{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// Create inserts a new category
func (r *CategoryRepository) Create(category *domain.Category) error {
	return r.db.Create(category).Error
}

// Update saves changes to a category
func (r *CategoryRepository) Update(category *domain.Category) error {
	return r.db.Save(category).Error
}

// Delete removes a category
func (r *CategoryRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.Category{}, id).Error
}

// PluginCount returns the number of plugins assigned to a category,
// including soft-deleted ones
func (r *CategoryRepository) PluginCount(id uint64) (int64, error) {
	var count int64
	err := r.db.Unscoped().Model(&domain.Plugin{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}
