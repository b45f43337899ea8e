package repository

import (
	"time"

	"github.com/hyrostack/marketplace-backend/internal/domain"
	"gorm.io/gorm"
)

// PluginRepository handles plugin data operations
type PluginRepository struct {
	db *gorm.DB
}

// NewPluginRepository creates a new PluginRepository
func NewPluginRepository(db *gorm.DB) *PluginRepository {
	return &PluginRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *PluginRepository) WithTx(tx *gorm.DB) *PluginRepository {
	return &PluginRepository{db: tx}
}

// Create inserts a new plugin
func (r *PluginRepository) Create(plugin *domain.Plugin) error {
	return r.db.Create(plugin).Error
}

// FindByID retrieves a plugin by ID. When includeDeleted is true,
// soft-deleted rows are visible as well.
func (r *PluginRepository) FindByID(id uint64, includeDeleted bool) (*domain.Plugin, error) {
	var plugin domain.Plugin
	query := r.db.Preload("User").Preload("Category")
	if includeDeleted {
		query = query.Unscoped()
	}
	if err := query.First(&plugin, id).Error; err != nil {
		return nil, err
	}
	return &plugin, nil
}

// SlugExists reports whether a slug is taken by any plugin, soft-deleted included
func (r *PluginRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&domain.Plugin{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// NameExists reports whether a live plugin already uses the name.
// excludeID skips the plugin being updated.
func (r *PluginRepository) NameExists(name string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&domain.Plugin{}).Where("name = ?", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// ListPublished returns active plugins matching the filter with total count
func (r *PluginRepository) ListPublished(filter domain.PluginListFilter) ([]domain.Plugin, int64, error) {
	query := r.db.Model(&domain.Plugin{}).Where("plugins.status = ?", domain.PluginStatusActive)
	query = applyPluginFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var plugins []domain.Plugin
	offset := (filter.Page - 1) * filter.Limit
	err := query.Preload("User").Preload("Category").
		Order(pluginSortOrder(filter.Sort)).
		Limit(filter.Limit).Offset(offset).
		Find(&plugins).Error
	if err != nil {
		return nil, 0, err
	}
	return plugins, total, nil
}

// ListAll returns plugins of any status for the admin listing,
// soft-deleted rows included
func (r *PluginRepository) ListAll(filter domain.PluginListFilter) ([]domain.Plugin, int64, error) {
	query := r.db.Unscoped().Model(&domain.Plugin{})
	if filter.Status != "" {
		query = query.Where("plugins.status = ?", filter.Status)
	}
	query = applyPluginFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var plugins []domain.Plugin
	offset := (filter.Page - 1) * filter.Limit
	err := query.Preload("User").Preload("Category").
		Order("plugins.created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&plugins).Error
	if err != nil {
		return nil, 0, err
	}
	return plugins, total, nil
}

func applyPluginFilter(query *gorm.DB, filter domain.PluginListFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("plugins.name LIKE ? OR plugins.description LIKE ?", pattern, pattern)
	}
	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = plugins.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	return query
}

func pluginSortOrder(sort string) string {
	switch sort {
	case "downloads":
		return "plugins.downloads DESC"
	case "rating":
		return "plugins.rating_avg DESC, plugins.rating_count DESC"
	case "name":
		return "plugins.name ASC"
	default:
		return "plugins.created_at DESC"
	}
}

// Update saves changes to a plugin
func (r *PluginRepository) Update(plugin *domain.Plugin) error {
	return r.db.Save(plugin).Error
}

// UpdateStatus changes a plugin's status, stamping published_at on first activation
func (r *PluginRepository) UpdateStatus(id uint64, status string, publishedAt *time.Time) error {
	updates := map[string]any{"status": status}
	if publishedAt != nil {
		updates["published_at"] = publishedAt
	}
	return r.db.Model(&domain.Plugin{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateRating writes the recomputed rating aggregate
func (r *PluginRepository) UpdateRating(id uint64, avg float64, count int64) error {
	return r.db.Model(&domain.Plugin{}).Where("id = ?", id).
		Updates(map[string]any{"rating_avg": avg, "rating_count": count}).Error
}

// IncrementDownloads bumps the download counter atomically
func (r *PluginRepository) IncrementDownloads(id uint64) error {
	return r.db.Model(&domain.Plugin{}).Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
}

// SoftDelete marks a plugin deleted
func (r *PluginRepository) SoftDelete(id uint64) error {
	return r.db.Delete(&domain.Plugin{}, id).Error
}

// Restore clears the deletion mark from a soft-deleted plugin
func (r *PluginRepository) Restore(id uint64) error {
	return r.db.Unscoped().Model(&domain.Plugin{}).Where("id = ?", id).
		Update("deleted_at", nil).Error
}

// HardDelete permanently removes a plugin row
func (r *PluginRepository) HardDelete(id uint64) error {
	return r.db.Unscoped().Delete(&domain.Plugin{}, id).Error
}

// CountByStatus returns the number of live plugins in the given status
func (r *PluginRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Plugin{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Count returns the total number of live plugins
func (r *PluginRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Plugin{}).Count(&count).Error
	return count, err
}

// SumDownloads returns the total download count across live plugins
func (r *PluginRepository) SumDownloads() (int64, error) {
	var total int64
	err := r.db.Model(&domain.Plugin{}).
		Select("COALESCE(SUM(downloads), 0)").Scan(&total).Error
	return total, err
}
