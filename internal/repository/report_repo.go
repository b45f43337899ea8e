package repository

import (
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"gorm.io/gorm"
)

// ReportRepository handles report data operations
type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *ReportRepository) WithTx(tx *gorm.DB) *ReportRepository {
	return &ReportRepository{db: tx}
}

// Create inserts a new report
func (r *ReportRepository) Create(report *domain.Report) error {
	return r.db.Create(report).Error
}

// HasPending reports whether the user already has an open report on the plugin
func (r *ReportRepository) HasPending(userID, pluginID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Report{}).
		Where("user_id = ? AND plugin_id = ? AND status = ?", userID, pluginID, domain.ReportStatusPending).
		Count(&count).Error
	return count > 0, err
}

// FindByID retrieves a report by ID
func (r *ReportRepository) FindByID(id uint64) (*domain.Report, error) {
	var report domain.Report
	if err := r.db.First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// List returns reports filtered by status, newest first
func (r *ReportRepository) List(status string, page, limit int) ([]domain.Report, int64, error) {
	query := r.db.Model(&domain.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []domain.Report
	err := query.Preload("User").Preload("Plugin").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// UpdateStatus changes a report's status
func (r *ReportRepository) UpdateStatus(id uint64, status string) error {
	return r.db.Model(&domain.Report{}).Where("id = ?", id).Update("status", status).Error
}

// DeleteByPlugin removes every report filed against a plugin
func (r *ReportRepository) DeleteByPlugin(pluginID uint64) error {
	return r.db.Where("plugin_id = ?", pluginID).Delete(&domain.Report{}).Error
}

// CountPending returns the number of open reports
func (r *ReportRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Report{}).
		Where("status = ?", domain.ReportStatusPending).Count(&count).Error
	return count, err
}
