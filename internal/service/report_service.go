package service

import (
	"errors"

	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReportService handles report intake and moderation
type ReportService struct {
	db         *gorm.DB
	reportRepo *repository.ReportRepository
	pluginRepo *repository.PluginRepository
}

// NewReportService creates a new ReportService
func NewReportService(db *gorm.DB, reportRepo *repository.ReportRepository, pluginRepo *repository.PluginRepository) *ReportService {
	return &ReportService{db: db, reportRepo: reportRepo, pluginRepo: pluginRepo}
}

// Submit files a report against a plugin. A user may hold at most one
// pending report per plugin, enforced by an application-level check
// before the insert.
func (s *ReportService) Submit(pluginID, userID uint64, req *domain.ReportRequest) (*domain.Report, error) {
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

	report := &domain.Report{
		UserID:      userID,
		PluginID:    pluginID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      domain.ReportStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		pending, err := s.reportRepo.WithTx(tx).HasPending(userID, pluginID)
		if err != nil {
			return err
		}
		if pending {
			return common.ErrAlreadyReported
		}
		return s.reportRepo.WithTx(tx).Create(report)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint64("report_id", report.ID).Uint64("plugin_id", pluginID).
		Str("reason", report.Reason).Msg("report filed")
	return report, nil
}

// List returns reports for moderation, optionally filtered by status
func (s *ReportService) List(status string, page, limit int) ([]domain.Report, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.reportRepo.List(status, page, limit)
}

// UpdateStatus moves a report to a new moderation status
func (s *ReportService) UpdateStatus(id uint64, status string) (*domain.Report, error) {
	report, err := s.reportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrReportNotFound
		}
		return nil, err
	}

	if err := s.reportRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	report.Status = status
	return report, nil
}
