package service

import (
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/repository"
)

// AdminService assembles the moderation dashboard
type AdminService struct {
	pluginRepo *repository.PluginRepository
	userRepo   *repository.UserRepository
	reviewRepo *repository.ReviewRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(pluginRepo *repository.PluginRepository, userRepo *repository.UserRepository, reviewRepo *repository.ReviewRepository) *AdminService {
	return &AdminService{pluginRepo: pluginRepo, userRepo: userRepo, reviewRepo: reviewRepo}
}

// Dashboard returns marketplace-wide totals
func (s *AdminService) Dashboard() (*domain.DashboardStats, error) {
	stats := &domain.DashboardStats{}

	var err error
	if stats.TotalPlugins, err = s.pluginRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalReviews, err = s.reviewRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalDownloads, err = s.pluginRepo.SumDownloads(); err != nil {
		return nil, err
	}
	if stats.PendingPlugins, err = s.pluginRepo.CountByStatus(domain.PluginStatusPending); err != nil {
		return nil, err
	}
	if stats.ActivePlugins, err = s.pluginRepo.CountByStatus(domain.PluginStatusActive); err != nil {
		return nil, err
	}
	return stats, nil
}
