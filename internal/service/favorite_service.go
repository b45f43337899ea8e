package service

import (
	"errors"

	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

// FavoriteService handles the favorite toggle and listing
type FavoriteService struct {
	favoriteRepo *repository.FavoriteRepository
	pluginRepo   *repository.PluginRepository
}

// NewFavoriteService creates a new FavoriteService
func NewFavoriteService(favoriteRepo *repository.FavoriteRepository, pluginRepo *repository.PluginRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, pluginRepo: pluginRepo}
}

// Toggle flips the caller's favorite on a plugin and reports the
// resulting state. Delete-first keeps the toggle idempotent pairwise: two
// calls always land back at the starting state.
func (s *FavoriteService) Toggle(userID, pluginID uint64) (*domain.ToggleResponse, error) {
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

	removed, err := s.favoriteRepo.Delete(userID, pluginID)
	if err != nil {
		return nil, err
	}
	if removed {
		return &domain.ToggleResponse{Favorited: false}, nil
	}

	favorite := &domain.Favorite{UserID: userID, PluginID: pluginID}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		return nil, err
	}
	return &domain.ToggleResponse{Favorited: true}, nil
}

// List returns the caller's favorited plugins
func (s *FavoriteService) List(userID uint64, page, limit int) ([]domain.Favorite, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.favoriteRepo.ListByUser(userID, page, limit)
}
