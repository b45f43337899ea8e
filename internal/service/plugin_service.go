package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/repository"
	"github.com/hyrostack/marketplace-backend/pkg/slug"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PluginService handles plugin lifecycle business logic
type PluginService struct {
	db           *gorm.DB
	pluginRepo   *repository.PluginRepository
	categoryRepo *repository.CategoryRepository
	favoriteRepo *repository.FavoriteRepository
	reviewRepo   *repository.ReviewRepository
	reportRepo   *repository.ReportRepository
}

// NewPluginService creates a new PluginService
func NewPluginService(
	db *gorm.DB,
	pluginRepo *repository.PluginRepository,
	categoryRepo *repository.CategoryRepository,
	favoriteRepo *repository.FavoriteRepository,
	reviewRepo *repository.ReviewRepository,
	reportRepo *repository.ReportRepository,
) *PluginService {
	return &PluginService{
		db:           db,
		pluginRepo:   pluginRepo,
		categoryRepo: categoryRepo,
		favoriteRepo: favoriteRepo,
		reviewRepo:   reviewRepo,
		reportRepo:   reportRepo,
	}
}

// List returns publicly visible plugins matching the filter
func (s *PluginService) List(filter domain.PluginListFilter) ([]domain.Plugin, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.pluginRepo.ListPublished(filter)
}

// ListAll returns plugins of any status for the admin listing
func (s *PluginService) ListAll(filter domain.PluginListFilter) ([]domain.Plugin, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.pluginRepo.ListAll(filter)
}

// Get returns a plugin with viewer-specific state. Plugins that are not
// active are visible only to their owner and admins. viewerID 0 means an
// anonymous request.
func (s *PluginService) Get(id uint64, viewerID uint64, viewerIsAdmin bool) (*domain.PluginDetail, error) {
	plugin, err := s.pluginRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrPluginNotFound
		}
		return nil, err
	}
	if plugin.Status != domain.PluginStatusActive && !plugin.IsOwnedBy(viewerID) && !viewerIsAdmin {
		return nil, common.ErrPluginNotFound
	}

	detail := &domain.PluginDetail{Plugin: plugin}

	reviews, _, err := s.reviewRepo.ListByPlugin(id, 1, 50)
	if err != nil {
		return nil, err
	}
	detail.Reviews = reviews

	if viewerID > 0 {
		favorited, err := s.favoriteRepo.Exists(viewerID, id)
		if err != nil {
			return nil, err
		}
		detail.IsFavorited = favorited

		review, err := s.reviewRepo.FindByPluginAndUser(id, viewerID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		detail.UserReview = review
	}
	return detail, nil
}

// Create submits a new plugin. The slug is generated from the name unless
// the author supplied one; generated slugs get numeric suffixes on
// collision and are never changed afterwards.
func (s *PluginService) Create(userID uint64, req *domain.PluginCreateRequest) (*domain.Plugin, error) {
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrCategoryMissing
		}
		return nil, err
	}

	taken, err := s.pluginRepo.NameExists(req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, common.ErrDuplicateName
	}

	pluginSlug := req.Slug
	if pluginSlug == "" {
		pluginSlug = slug.Generate(req.Name, func(candidate string) bool {
			exists, checkErr := s.pluginRepo.SlugExists(candidate)
			if checkErr != nil {
				log.Error().Err(checkErr).Str("slug", candidate).Msg("slug collision check failed")
				return true
			}
			return exists
		})
	} else {
		exists, err := s.pluginRepo.SlugExists(pluginSlug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, common.ErrDuplicateName
		}
	}

	requirements, err := marshalRequirements(req.Requirements)
	if err != nil {
		return nil, err
	}

	categoryID := req.CategoryID
	plugin := &domain.Plugin{
		UserID:        userID,
		CategoryID:    &categoryID,
		Name:          req.Name,
		Slug:          pluginSlug,
		Description:   req.Description,
		Version:       req.Version,
		Compatibility: req.Compatibility,
		Requirements:  requirements,
		LicenseType:   req.LicenseType,
		LogoPath:      req.LogoPath,
		Status:        domain.PluginStatusPending,
	}
	if err := s.pluginRepo.Create(plugin); err != nil {
		return nil, err
	}

	log.Info().Uint64("plugin_id", plugin.ID).Uint64("user_id", userID).
		Str("slug", plugin.Slug).Msg("plugin submitted")
	return plugin, nil
}

// Update modifies a plugin. Only the owner or an admin may update; name
// changes leave the slug untouched.
func (s *PluginService) Update(id, userID uint64, isAdmin bool, req *domain.PluginUpdateRequest) (*domain.Plugin, error) {
	plugin, err := s.authorize(id, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrCategoryMissing
		}
		return nil, err
	}

	if req.Name != plugin.Name {
		taken, err := s.pluginRepo.NameExists(req.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.ErrDuplicateName
		}
	}

	requirements, err := marshalRequirements(req.Requirements)
	if err != nil {
		return nil, err
	}

	categoryID := req.CategoryID
	plugin.Name = req.Name
	plugin.Description = req.Description
	plugin.CategoryID = &categoryID
	plugin.Version = req.Version
	plugin.Compatibility = req.Compatibility
	plugin.LicenseType = req.LicenseType
	plugin.Requirements = requirements
	plugin.LogoPath = req.LogoPath

	if err := s.pluginRepo.Update(plugin); err != nil {
		return nil, err
	}
	return plugin, nil
}

// Delete soft-deletes a plugin and removes every favorite pointing at it
// in the same transaction. Reviews and reports are kept for a possible
// restore.
func (s *PluginService) Delete(id, userID uint64, isAdmin bool) error {
	if _, err := s.authorize(id, userID, isAdmin); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.pluginRepo.WithTx(tx).SoftDelete(id); err != nil {
			return err
		}
		return s.favoriteRepo.WithTx(tx).DeleteByPlugin(id)
	})
}

// Restore brings a soft-deleted plugin back. Favorites removed by the
// delete cascade stay gone.
func (s *PluginService) Restore(id uint64) error {
	plugin, err := s.pluginRepo.FindByID(id, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrPluginNotFound
		}
		return err
	}
	if !plugin.DeletedAt.Valid {
		return common.ErrInvalidInput
	}
	return s.pluginRepo.Restore(id)
}

// HardDelete permanently removes a plugin together with its reviews,
// favorites and reports
func (s *PluginService) HardDelete(id uint64) error {
	if _, err := s.pluginRepo.FindByID(id, true); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrPluginNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.favoriteRepo.WithTx(tx).DeleteByPlugin(id); err != nil {
			return err
		}
		if err := s.reviewRepo.WithTx(tx).DeleteByPlugin(id); err != nil {
			return err
		}
		if err := s.reportRepo.WithTx(tx).DeleteByPlugin(id); err != nil {
			return err
		}
		return s.pluginRepo.WithTx(tx).HardDelete(id)
	})
}

// Download counts a download of an active plugin and returns the
// download location
func (s *PluginService) Download(id uint64) (*domain.DownloadResponse, error) {
	plugin, err := s.pluginRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrPluginNotFound
		}
		return nil, err
	}
	if plugin.Status != domain.PluginStatusActive {
		return nil, common.ErrPluginNotFound
	}

	if err := s.pluginRepo.IncrementDownloads(id); err != nil {
		return nil, err
	}

	return &domain.DownloadResponse{
		DownloadURL: fmt.Sprintf("/downloads/%s-%s.zip", plugin.Slug, plugin.Version),
		Downloads:   plugin.Downloads + 1,
	}, nil
}

// Approve moves a pending plugin to active, stamping published_at on
// first activation
func (s *PluginService) Approve(id uint64) error {
	plugin, err := s.pluginRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrPluginNotFound
		}
		return err
	}
	if plugin.Status != domain.PluginStatusPending {
		return common.ErrInvalidInput
	}

	var publishedAt *time.Time
	if plugin.PublishedAt == nil {
		now := time.Now()
		publishedAt = &now
	}
	return s.pluginRepo.UpdateStatus(id, domain.PluginStatusActive, publishedAt)
}

// Reject moves a pending plugin to rejected
func (s *PluginService) Reject(id uint64) error {
	plugin, err := s.pluginRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrPluginNotFound
		}
		return err
	}
	if plugin.Status != domain.PluginStatusPending {
		return common.ErrInvalidInput
	}
	return s.pluginRepo.UpdateStatus(id, domain.PluginStatusRejected, nil)
}

// ToggleStatus flips a plugin between active and inactive
func (s *PluginService) ToggleStatus(id uint64) (string, error) {
	plugin, err := s.pluginRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", common.ErrPluginNotFound
		}
		return "", err
	}

	var next string
	switch plugin.Status {
	case domain.PluginStatusActive:
		next = domain.PluginStatusInactive
	case domain.PluginStatusInactive:
		next = domain.PluginStatusActive
	default:
		return "", common.ErrInvalidInput
	}

	var publishedAt *time.Time
	if next == domain.PluginStatusActive && plugin.PublishedAt == nil {
		now := time.Now()
		publishedAt = &now
	}
	if err := s.pluginRepo.UpdateStatus(id, next, publishedAt); err != nil {
		return "", err
	}
	return next, nil
}

// authorize loads a live plugin and checks mutation rights. Soft-deleted
// targets report not-found rather than forbidden.
func (s *PluginService) authorize(id, userID uint64, isAdmin bool) (*domain.Plugin, error) {
	plugin, err := s.pluginRepo.FindByID(id, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrPluginNotFound
		}
		return nil, err
	}
	if !plugin.IsOwnedBy(userID) && !isAdmin {
		return nil, common.ErrForbidden
	}
	return plugin, nil
}

func marshalRequirements(requirements map[string]string) (datatypes.JSON, error) {
	if requirements == nil {
		return nil, nil
	}
	raw, err := json.Marshal(requirements)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
