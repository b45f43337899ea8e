package service

import (
	"errors"

	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

// CategoryService handles category listing and admin management
type CategoryService struct {
	categoryRepo *repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// List returns all categories with active plugin counts
func (s *CategoryService) List() ([]domain.CategoryWithCount, error) {
	return s.categoryRepo.ListWithCounts()
}

// Create adds a category
func (s *CategoryService) Create(req *domain.CategoryRequest) (*domain.Category, error) {
	exists, err := s.categoryRepo.SlugExists(req.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrDuplicateName
	}

	category := &domain.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update modifies a category
func (s *CategoryService) Update(id uint64, req *domain.CategoryRequest) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	if req.Slug != category.Slug {
		exists, err := s.categoryRepo.SlugExists(req.Slug)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, common.ErrDuplicateName
		}
	}

	category.Name = req.Name
	category.Slug = req.Slug
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category. Deletion is refused while any plugin, live
// or soft-deleted, still references it.
func (s *CategoryService) Delete(id uint64) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotFound
		}
		return err
	}

	count, err := s.categoryRepo.PluginCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return common.ErrCategoryInUse
	}
	return s.categoryRepo.Delete(id)
}
