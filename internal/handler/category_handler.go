package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/service"
	"github.com/hyrostack/marketplace-backend/pkg/cache"
)

// CategoryHandler handles category requests
type CategoryHandler struct {
	service *service.CategoryService
	cache   cache.Service
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service *service.CategoryService, cacheService cache.Service) *CategoryHandler {
	return &CategoryHandler{service: service, cache: cacheService}
}

// List handles GET /api/v1/categories
// @Summary List categories with active plugin counts
// @Tags categories
// @Produce json
// @Success 200 {object} common.APIResponse
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []domain.CategoryWithCount
	if err := h.cache.GetCategories(ctx, &cached); err == nil {
		common.SuccessResponse(c, cached, nil)
		return
	}

	categories, err := h.service.List()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list categories", err)
		return
	}

	_ = h.cache.SetCategories(ctx, categories)
	common.SuccessResponse(c, categories, nil)
}

// Create handles POST /api/v1/admin/categories
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Param request body domain.CategoryRequest true "Category payload"
// @Success 201 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req domain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.service.Create(&req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	_ = h.cache.InvalidateCategories(c.Request.Context())
	common.CreatedResponse(c, category)
}

// Update handles PUT /api/v1/admin/categories/:id
// @Summary Update a category
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body domain.CategoryRequest true "Category payload"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.service.Update(id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	_ = h.cache.InvalidateCategories(c.Request.Context())
	common.SuccessResponse(c, category, nil)
}

// Delete handles DELETE /api/v1/admin/categories/:id
// @Summary Delete an empty category
// @Tags admin
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(id); err != nil {
		h.handleError(c, err)
		return
	}

	_ = h.cache.InvalidateCategories(c.Request.Context())
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

func (h *CategoryHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Category not found", err)
	case errors.Is(err, common.ErrDuplicateName):
		common.ErrorResponse(c, http.StatusConflict, "A category with this slug already exists", err)
	case errors.Is(err, common.ErrCategoryInUse):
		common.ErrorResponse(c, http.StatusConflict, "Category still has plugins assigned", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
