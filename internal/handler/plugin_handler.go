package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/middleware"
	"github.com/hyrostack/marketplace-backend/internal/service"
	"github.com/hyrostack/marketplace-backend/pkg/cache"
	"github.com/hyrostack/marketplace-backend/pkg/ginutil"
)

// PluginHandler handles marketplace plugin requests
type PluginHandler struct {
	service *service.PluginService
	cache   cache.Service
}

// NewPluginHandler creates a new PluginHandler
func NewPluginHandler(service *service.PluginService, cacheService cache.Service) *PluginHandler {
	return &PluginHandler{service: service, cache: cacheService}
}

type pluginListPayload struct {
	Plugins []domain.Plugin `json:"plugins"`
	Total   int64           `json:"total"`
}

// List handles GET /api/v1/plugins
// @Summary List active plugins
// @Tags plugins
// @Produce json
// @Param search query string false "Name or description search"
// @Param category query string false "Category slug"
// @Param sort query string false "Sort order (newest, downloads, rating, name)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} common.APIResponse
// @Router /plugins [get]
func (h *PluginHandler) List(c *gin.Context) {
	filter := domain.PluginListFilter{
		Search:       c.Query("search"),
		CategorySlug: c.Query("category"),
		Sort:         c.DefaultQuery("sort", "newest"),
		Page:         ginutil.QueryInt(c, "page", 1),
		Limit:        ginutil.QueryInt(c, "limit", 20),
	}

	ctx := c.Request.Context()
	key := cache.ListKey(filter.Search, filter.CategorySlug, filter.Page)

	// Cache only the default sort, other orders are rare
	cacheable := filter.Sort == "newest" && filter.Limit == 20
	if cacheable {
		var cached pluginListPayload
		if err := h.cache.GetPluginList(ctx, key, &cached); err == nil {
			common.SuccessResponse(c, cached.Plugins, &common.Meta{
				Page: filter.Page, Limit: filter.Limit, Total: cached.Total,
			})
			return
		}
	}

	plugins, total, err := h.service.List(filter)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list plugins", err)
		return
	}

	if cacheable {
		_ = h.cache.SetPluginList(ctx, key, pluginListPayload{Plugins: plugins, Total: total})
	}

	common.SuccessResponse(c, plugins, &common.Meta{
		Page: filter.Page, Limit: filter.Limit, Total: total,
	})
}

// Get handles GET /api/v1/plugins/:id
// @Summary Get plugin detail
// @Tags plugins
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /plugins/{id} [get]
func (h *PluginHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	viewerID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	// Detail is viewer-specific, cache only the anonymous rendering
	if viewerID == 0 {
		var cached domain.PluginDetail
		if err := h.cache.GetPluginDetail(ctx, id, &cached); err == nil {
			common.SuccessResponse(c, cached, nil)
			return
		}
	}

	detail, err := h.service.Get(id, viewerID, middleware.IsAdmin(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	if viewerID == 0 {
		_ = h.cache.SetPluginDetail(ctx, id, detail)
	}

	common.SuccessResponse(c, detail, nil)
}

// Create handles POST /api/v1/plugins
// @Summary Submit a new plugin
// @Tags plugins
// @Accept json
// @Produce json
// @Param request body domain.PluginCreateRequest true "Plugin payload"
// @Success 201 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse
// @Security BearerAuth
// @Router /plugins [post]
func (h *PluginHandler) Create(c *gin.Context) {
	var req domain.PluginCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	plugin, err := h.service.Create(middleware.GetUserID(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	_ = h.cache.InvalidatePluginLists(c.Request.Context())
	common.CreatedResponse(c, plugin)
}

// Update handles PUT /api/v1/plugins/:id
// @Summary Update a plugin
// @Tags plugins
// @Accept json
// @Produce json
// @Param id path int true "Plugin ID"
// @Param request body domain.PluginUpdateRequest true "Plugin payload"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /plugins/{id} [put]
func (h *PluginHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.PluginUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	plugin, err := h.service.Update(id, middleware.GetUserID(c), middleware.IsAdmin(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.invalidate(c, id)
	common.SuccessResponse(c, plugin, nil)
}

// Delete handles DELETE /api/v1/plugins/:id
// @Summary Delete a plugin
// @Tags plugins
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /plugins/{id} [delete]
func (h *PluginHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(id, middleware.GetUserID(c), middleware.IsAdmin(c)); err != nil {
		h.handleError(c, err)
		return
	}

	h.invalidate(c, id)
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// Download handles POST /api/v1/plugins/:id/download
// @Summary Count a download and return the download location
// @Tags plugins
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /plugins/{id}/download [post]
func (h *PluginHandler) Download(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.service.Download(id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	middleware.CountDownload()
	_ = h.cache.InvalidatePlugin(c.Request.Context(), id)
	common.SuccessResponse(c, result, nil)
}

func (h *PluginHandler) invalidate(c *gin.Context, pluginID uint64) {
	ctx := c.Request.Context()
	_ = h.cache.InvalidatePlugin(ctx, pluginID)
	_ = h.cache.InvalidatePluginLists(ctx)
}

func (h *PluginHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrPluginNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Plugin not found", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "You do not own this plugin", err)
	case errors.Is(err, common.ErrDuplicateName):
		common.ErrorResponse(c, http.StatusConflict, "A plugin with this name already exists", err)
	case errors.Is(err, common.ErrCategoryMissing):
		common.ValidationErrorResponse(c, map[string]string{"category_id": "the selected category is invalid"})
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid state for this operation", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// pathID parses the :id path parameter, responding 400 on garbage
func pathID(c *gin.Context) (uint64, bool) {
	id, err := ginutil.ParamUint64(c, "id")
	if err != nil || id == 0 {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid ID", err)
		return 0, false
	}
	return id, true
}
