package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/service"
	"github.com/hyrostack/marketplace-backend/pkg/cache"
	"github.com/hyrostack/marketplace-backend/pkg/ginutil"
)

// AdminHandler handles moderation requests
type AdminHandler struct {
	adminService  *service.AdminService
	pluginService *service.PluginService
	cache         cache.Service
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *service.AdminService, pluginService *service.PluginService, cacheService cache.Service) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		pluginService: pluginService,
		cache:         cacheService,
	}
}

// Dashboard handles GET /api/v1/admin/dashboard
// @Summary Marketplace totals for the admin dashboard
// @Tags admin
// @Produce json
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard()
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load dashboard", err)
		return
	}
	common.SuccessResponse(c, stats, nil)
}

// ListPlugins handles GET /api/v1/admin/plugins
// @Summary List plugins of any status, soft-deleted included
// @Tags admin
// @Produce json
// @Param status query string false "Status filter"
// @Param search query string false "Name or description search"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/plugins [get]
func (h *AdminHandler) ListPlugins(c *gin.Context) {
	filter := domain.PluginListFilter{
		Search:       c.Query("search"),
		CategorySlug: c.Query("category"),
		Status:       c.Query("status"),
		Page:         ginutil.QueryInt(c, "page", 1),
		Limit:        ginutil.QueryInt(c, "limit", 20),
	}

	plugins, total, err := h.pluginService.ListAll(filter)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list plugins", err)
		return
	}

	common.SuccessResponse(c, plugins, &common.Meta{
		Page: filter.Page, Limit: filter.Limit, Total: total,
	})
}

// ApprovePlugin handles PUT /api/v1/admin/plugins/:id/approve
// @Summary Approve a pending plugin
// @Tags admin
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/plugins/{id}/approve [put]
func (h *AdminHandler) ApprovePlugin(c *gin.Context) {
	h.statusAction(c, func(id uint64) error {
		return h.pluginService.Approve(id)
	}, "approved")
}

// RejectPlugin handles PUT /api/v1/admin/plugins/:id/reject
// @Summary Reject a pending plugin
// @Tags admin
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/plugins/{id}/reject [put]
func (h *AdminHandler) RejectPlugin(c *gin.Context) {
	h.statusAction(c, func(id uint64) error {
		return h.pluginService.Reject(id)
	}, "rejected")
}

// TogglePluginStatus handles PUT /api/v1/admin/plugins/:id/toggle-status
// @Summary Flip a plugin between active and inactive
// @Tags admin
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/plugins/{id}/toggle-status [put]
func (h *AdminHandler) TogglePluginStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	status, err := h.pluginService.ToggleStatus(id)
	if err != nil {
		h.handlePluginError(c, err)
		return
	}

	h.invalidate(c, id)
	common.SuccessResponse(c, gin.H{"status": status}, nil)
}

// RestorePlugin handles POST /api/v1/admin/plugins/:id/restore
// @Summary Restore a soft-deleted plugin
// @Tags admin
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/plugins/{id}/restore [post]
func (h *AdminHandler) RestorePlugin(c *gin.Context) {
	h.statusAction(c, func(id uint64) error {
		return h.pluginService.Restore(id)
	}, "restored")
}

// HardDeletePlugin handles DELETE /api/v1/admin/plugins/:id
// @Summary Permanently delete a plugin and its reviews, favorites and reports
// @Tags admin
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/plugins/{id} [delete]
func (h *AdminHandler) HardDeletePlugin(c *gin.Context) {
	h.statusAction(c, func(id uint64) error {
		return h.pluginService.HardDelete(id)
	}, "deleted")
}

func (h *AdminHandler) statusAction(c *gin.Context, action func(uint64) error, result string) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := action(id); err != nil {
		h.handlePluginError(c, err)
		return
	}

	h.invalidate(c, id)
	common.SuccessResponse(c, gin.H{"result": result}, nil)
}

func (h *AdminHandler) invalidate(c *gin.Context, pluginID uint64) {
	ctx := c.Request.Context()
	_ = h.cache.InvalidatePlugin(ctx, pluginID)
	_ = h.cache.InvalidatePluginLists(ctx)
}

func (h *AdminHandler) handlePluginError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrPluginNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Plugin not found", err)
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusConflict, "Plugin is not in a valid state for this action", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
