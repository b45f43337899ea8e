package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/middleware"
	"github.com/hyrostack/marketplace-backend/internal/service"
	"github.com/hyrostack/marketplace-backend/pkg/ginutil"
)

// FavoriteHandler handles favorite requests
type FavoriteHandler struct {
	service *service.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(service *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// Toggle handles POST /api/v1/plugins/:id/favorite
// @Summary Toggle a favorite on a plugin
// @Tags favorites
// @Produce json
// @Param id path int true "Plugin ID"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /plugins/{id}/favorite [post]
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	pluginID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.service.Toggle(middleware.GetUserID(c), pluginID)
	if err != nil {
		if errors.Is(err, common.ErrPluginNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Plugin not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to toggle favorite", err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// List handles GET /api/v1/favorites
// @Summary List the caller's favorited plugins
// @Tags favorites
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	favorites, total, err := h.service.List(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list favorites", err)
		return
	}

	common.SuccessResponse(c, favorites, &common.Meta{Page: page, Limit: limit, Total: total})
}
