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

// ReviewHandler handles review requests
type ReviewHandler struct {
	service *service.ReviewService
	cache   cache.Service
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(service *service.ReviewService, cacheService cache.Service) *ReviewHandler {
	return &ReviewHandler{service: service, cache: cacheService}
}

// Submit handles POST /api/v1/plugins/:id/reviews
// @Summary Submit or overwrite a review
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Plugin ID"
// @Param request body domain.ReviewRequest true "Review payload"
// @Success 201 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse
// @Security BearerAuth
// @Router /plugins/{id}/reviews [post]
func (h *ReviewHandler) Submit(c *gin.Context) {
	pluginID, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	review, err := h.service.Submit(pluginID, middleware.GetUserID(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.invalidate(c, pluginID)
	common.CreatedResponse(c, review)
}

// List handles GET /api/v1/plugins/:id/reviews
// @Summary List a plugin's reviews
// @Tags reviews
// @Produce json
// @Param id path int true "Plugin ID"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /plugins/{id}/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	pluginID, ok := pathID(c)
	if !ok {
		return
	}

	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	reviews, total, err := h.service.List(pluginID, page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	common.SuccessResponse(c, reviews, &common.Meta{Page: page, Limit: limit, Total: total})
}

// Delete handles DELETE /api/v1/reviews/:id
// @Summary Delete a review
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, ok := pathID(c)
	if !ok {
		return
	}

	pluginID, err := h.service.Delete(reviewID, middleware.GetUserID(c), middleware.IsAdmin(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	// Review deletes shift the rating aggregate, drop the cached detail and listings
	h.invalidate(c, pluginID)
	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

func (h *ReviewHandler) invalidate(c *gin.Context, pluginID uint64) {
	ctx := c.Request.Context()
	_ = h.cache.InvalidatePlugin(ctx, pluginID)
	_ = h.cache.InvalidatePluginLists(ctx)
}

func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrPluginNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Plugin not found", err)
	case errors.Is(err, common.ErrReviewNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Review not found", err)
	case errors.Is(err, common.ErrSelfReview):
		common.ErrorResponse(c, http.StatusForbidden, "You cannot review your own plugin", err)
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, "You do not own this review", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
