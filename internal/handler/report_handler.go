package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/middleware"
	"github.com/hyrostack/marketplace-backend/internal/service"
	"github.com/hyrostack/marketplace-backend/pkg/ginutil"
)

// ReportHandler handles report requests
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Submit handles POST /api/v1/plugins/:id/report
// @Summary Report a plugin
// @Tags reports
// @Accept json
// @Produce json
// @Param id path int true "Plugin ID"
// @Param request body domain.ReportRequest true "Report payload"
// @Success 201 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Security BearerAuth
// @Router /plugins/{id}/report [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	pluginID, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.service.Submit(pluginID, middleware.GetUserID(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	common.CreatedResponse(c, report)
}

// List handles GET /api/v1/admin/reports
// @Summary List reports for moderation
// @Tags admin
// @Produce json
// @Param status query string false "Status filter (pending, reviewed, resolved, dismissed)"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	page := ginutil.QueryInt(c, "page", 1)
	limit := ginutil.QueryInt(c, "limit", 20)

	reports, total, err := h.service.List(c.Query("status"), page, limit)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to list reports", err)
		return
	}

	common.SuccessResponse(c, reports, &common.Meta{Page: page, Limit: limit, Total: total})
}

// UpdateStatus handles PUT /api/v1/admin/reports/:id/status
// @Summary Update a report's moderation status
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Report ID"
// @Param request body domain.ReportStatusRequest true "Status payload"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Security BearerAuth
// @Router /admin/reports/{id}/status [put]
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	reportID, ok := pathID(c)
	if !ok {
		return
	}

	var req domain.ReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	report, err := h.service.UpdateStatus(reportID, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	common.SuccessResponse(c, report, nil)
}

func (h *ReportHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrPluginNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Plugin not found", err)
	case errors.Is(err, common.ErrReportNotFound):
		common.ErrorResponse(c, http.StatusNotFound, "Report not found", err)
	case errors.Is(err, common.ErrAlreadyReported):
		common.ErrorResponse(c, http.StatusConflict, "You already have a pending report on this plugin", err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
