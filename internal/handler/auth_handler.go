package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/hyrostack/marketplace-backend/internal/common"
	"github.com/hyrostack/marketplace-backend/internal/domain"
	"github.com/hyrostack/marketplace-backend/internal/middleware"
	"github.com/hyrostack/marketplace-backend/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register handles POST /api/v1/auth/register
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Registration payload"
// @Success 201 {object} common.APIResponse
// @Failure 409 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.Register(&req)
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			common.ErrorResponse(c, http.StatusConflict, "Email already registered", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to register", err)
		return
	}

	common.CreatedResponse(c, result)
}

// Login handles POST /api/v1/auth/login
// @Summary Log in and receive a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Login payload"
// @Success 200 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.service.Login(&req)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to log in", err)
		return
	}

	common.SuccessResponse(c, result, nil)
}

// Me handles GET /api/v1/auth/me
// @Summary Get the authenticated account
// @Tags auth
// @Produce json
// @Success 200 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.GetUser(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			common.ErrorResponse(c, http.StatusNotFound, "Account not found", err)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "Failed to load account", err)
		return
	}
	common.SuccessResponse(c, user, nil)
}

// bindError renders validation failures as 422 with field messages and
// everything else as 400
func bindError(c *gin.Context, err error) {
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		common.ValidationErrorResponse(c, common.ValidationFields(err))
		return
	}
	common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
}
