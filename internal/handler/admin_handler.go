package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/30secgamer/drivingbackend/internal/middleware"
	"github.com/30secgamer/drivingbackend/internal/model"
	"github.com/30secgamer/drivingbackend/internal/repository"
	"github.com/30secgamer/drivingbackend/internal/response"
	"github.com/30secgamer/drivingbackend/internal/service"
	"github.com/30secgamer/drivingbackend/internal/validator"
)

// AdminHandler handles administrator endpoints.
type AdminHandler struct {
	adminService *service.AdminService
	log          zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, log: log}
}

// Register godoc
// POST /api/admin/register
// Creates an admin account. Setup-time only; not exposed by the UI.
func (h *AdminHandler) Register(c *gin.Context) {
	var req model.AdminRegisterRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if _, err := h.adminService.Register(c.Request.Context(), req); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			response.Fail(c, http.StatusBadRequest, response.ErrConflict)
			return
		}
		h.log.Error().Err(err).Msg("admin register failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrDatabase)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Admin registered successfully"})
}

// Login godoc
// POST /api/admin/login
// Validates username + password, returns a 24h admin token.
func (h *AdminHandler) Login(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, admin, err := h.adminService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidCredentials)
			return
		}
		h.log.Error().Err(err).Msg("admin login failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrDatabase)
		return
	}

	response.Success(c, http.StatusOK, model.AdminLoginResponse{
		Token:    token,
		Username: admin.Username,
	})
}

// Me godoc
// GET /api/admin/me
// Returns the profile of the currently authenticated admin.
func (h *AdminHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.adminService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"admin": admin})
}
