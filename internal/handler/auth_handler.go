package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	"github.com/bibash21-creator/result-finder-33/internal/service"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
	"github.com/bibash21-creator/result-finder-33/pkg/response"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	metrics *service.MetricsService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{auth: auth, metrics: metrics}
}

// Login godoc
// @Summary Student login
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Credentials"
// @Success 200 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.auth.Login(c.Request.Context(), req)
	h.metrics.RecordLogin(string(models.RoleStudent), err == nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}

// Signup godoc
// @Summary Student signup
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.SignupRequest true "New account"
// @Success 201 {object} response.Envelope
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.auth.Signup(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, resp)
}

// AdminLogin godoc
// @Summary Administrator login
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.AdminLoginRequest true "Admin password"
// @Success 200 {object} response.Envelope
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	resp, err := h.auth.AdminLogin(c.Request.Context(), req)
	h.metrics.RecordLogin(string(models.RoleAdmin), err == nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, nil)
}
