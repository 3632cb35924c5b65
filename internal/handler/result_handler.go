package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	"github.com/bibash21-creator/result-finder-33/internal/service"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
	"github.com/bibash21-creator/result-finder-33/pkg/response"
)

// ResultHandler exposes aggregated result endpoints.
type ResultHandler struct {
	results *service.ResultService
}

// NewResultHandler constructs ResultHandler.
func NewResultHandler(results *service.ResultService) *ResultHandler {
	return &ResultHandler{results: results}
}

// Me godoc
// @Summary Get the authenticated student's result summary
// @Tags Results
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /results/me [get]
func (h *ResultHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil || claims.StudentID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	summary, err := h.results.GetSummary(c.Request.Context(), claims.StudentID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Get godoc
// @Summary Get a student's result summary
// @Tags Results
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/results [get]
func (h *ResultHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	role := models.RoleStudent
	if claims != nil {
		role = claims.Role
	}
	summary, err := h.results.GetSummary(c.Request.Context(), c.Param("id"), role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
