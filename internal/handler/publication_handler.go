package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bibash21-creator/result-finder-33/internal/service"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
	"github.com/bibash21-creator/result-finder-33/pkg/response"
)

// PublicationHandler exposes the portal-wide publication flag.
type PublicationHandler struct {
	publication *service.PublicationService
	metrics     *service.MetricsService
}

// NewPublicationHandler constructs PublicationHandler.
func NewPublicationHandler(publication *service.PublicationService, metrics *service.MetricsService) *PublicationHandler {
	return &PublicationHandler{publication: publication, metrics: metrics}
}

type publicationState struct {
	Published bool `json:"published"`
}

// Get godoc
// @Summary Read the publication flag
// @Tags Publication
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /results/published [get]
func (h *PublicationHandler) Get(c *gin.Context) {
	published, err := h.publication.IsPublished(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, publicationState{Published: published}, nil)
}

// Set godoc
// @Summary Update the publication flag
// @Tags Publication
// @Accept json
// @Produce json
// @Param payload body publicationState true "New state"
// @Success 200 {object} response.Envelope
// @Router /results/published [put]
func (h *PublicationHandler) Set(c *gin.Context) {
	var state publicationState
	if err := c.ShouldBindJSON(&state); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.publication.SetPublished(c.Request.Context(), state.Published); err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordPublicationToggle()
	response.JSON(c, http.StatusOK, state, nil)
}
