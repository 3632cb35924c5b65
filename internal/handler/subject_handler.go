package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	"github.com/bibash21-creator/result-finder-33/internal/service"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
	"github.com/bibash21-creator/result-finder-33/pkg/response"
)

// SubjectHandler exposes per-student subject endpoints.
type SubjectHandler struct {
	subjects *service.SubjectService
}

// NewSubjectHandler constructs SubjectHandler.
func NewSubjectHandler(subjects *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

// List godoc
// @Summary List the subjects of one student
// @Tags Subjects
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.subjects.ListSubjects(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Add godoc
// @Summary Add a subject to a student
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.Subject true "Subject payload"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/subjects [post]
func (h *SubjectHandler) Add(c *gin.Context) {
	var subject models.Subject
	if err := c.ShouldBindJSON(&subject); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.subjects.AddSubject(c.Request.Context(), c.Param("id"), &subject)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Update godoc
// @Summary Update one subject entry
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param subjectId path string true "Subject ID"
// @Param payload body models.SubjectPatch true "Fields to update"
// @Success 204
// @Router /students/{id}/subjects/{subjectId} [patch]
func (h *SubjectHandler) Update(c *gin.Context) {
	var patch models.SubjectPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.subjects.UpdateSubject(c.Request.Context(), c.Param("id"), c.Param("subjectId"), patch); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
