package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/bibash21-creator/result-finder-33/internal/service"
	"github.com/bibash21-creator/result-finder-33/pkg/response"
)

// ExportHandler streams rendered exports.
type ExportHandler struct {
	exports *service.ExportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports *service.ExportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// RosterCSV godoc
// @Summary Download the roster as CSV
// @Tags Exports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /exports/roster.csv [get]
func (h *ExportHandler) RosterCSV(c *gin.Context) {
	file, err := h.exports.RosterCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, file)
}

// ResultSheetPDF godoc
// @Summary Download one student's result sheet as PDF
// @Tags Exports
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Success 200 {file} binary
// @Router /students/{id}/result.pdf [get]
func (h *ExportHandler) ResultSheetPDF(c *gin.Context) {
	file, err := h.exports.ResultSheetPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stream(c, file)
}

func (h *ExportHandler) stream(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(200, file.ContentType, file.Data)
}
