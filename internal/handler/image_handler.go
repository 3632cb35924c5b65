package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bibash21-creator/result-finder-33/internal/service"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
	"github.com/bibash21-creator/result-finder-33/pkg/response"
)

// ImageHandler exposes result image upload endpoints.
type ImageHandler struct {
	images   *service.ImageService
	maxBytes int64
}

// NewImageHandler constructs ImageHandler.
func NewImageHandler(images *service.ImageService, maxBytes int64) *ImageHandler {
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &ImageHandler{images: images, maxBytes: maxBytes}
}

// Upload godoc
// @Summary Attach a result image to a student
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Student ID"
// @Param file formData file true "Image file"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/image [put]
func (h *ImageHandler) Upload(c *gin.Context) {
	data, err := h.readUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, err := h.images.Attach(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"resultImage": payload}, nil)
}

// Delete godoc
// @Summary Remove the result image of a student
// @Tags Images
// @Produce json
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id}/image [delete]
func (h *ImageHandler) Delete(c *gin.Context) {
	if err := h.images.Detach(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// readUpload accepts either a multipart form file under "file" or a raw body.
// The reader is capped one byte past the limit so oversized uploads surface
// as a validation error from the service rather than a broken stream.
func (h *ImageHandler) readUpload(c *gin.Context) ([]byte, error) {
	limit := h.maxBytes + 1

	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload")
		}
		defer src.Close()
		data, err := io.ReadAll(io.LimitReader(src, limit))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, limit))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload")
	}
	return data, nil
}
