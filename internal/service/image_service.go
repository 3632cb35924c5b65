package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

type imageStudentRepository interface {
	SetResultImage(ctx context.Context, studentID, payload string) error
	ClearResultImage(ctx context.Context, studentID string) error
}

// ImageService attaches scanned result sheets to student records. Images are
// stored inline on the record as base64 data URLs, keeping parity with the
// portal this service replaces.
type ImageService struct {
	repo     imageStudentRepository
	cache    studentCacheInvalidator
	maxBytes int64
	logger   *zap.Logger
}

// NewImageService constructs an ImageService instance.
func NewImageService(repo imageStudentRepository, cache studentCacheInvalidator, maxBytes int64, logger *zap.Logger) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &ImageService{repo: repo, cache: cache, maxBytes: maxBytes, logger: logger}
}

// Attach validates and stores an uploaded image on the student record.
func (s *ImageService) Attach(ctx context.Context, studentID string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "empty image upload")
	}
	if int64(len(data)) > s.maxBytes {
		return "", appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("image exceeds the %d byte limit", s.maxBytes))
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("unsupported content type %q, expected an image", contentType))
	}

	payload := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
	if err := s.repo.SetResultImage(ctx, studentID, payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store result image")
	}

	s.invalidate(ctx, studentID)
	s.logger.Info("result image attached",
		zap.String("student_id", studentID),
		zap.String("content_type", contentType),
		zap.Int("size_bytes", len(data)))
	return payload, nil
}

// Detach removes the stored image from the student record.
func (s *ImageService) Detach(ctx context.Context, studentID string) error {
	if err := s.repo.ClearResultImage(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear result image")
	}

	s.invalidate(ctx, studentID)
	return nil
}

func (s *ImageService) invalidate(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, studentID); err != nil {
		s.logger.Warn("failed to invalidate result cache", zap.String("student_id", studentID), zap.Error(err))
	}
}
