package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

type settingRepository interface {
	GetBool(ctx context.Context, key string) (bool, error)
	SetBool(ctx context.Context, key string, value bool) error
}

type summaryCachePurger interface {
	InvalidateAll(ctx context.Context) error
}

// PublicationService owns the single portal-wide publication flag.
type PublicationService struct {
	settings settingRepository
	cache    summaryCachePurger
	logger   *zap.Logger
}

// NewPublicationService constructs a PublicationService instance.
func NewPublicationService(settings settingRepository, cache summaryCachePurger, logger *zap.Logger) *PublicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicationService{settings: settings, cache: cache, logger: logger}
}

// IsPublished reports the current publication state. A missing row counts as
// unpublished.
func (s *PublicationService) IsPublished(ctx context.Context) (bool, error) {
	published, err := s.settings.GetBool(ctx, models.SettingKeyResultsPublished)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read publication flag")
	}
	return published, nil
}

// SetPublished flips the publication flag and drops every cached summary so
// students see the change immediately.
func (s *PublicationService) SetPublished(ctx context.Context, published bool) error {
	if err := s.settings.SetBool(ctx, models.SettingKeyResultsPublished, published); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write publication flag")
	}

	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.logger.Warn("failed to purge result cache", zap.Error(err))
		}
	}

	s.logger.Info("publication flag updated", zap.Bool("published", published))
	return nil
}
