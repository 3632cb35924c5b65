package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bibash21-creator/result-finder-33/internal/gradebook"
	"github.com/bibash21-creator/result-finder-33/internal/models"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

type resultStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type publicationReader interface {
	GetBool(ctx context.Context, key string) (bool, error)
}

type resultSummaryCache interface {
	GetSummary(ctx context.Context, studentID string) (*models.ResultSummary, error)
	SetSummary(ctx context.Context, summary *models.ResultSummary, ttl time.Duration) error
}

// ResultService assembles result summaries. Aggregates are always derived
// from the stored subject rows at read time; nothing is precomputed in the
// database.
type ResultService struct {
	repo     resultStudentRepository
	settings publicationReader
	cache    resultSummaryCache
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewResultService constructs a ResultService instance. cache may be nil when
// Redis is disabled; metrics may be nil.
func NewResultService(repo resultStudentRepository, settings publicationReader, cache resultSummaryCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{repo: repo, settings: settings, cache: cache, cacheTTL: cacheTTL, metrics: metrics, logger: logger}
}

// GetSummary returns the aggregated result sheet for one student. When the
// caller is a student the publication flag gates access; administrators see
// summaries regardless of the flag.
func (s *ResultService) GetSummary(ctx context.Context, studentID string, role models.UserRole) (*models.ResultSummary, error) {
	published, err := s.settings.GetBool(ctx, models.SettingKeyResultsPublished)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read publication flag")
	}
	if role != models.RoleAdmin && !published {
		return nil, appErrors.Clone(appErrors.ErrUnpublished, "")
	}

	if summary := s.fromCache(ctx, studentID); summary != nil {
		summary.Published = published
		return summary, nil
	}

	student, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}

	summary := s.buildSummary(student, published)
	s.toCache(ctx, summary)
	return summary, nil
}

func (s *ResultService) buildSummary(student *models.Student, published bool) *models.ResultSummary {
	return &models.ResultSummary{
		StudentID:    student.ID,
		FullName:     student.FullName,
		Semester:     student.Semester,
		Subjects:     student.Subjects,
		GPA:          gradebook.GPA(student.Subjects),
		AverageScore: gradebook.AverageScore(student.Subjects),
		TotalCredits: gradebook.TotalCredits(student.Subjects),
		ResultImage:  student.ResultImage,
		Published:    published,
		GeneratedAt:  time.Now().UTC(),
	}
}

func (s *ResultService) fromCache(ctx context.Context, studentID string) *models.ResultSummary {
	if s.cache == nil {
		return nil
	}
	summary, err := s.cache.GetSummary(ctx, studentID)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			s.metrics.RecordCacheOperation(false)
		} else {
			s.logger.Warn("result cache read failed", zap.String("student_id", studentID), zap.Error(err))
		}
		return nil
	}
	s.metrics.RecordCacheOperation(true)
	return summary
}

func (s *ResultService) toCache(ctx context.Context, summary *models.ResultSummary) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetSummary(ctx, summary, s.cacheTTL); err != nil {
		s.logger.Warn("result cache write failed", zap.String("student_id", summary.StudentID), zap.Error(err))
	}
}
