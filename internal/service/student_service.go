package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bibash21-creator/result-finder-33/internal/gradebook"
	"github.com/bibash21-creator/result-finder-33/internal/models"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	Create(ctx context.Context, student *models.Student) error
	UpdateCredentials(ctx context.Context, id string, patch models.StudentPatch) error
	Delete(ctx context.Context, id string) error
	ReplaceSubjects(ctx context.Context, studentID string, subjects []models.Subject) error
}

type studentCacheInvalidator interface {
	Invalidate(ctx context.Context, studentID string) error
}

// StudentService exposes the administrative roster operations.
type StudentService struct {
	repo      studentRepository
	cache     studentCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentRepository, cache studentCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// GetStudent returns a single student with subjects attached.
func (s *StudentService) GetStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	return student, nil
}

// ListStudents returns a paginated roster slice matching the filter.
func (s *StudentService) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return students, pagination, nil
}

// CreateStudent registers a student record. Subject grades are derived from
// the supplied scores before the record is persisted.
func (s *StudentService) CreateStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	if err := s.validator.Struct(student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	for i := range student.Subjects {
		student.Subjects[i].Grade = gradebook.Classify(student.Subjects[i].Score)
	}

	if err := s.repo.Create(ctx, student); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	s.logger.Info("student created", zap.String("student_id", student.ID))
	return student, nil
}

// UpdateStudent applies a partial credential update, optionally renaming the
// student identifier. Subjects travel with the record on a rename.
func (s *StudentService) UpdateStudent(ctx context.Context, id string, patch models.StudentPatch) (*models.Student, error) {
	if patch.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validator.Struct(patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student patch")
	}

	if err := s.repo.UpdateCredentials(ctx, id, patch); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}

	effectiveID := id
	if patch.NewID != nil {
		effectiveID = *patch.NewID
	}
	s.invalidate(ctx, id, effectiveID)

	return s.GetStudent(ctx, effectiveID)
}

// ReplaceSubjects swaps the full subject list for a student. Grades are
// recomputed from the incoming scores.
func (s *StudentService) ReplaceSubjects(ctx context.Context, id string, subjects []models.Subject) (*models.Student, error) {
	for i := range subjects {
		if err := s.validator.Struct(&subjects[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
		}
		subjects[i].Grade = gradebook.Classify(subjects[i].Score)
	}

	if err := s.repo.ReplaceSubjects(ctx, id, subjects); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to replace subjects")
	}

	s.invalidate(ctx, id)
	return s.GetStudent(ctx, id)
}

// DeleteStudent removes a student and all attached subjects.
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}

	s.invalidate(ctx, id)
	s.logger.Info("student deleted", zap.String("student_id", id))
	return nil
}

func (s *StudentService) invalidate(ctx context.Context, ids ...string) {
	if s.cache == nil {
		return
	}
	for _, id := range ids {
		if err := s.cache.Invalidate(ctx, id); err != nil {
			s.logger.Warn("failed to invalidate result cache", zap.String("student_id", id), zap.Error(err))
		}
	}
}
