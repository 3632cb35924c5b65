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

type subjectRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	AddSubject(ctx context.Context, studentID string, subject *models.Subject) error
	UpdateSubject(ctx context.Context, studentID, subjectID string, patch models.SubjectPatch, grade *string) error
}

// SubjectService manages the subject entries attached to student records.
// Grades never arrive from callers; every write that touches a score derives
// the letter grade here and hands both values to the repository so they land
// in a single statement.
type SubjectService struct {
	repo      subjectRepository
	cache     studentCacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs a SubjectService instance.
func NewSubjectService(repo subjectRepository, cache studentCacheInvalidator, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubjectService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// ListSubjects returns the subject entries for one student in display order.
func (s *SubjectService) ListSubjects(ctx context.Context, studentID string) ([]models.Subject, error) {
	student, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	return student.Subjects, nil
}

// AddSubject appends one subject to the student record, deriving the grade
// from the incoming score.
func (s *SubjectService) AddSubject(ctx context.Context, studentID string, subject *models.Subject) (*models.Subject, error) {
	if err := s.validator.Struct(subject); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}
	subject.Grade = gradebook.Classify(subject.Score)

	if err := s.repo.AddSubject(ctx, studentID, subject); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add subject")
	}

	s.invalidate(ctx, studentID)
	s.logger.Info("subject added",
		zap.String("student_id", studentID),
		zap.String("subject_code", subject.Code))
	return subject, nil
}

// UpdateSubject applies a partial update to one subject entry. When the patch
// carries a score the matching grade is computed and written alongside it.
func (s *SubjectService) UpdateSubject(ctx context.Context, studentID, subjectID string, patch models.SubjectPatch) error {
	if patch.Empty() {
		return appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if err := s.validator.Struct(patch); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject patch")
	}

	var grade *string
	if patch.Score != nil {
		g := gradebook.Classify(*patch.Score)
		grade = &g
	}

	if err := s.repo.UpdateSubject(ctx, studentID, subjectID, patch, grade); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update subject")
	}

	s.invalidate(ctx, studentID)
	return nil
}

func (s *SubjectService) invalidate(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, studentID); err != nil {
		s.logger.Warn("failed to invalidate result cache", zap.String("student_id", studentID), zap.Error(err))
	}
}
