package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

type mockSubjectRepo struct {
	students  map[string]models.Student
	lastGrade *string
	lastPatch models.SubjectPatch
}

func (m *mockSubjectRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		student := s
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubjectRepo) AddSubject(ctx context.Context, studentID string, subject *models.Subject) error {
	s, ok := m.students[studentID]
	if !ok {
		return sql.ErrNoRows
	}
	s.Subjects = append(s.Subjects, *subject)
	m.students[studentID] = s
	return nil
}

func (m *mockSubjectRepo) UpdateSubject(ctx context.Context, studentID, subjectID string, patch models.SubjectPatch, grade *string) error {
	m.lastPatch = patch
	m.lastGrade = grade
	if _, ok := m.students[studentID]; !ok {
		return sql.ErrNoRows
	}
	return nil
}

func TestSubjectServiceAddDerivesGrade(t *testing.T) {
	repo := &mockSubjectRepo{students: map[string]models.Student{"S001": {ID: "S001"}}}
	cache := &mockInvalidator{}
	svc := NewSubjectService(repo, cache, validator.New(), zap.NewNop())

	subject, err := svc.AddSubject(context.Background(), "S001", &models.Subject{
		Name:    "Chemistry",
		Code:    "CHEM101",
		Credits: 3,
		Score:   74.5,
	})
	require.NoError(t, err)
	assert.Equal(t, "C", subject.Grade)
	assert.Equal(t, []string{"S001"}, cache.invalidated)
}

func TestSubjectServiceAddUnknownStudent(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.AddSubject(context.Background(), "ghost", &models.Subject{
		Name: "Chemistry", Code: "CHEM101", Credits: 3, Score: 74.5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceAddRejectsZeroCredits(t *testing.T) {
	repo := &mockSubjectRepo{students: map[string]models.Student{"S001": {ID: "S001"}}}
	svc := NewSubjectService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.AddSubject(context.Background(), "S001", &models.Subject{
		Name: "Chemistry", Code: "CHEM101", Credits: 0, Score: 74.5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceUpdateScoreCarriesGrade(t *testing.T) {
	repo := &mockSubjectRepo{students: map[string]models.Student{"S001": {ID: "S001"}}}
	svc := NewSubjectService(repo, nil, validator.New(), zap.NewNop())

	score := 91.0
	err := svc.UpdateSubject(context.Background(), "S001", "sub-1", models.SubjectPatch{Score: &score})
	require.NoError(t, err)
	require.NotNil(t, repo.lastGrade)
	assert.Equal(t, "A", *repo.lastGrade)
}

func TestSubjectServiceUpdateWithoutScoreOmitsGrade(t *testing.T) {
	repo := &mockSubjectRepo{students: map[string]models.Student{"S001": {ID: "S001"}}}
	svc := NewSubjectService(repo, nil, validator.New(), zap.NewNop())

	name := "Advanced Mathematics"
	err := svc.UpdateSubject(context.Background(), "S001", "sub-1", models.SubjectPatch{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, repo.lastGrade)
}

func TestSubjectServiceUpdateEmptyPatch(t *testing.T) {
	svc := NewSubjectService(&mockSubjectRepo{}, nil, validator.New(), zap.NewNop())

	err := svc.UpdateSubject(context.Background(), "S001", "sub-1", models.SubjectPatch{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceListSubjects(t *testing.T) {
	repo := &mockSubjectRepo{students: map[string]models.Student{
		"S001": {ID: "S001", Subjects: []models.Subject{{Code: "MATH101"}, {Code: "PHY101"}}},
	}}
	svc := NewSubjectService(repo, nil, validator.New(), zap.NewNop())

	subjects, err := svc.ListSubjects(context.Background(), "S001")
	require.NoError(t, err)
	assert.Len(t, subjects, 2)
}
