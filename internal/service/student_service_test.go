package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

type mockStudentRepo struct {
	students   map[string]models.Student
	lastFilter models.StudentFilter
	listTotal  int
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		student := s
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	m.lastFilter = filter
	students := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}
	return students, m.listTotal, nil
}

func (m *mockStudentRepo) ListAll(ctx context.Context) ([]models.Student, error) {
	students := make([]models.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	if _, exists := m.students[student.ID]; exists {
		return appErrors.Clone(appErrors.ErrDuplicateID, "")
	}
	m.students[student.ID] = *student
	return nil
}

func (m *mockStudentRepo) UpdateCredentials(ctx context.Context, id string, patch models.StudentPatch) error {
	s, ok := m.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	if patch.NewID != nil && *patch.NewID != id {
		if _, taken := m.students[*patch.NewID]; taken {
			return appErrors.Clone(appErrors.ErrDuplicateID, "")
		}
		delete(m.students, id)
		s.ID = *patch.NewID
	}
	if patch.FullName != nil {
		s.FullName = *patch.FullName
	}
	if patch.Password != nil {
		s.Password = *patch.Password
	}
	if patch.Semester != nil {
		s.Semester = *patch.Semester
	}
	m.students[s.ID] = s
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) ReplaceSubjects(ctx context.Context, studentID string, subjects []models.Subject) error {
	s, ok := m.students[studentID]
	if !ok {
		return sql.ErrNoRows
	}
	s.Subjects = subjects
	m.students[studentID] = s
	return nil
}

type mockInvalidator struct {
	invalidated []string
	purged      bool
}

func (m *mockInvalidator) Invalidate(ctx context.Context, studentID string) error {
	m.invalidated = append(m.invalidated, studentID)
	return nil
}

func (m *mockInvalidator) InvalidateAll(ctx context.Context) error {
	m.purged = true
	return nil
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, validator.New(), zap.NewNop())

	created, err := svc.CreateStudent(context.Background(), &models.Student{
		ID:       "S001",
		FullName: "Aarav Sharma",
		Password: "password",
		Semester: "Fall 2023",
		Subjects: []models.Subject{
			{Name: "Mathematics", Code: "MATH101", Credits: 3, Score: 92},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "A", created.Subjects[0].Grade)
	assert.Len(t, repo.students, 1)
}

func TestStudentServiceCreateDuplicate(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"S001": {ID: "S001"}}}
	svc := NewStudentService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.CreateStudent(context.Background(), &models.Student{
		ID:       "S001",
		FullName: "Clone",
		Password: "password",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateID.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateRename(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{
		"S001": {ID: "S001", FullName: "Aarav Sharma", Password: "password"},
	}}
	cache := &mockInvalidator{}
	svc := NewStudentService(repo, cache, validator.New(), zap.NewNop())

	newID := "S002"
	updated, err := svc.UpdateStudent(context.Background(), "S001", models.StudentPatch{NewID: &newID})
	require.NoError(t, err)
	assert.Equal(t, "S002", updated.ID)
	assert.Contains(t, cache.invalidated, "S001")
	assert.Contains(t, cache.invalidated, "S002")
}

func TestStudentServiceUpdateRenameCollision(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{
		"S001": {ID: "S001"},
		"S002": {ID: "S002"},
	}}
	svc := NewStudentService(repo, nil, validator.New(), zap.NewNop())

	newID := "S002"
	_, err := svc.UpdateStudent(context.Background(), "S001", models.StudentPatch{NewID: &newID})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateID.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateEmptyPatch(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.UpdateStudent(context.Background(), "S001", models.StudentPatch{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceReplaceSubjectsDerivesGrades(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]models.Student{"S001": {ID: "S001"}}}
	svc := NewStudentService(repo, nil, validator.New(), zap.NewNop())

	updated, err := svc.ReplaceSubjects(context.Background(), "S001", []models.Subject{
		{Name: "Mathematics", Code: "MATH101", Credits: 3, Score: 85},
		{Name: "Physics", Code: "PHY101", Credits: 3, Score: 55},
	})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Subjects[0].Grade)
	assert.Equal(t, "F", updated.Subjects[1].Grade)
}

func TestStudentServiceDeleteMissing(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, validator.New(), zap.NewNop())

	err := svc.DeleteStudent(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceListClampsPagination(t *testing.T) {
	repo := &mockStudentRepo{listTotal: 0}
	svc := NewStudentService(repo, nil, validator.New(), zap.NewNop())

	_, pagination, err := svc.ListStudents(context.Background(), models.StudentFilter{Page: -1, PageSize: 5000})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, repo.lastFilter.Page)
	assert.Equal(t, 20, repo.lastFilter.PageSize)
}
