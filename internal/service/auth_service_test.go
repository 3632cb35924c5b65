package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	appErrors "github.com/bibash21-creator/result-finder-33/pkg/errors"
)

type mockAuthRepo struct {
	students map[string]models.Student
}

func (m *mockAuthRepo) FindByCredentials(ctx context.Context, id, password string) (*models.Student, error) {
	if s, ok := m.students[id]; ok && s.Password == password {
		student := s
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		student := s
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.Student)
	}
	if _, exists := m.students[student.ID]; exists {
		return appErrors.Clone(appErrors.ErrDuplicateID, "")
	}
	m.students[student.ID] = *student
	return nil
}

func newTestAuthService(repo *mockAuthRepo) *AuthService {
	return NewAuthService(repo, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret:   "test-secret",
		TokenExpiry:   time.Hour,
		Issuer:        "result-portal",
		AdminPassword: "admin123",
	})
}

func TestAuthServiceLogin(t *testing.T) {
	repo := &mockAuthRepo{students: map[string]models.Student{
		"S001": {ID: "S001", FullName: "Aarav Sharma", Password: "password"},
	}}
	svc := newTestAuthService(repo)

	resp, err := svc.Login(context.Background(), models.LoginRequest{StudentID: "S001", Password: "password"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, models.RoleStudent, resp.Role)
	require.NotNil(t, resp.Student)
	assert.Equal(t, "S001", resp.Student.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "S001", claims.StudentID)
	assert.Equal(t, models.RoleStudent, claims.Role)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{students: map[string]models.Student{
		"S001": {ID: "S001", Password: "password"},
	}}
	svc := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), models.LoginRequest{StudentID: "S001", Password: "PASSWORD"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceLoginUnknownStudent(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{})

	_, err := svc.Login(context.Background(), models.LoginRequest{StudentID: "ghost", Password: "password"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceSignup(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{})

	resp, err := svc.Signup(context.Background(), models.SignupRequest{
		StudentID: "S100",
		FullName:  "New Student",
		Password:  "secret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Fall 2023", resp.Student.Semester)
	assert.Empty(t, resp.Student.Subjects)
}

func TestAuthServiceSignupDuplicateID(t *testing.T) {
	repo := &mockAuthRepo{students: map[string]models.Student{
		"S001": {ID: "S001", Password: "password"},
	}}
	svc := newTestAuthService(repo)

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		StudentID: "S001",
		FullName:  "Clone",
		Password:  "secret",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateID.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceAdminLogin(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{})

	resp, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, resp.Role)
	assert.Nil(t, resp.Student)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Empty(t, claims.StudentID)
}

func TestAuthServiceAdminLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{})

	_, err := svc.AdminLogin(context.Background(), models.AdminLoginRequest{Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsTampered(t *testing.T) {
	svc := newTestAuthService(&mockAuthRepo{})

	other := NewAuthService(&mockAuthRepo{}, validator.New(), zap.NewNop(), AuthConfig{
		TokenSecret: "different-secret",
		TokenExpiry: time.Hour,
	})
	resp, err := other.AdminLogin(context.Background(), models.AdminLoginRequest{Password: ""})
	require.Error(t, err)
	assert.Nil(t, resp)

	_, err = svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
