package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bibash21-creator/result-finder-33/internal/models"
	"github.com/bibash21-creator/result-finder-33/internal/service"
)

type authRepoStub struct {
	students map[string]models.Student
}

func (s *authRepoStub) FindByCredentials(ctx context.Context, id, password string) (*models.Student, error) {
	if st, ok := s.students[id]; ok && st.Password == password {
		student := st
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if st, ok := s.students[id]; ok {
		student := st
		return &student, nil
	}
	return nil, sql.ErrNoRows
}

func (s *authRepoStub) Create(ctx context.Context, student *models.Student) error {
	s.students[student.ID] = *student
	return nil
}

func newAuthHandler() *AuthHandler {
	repo := &authRepoStub{students: map[string]models.Student{
		"S001": {ID: "S001", FullName: "Aarav Sharma", Password: "password"},
	}}
	auth := service.NewAuthService(repo, validator.New(), zap.NewNop(), service.AuthConfig{
		TokenSecret:   "test-secret",
		TokenExpiry:   time.Hour,
		AdminPassword: "admin123",
	})
	return NewAuthHandler(auth, nil)
}

func postJSON(t *testing.T, handler gin.HandlerFunc, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	c.Request = httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return w
}

func TestAuthHandlerLogin(t *testing.T) {
	handler := newAuthHandler()

	w := postJSON(t, handler.Login, "/auth/login", models.LoginRequest{StudentID: "S001", Password: "password"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access_token")
}

func TestAuthHandlerLoginWrongPassword(t *testing.T) {
	handler := newAuthHandler()

	w := postJSON(t, handler.Login, "/auth/login", models.LoginRequest{StudentID: "S001", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLoginMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAuthHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(`not json`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandlerAdminLogin(t *testing.T) {
	handler := newAuthHandler()

	w := postJSON(t, handler.AdminLogin, "/auth/admin/login", models.AdminLoginRequest{Password: "admin123"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)
}

func TestAuthHandlerSignup(t *testing.T) {
	handler := newAuthHandler()

	w := postJSON(t, handler.Signup, "/auth/signup", models.SignupRequest{StudentID: "S900", FullName: "New", Password: "secret"})
	assert.Equal(t, http.StatusCreated, w.Code)
}
