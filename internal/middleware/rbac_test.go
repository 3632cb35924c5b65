package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/bibash21-creator/result-finder-33/internal/models"
)

func performRBAC(t *testing.T, claims *models.JWTClaims, paramID string, allowed ...string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/"+paramID, nil)
	c.Params = gin.Params{{Key: "id", Value: paramID}}
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}
	RBAC(allowed...)(c)
	if !c.IsAborted() {
		c.Status(http.StatusOK)
	}
	return w.Code
}

func TestRBACAdminAllowed(t *testing.T) {
	code := performRBAC(t, &models.JWTClaims{Role: models.RoleAdmin}, "S001", string(models.RoleAdmin), "SELF")
	assert.Equal(t, http.StatusOK, code)
}

func TestRBACSelfAllowed(t *testing.T) {
	code := performRBAC(t, &models.JWTClaims{StudentID: "S001", Role: models.RoleStudent}, "S001", string(models.RoleAdmin), "SELF")
	assert.Equal(t, http.StatusOK, code)
}

func TestRBACOtherStudentForbidden(t *testing.T) {
	code := performRBAC(t, &models.JWTClaims{StudentID: "S002", Role: models.RoleStudent}, "S001", string(models.RoleAdmin), "SELF")
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRBACStudentForbiddenFromAdminRoute(t *testing.T) {
	code := performRBAC(t, &models.JWTClaims{StudentID: "S001", Role: models.RoleStudent}, "S001", string(models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRBACMissingClaims(t *testing.T) {
	code := performRBAC(t, nil, "S001", string(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, code)
}
