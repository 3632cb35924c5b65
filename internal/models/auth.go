package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserRole distinguishes the two portal identities.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleAdmin   UserRole = "ADMIN"
)

// JWTClaims is the access token payload. StudentID is empty for admin tokens;
// sessions carry only the id and the live record is re-fetched per request.
type JWTClaims struct {
	StudentID string   `json:"student_id,omitempty"`
	Role      UserRole `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the student login payload.
type LoginRequest struct {
	StudentID string `json:"id" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// SignupRequest creates a new student account.
type SignupRequest struct {
	StudentID string `json:"id" validate:"required"`
	FullName  string `json:"name" validate:"required"`
	Password  string `json:"password" validate:"required,min=4"`
}

// AdminLoginRequest authenticates against the shared admin password.
type AdminLoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the authenticated identity.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
	Role        UserRole  `json:"role"`
	Student     *Student  `json:"student,omitempty"`
}
