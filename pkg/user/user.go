package user

import (
	"errors"
	"strings"
	"time"
)

// ErrAlreadyExists is returned by a Directory when the email is already registered.
var ErrAlreadyExists = errors.New("user already exists")

// User represents the authenticated app user.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar,omitempty"`
	ChainAddress string    `json:"chainAddress,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Record is a directory entry: a user and its bcrypt credential hash.
// An empty hash means the user has no password (external sign-in only).
type Record struct {
	User         User
	PasswordHash string
}

// New creates a User stamped with now.
func New(id, email, name string, now time.Time) *User {
	return &User{
		ID:        id,
		Email:     NormalizeEmail(email),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeEmail returns the canonical form used to compare identifiers.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthState is the identity view observed by the UI.
type AuthState struct {
	User          *User  `json:"user"`
	Authenticated bool   `json:"authenticated"`
	Loading       bool   `json:"loading"`
	Error         string `json:"error,omitempty"`
}

// LoginRequest is the body of a credential login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password,omitzero"`
}

// SignupRequest is the body of a signup
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
}

// ForgotPasswordRequest is the body of a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}
