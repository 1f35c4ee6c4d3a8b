package entities

import (
	"time"

	"github.com/google/uuid"
)

// UserRole represents marketplace roles
type UserRole string

const (
	UserRoleNGO     UserRole = "NGO"
	UserRoleAuditor UserRole = "auditor"
	UserRoleBuyer   UserRole = "buyer"
)

// ValidRole reports whether s is a known marketplace role.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case UserRoleNGO, UserRoleAuditor, UserRoleBuyer:
		return true
	}
	return false
}

// User represents a registered account. Immutable after creation except for
// the password hash.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SignupInput represents input for account creation
type SignupInput struct {
	Username     string `json:"username" binding:"required,min=3,max=64"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	Role         string `json:"role" binding:"required"`
	CaptchaToken string `json:"cf-turnstile-response"`
}

// LoginInput represents input for login
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// AuthResponse represents a successful login
type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	Role        UserRole `json:"role"`
}
