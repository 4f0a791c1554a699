package auth

import (
	"time"

	"github.com/sekolahku/sekolahku/internal/authz"
)

// User represents an authenticated user account.
type User struct {
	ID           string
	TenantID     string
	Email        string
	PasswordHash string
	Name         string
	Role         authz.Role
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
