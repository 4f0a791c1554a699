package users

import "github.com/sekolahku/sekolahku/internal/authz"

type CreateUserRequest struct {
	TenantID string `json:"tenant_id"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=200"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

type ListUsersRequest struct {
	Scope    authz.TenantScope
	Role     *authz.Role
	IsActive *bool
	Search   string
	Page     int
	PerPage  int
}
