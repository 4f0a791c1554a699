package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sekolahku/sekolahku/internal/authz"
	"github.com/sekolahku/sekolahku/internal/shared"
)

// Service orchestrates custom role operations. Matrices are validated at
// write time against the static permission table so malformed configuration
// is rejected up front instead of silently denying at decision time.
type Service struct {
	repo  Repository
	table authz.PermissionTable
}

// NewService constructs a Service.
func NewService(repo Repository, table authz.PermissionTable) *Service {
	return &Service{repo: repo, table: table}
}

// List returns the custom roles visible within the scope.
func (s *Service) List(ctx context.Context, scope authz.TenantScope) ([]CustomRole, error) {
	return s.repo.List(ctx, scope)
}

// Get fetches one custom role within the scope.
func (s *Service) Get(ctx context.Context, scope authz.TenantScope, id int64) (*CustomRole, error) {
	return s.repo.Get(ctx, scope, id)
}

// Create inserts a new custom role for the tenant. Missing matrix entries
// stay missing: absence means all four actions denied.
func (s *Service) Create(ctx context.Context, tenantID, name, description string, matrix authz.Matrix) (*CustomRole, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: role name required", shared.ErrValidation)
	}
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant required", shared.ErrValidation)
	}
	if matrix == nil {
		matrix = authz.Matrix{}
	}
	if err := matrix.Validate(s.table); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrValidation, err)
	}

	existing, err := s.repo.GetByName(ctx, tenantID, name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("check existing role: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: role name already used", shared.ErrDuplicate)
	}

	role := CustomRole{
		TenantID:    tenantID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Matrix:      matrix.Clone(),
	}
	id, err := s.repo.Create(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	role.ID = id
	return &role, nil
}

// SetPermission replaces the action grants for a single module in a custom
// role's matrix. Other modules' entries are left byte-for-byte untouched.
func (s *Service) SetPermission(ctx context.Context, scope authz.TenantScope, id int64, module string, grants authz.ActionSet) (*CustomRole, error) {
	if _, ok := s.table[module]; !ok {
		return nil, fmt.Errorf("%w: unknown module %q", shared.ErrValidation, module)
	}
	role, err := s.repo.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	matrix := role.Matrix.Clone()
	matrix.Set(module, grants)
	if err := s.repo.UpdateMatrix(ctx, scope, id, matrix); err != nil {
		return nil, fmt.Errorf("update matrix: %w", err)
	}
	role.Matrix = matrix
	return role, nil
}

// Delete removes a custom role within the scope.
func (s *Service) Delete(ctx context.Context, scope authz.TenantScope, id int64) error {
	return s.repo.Delete(ctx, scope, id)
}
