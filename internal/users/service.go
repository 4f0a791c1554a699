package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/sekolahku/sekolahku/internal/authz"
	"github.com/sekolahku/sekolahku/internal/shared"
)

// StatusInvalidator drops a cached active-status verdict so a deactivation
// takes effect on the next request instead of waiting out the re-check
// interval.
type StatusInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// Notifier queues user-facing notifications.
type Notifier interface {
	EnqueueDeactivationNotice(ctx context.Context, email, name string) error
}

// Service handles user administration business logic.
type Service struct {
	repo        Repository
	invalidator StatusInvalidator
	notifier    Notifier
	logger      *slog.Logger
}

// NewService builds a Service instance. invalidator and notifier may be
// nil.
func NewService(repo Repository, invalidator StatusInvalidator, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, invalidator: invalidator, notifier: notifier, logger: logger}
}

// List returns users visible within the request scope.
func (s *Service) List(ctx context.Context, req ListUsersRequest) ([]User, int, error) {
	return s.repo.List(ctx, req)
}

// Get fetches one user within the scope.
func (s *Service) Get(ctx context.Context, scope authz.TenantScope, id string) (*User, error) {
	return s.repo.Get(ctx, scope, id)
}

// Create provisions a new account. Only a global session may create
// another SUPERADMIN; tenant admins create accounts inside their own
// tenant, which the handler enforces by overriding the tenant field.
func (s *Service) Create(ctx context.Context, creator *authz.Session, req CreateUserRequest) (*User, error) {
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, req.Role)
	}
	if role == authz.RoleSuperAdmin && creator.Role != authz.RoleSuperAdmin {
		return nil, fmt.Errorf("%w: only a super admin may create super admins", shared.ErrForbidden)
	}
	if req.TenantID == "" {
		return nil, fmt.Errorf("%w: tenant required", shared.ErrValidation)
	}

	email := shared.NormalizeEmail(req.Email)
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", shared.ErrDuplicate)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		TenantID: req.TenantID,
		Email:    email,
		Name:     req.Name,
		Role:     role,
		IsActive: true,
	}
	id, err := s.repo.Create(ctx, user, string(hashed))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	user.ID = id
	return &user, nil
}

// SetActive toggles the soft-delete flag. Deactivation invalidates the
// cached status verdict and queues a notification; both are best effort.
func (s *Service) SetActive(ctx context.Context, scope authz.TenantScope, id string, active bool) (*User, error) {
	if err := s.repo.SetActive(ctx, scope, id, active); err != nil {
		return nil, err
	}
	user, err := s.repo.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if !active {
		if s.invalidator != nil {
			s.invalidator.Invalidate(ctx, id)
		}
		if s.notifier != nil {
			if err := s.notifier.EnqueueDeactivationNotice(ctx, user.Email, user.Name); err != nil && s.logger != nil {
				s.logger.Warn("enqueue deactivation notice", slog.Any("error", err))
			}
		}
	}
	return user, nil
}
