package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sekolahku/sekolahku/internal/shared"
)

// dummyHash keeps the bcrypt cost of a lookup miss identical to a password
// mismatch, so response timing does not reveal whether an email exists.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// AuditEnqueuer queues the fire-and-forget login bookkeeping.
type AuditEnqueuer interface {
	EnqueueLoginAudit(ctx context.Context, userID string, at time.Time, ip, ua string) error
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	enqueuer AuditEnqueuer
	logger   *slog.Logger
}

// NewService constructs a new Service. enqueuer may be nil; login auditing
// then falls back to a direct write.
func NewService(repo Repository, enqueuer AuditEnqueuer, logger *slog.Logger) *Service {
	return &Service{repo: repo, enqueuer: enqueuer, logger: logger}
}

// Authenticate validates email/password credentials. An unknown email and a
// wrong password return the same ErrInvalidCredentials; only a deactivated
// account is distinguishable.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if password == "" {
		return nil, shared.ErrInvalidCredentials
	}
	user, err := s.repo.FindByEmail(ctx, shared.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Burn the same bcrypt cost as a real comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, shared.ErrAccountDeactivated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// RecordLogin performs the post-login bookkeeping: last-login timestamp and
// session audit trail. Best effort; a failure here never aborts the login.
func (s *Service) RecordLogin(ctx context.Context, userID string, ip, ua string) {
	now := time.Now()
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueLoginAudit(ctx, userID, now, ip, ua); err == nil {
			return
		} else if s.logger != nil {
			s.logger.Warn("enqueue login audit", slog.Any("error", err))
		}
	}
	if err := s.repo.TouchLastLogin(ctx, userID, now); err != nil && s.logger != nil {
		s.logger.Warn("touch last login", slog.Any("error", err))
	}
}

// RegisterSession persists the session audit record.
func (s *Service) RegisterSession(ctx context.Context, id, userID string, expiresAt time.Time, ip, ua string) error {
	return s.repo.CreateSession(ctx, id, userID, expiresAt, ip, ua)
}

// RemoveSession deletes a session audit record.
func (s *Service) RemoveSession(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}
