package students

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sekolahku/sekolahku/internal/authz"
	"github.com/sekolahku/sekolahku/internal/shared"
)

// Service handles the student register business logic.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Enroll registers a new student. An empty admission number gets the next
// suggested one for the tenant; an explicit number must be unique within
// the tenant.
func (s *Service) Enroll(ctx context.Context, tenantID, createdBy string, req CreateStudentRequest) (*Student, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("%w: tenant required", shared.ErrValidation)
	}

	number := req.AdmissionNumber
	if number == "" {
		generated, err := s.repo.NextAdmissionNumber(ctx, tenantID)
		if err != nil {
			return nil, fmt.Errorf("generate admission number: %w", err)
		}
		number = generated
	}

	existing, err := s.repo.GetByAdmissionNumber(ctx, tenantID, number)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("check admission number: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: admission number already in use", shared.ErrDuplicate)
	}

	var dob *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date of birth", shared.ErrValidation)
		}
		dob = &parsed
	}

	student := Student{
		TenantID:        tenantID,
		AdmissionNumber: number,
		Name:            req.Name,
		ClassName:       req.ClassName,
		Section:         req.Section,
		DateOfBirth:     dob,
		Gender:          req.Gender,
		GuardianName:    req.GuardianName,
		GuardianPhone:   req.GuardianPhone,
		GuardianEmail:   req.GuardianEmail,
		Address:         req.Address,
		EnrolledAt:      time.Now(),
		IsActive:        true,
		Notes:           req.Notes,
		CreatedBy:       createdBy,
	}

	var id string
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		id, err = repo.Create(ctx, student)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("enroll student: %w", err)
	}
	student.ID = id
	return &student, nil
}

// Update applies a partial update within the scope.
func (s *Service) Update(ctx context.Context, scope authz.TenantScope, id string, req UpdateStudentRequest) (*Student, error) {
	existing, err := s.repo.Get(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ClassName != nil {
		updates["class_name"] = *req.ClassName
	}
	if req.Section != nil {
		updates["section"] = *req.Section
	}
	if req.GuardianName != nil {
		updates["guardian_name"] = *req.GuardianName
	}
	if req.GuardianPhone != nil {
		updates["guardian_phone"] = *req.GuardianPhone
	}
	if req.GuardianEmail != nil {
		updates["guardian_email"] = *req.GuardianEmail
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return existing, nil
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		return repo.Update(ctx, scope, id, updates)
	})
	if err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	return s.repo.Get(ctx, scope, id)
}

// Get fetches one student within the scope.
func (s *Service) Get(ctx context.Context, scope authz.TenantScope, id string) (*Student, error) {
	return s.repo.Get(ctx, scope, id)
}

// List returns students visible within the request scope.
func (s *Service) List(ctx context.Context, req ListStudentsRequest) ([]Student, int, error) {
	return s.repo.List(ctx, req)
}

// NextAdmissionNumber suggests a number for the enrollment form.
func (s *Service) NextAdmissionNumber(ctx context.Context, tenantID string) (string, error) {
	return s.repo.NextAdmissionNumber(ctx, tenantID)
}
