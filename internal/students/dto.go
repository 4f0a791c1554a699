package students

import "github.com/sekolahku/sekolahku/internal/authz"

type CreateStudentRequest struct {
	AdmissionNumber string  `json:"admission_number"`
	Name            string  `json:"name" validate:"required,max=200"`
	ClassName       string  `json:"class_name" validate:"required,max=50"`
	Section         *string `json:"section,omitempty"`
	DateOfBirth     *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender          *string `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	GuardianName    *string `json:"guardian_name,omitempty"`
	GuardianPhone   *string `json:"guardian_phone,omitempty"`
	GuardianEmail   *string `json:"guardian_email,omitempty" validate:"omitempty,email"`
	Address         *string `json:"address,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

type UpdateStudentRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,max=200"`
	ClassName     *string `json:"class_name,omitempty" validate:"omitempty,max=50"`
	Section       *string `json:"section,omitempty"`
	GuardianName  *string `json:"guardian_name,omitempty"`
	GuardianPhone *string `json:"guardian_phone,omitempty"`
	GuardianEmail *string `json:"guardian_email,omitempty" validate:"omitempty,email"`
	Address       *string `json:"address,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

type ListStudentsRequest struct {
	Scope     authz.TenantScope
	ClassName string
	IsActive  *bool
	Search    string
	Page      int
	PerPage   int
}
