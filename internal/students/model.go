package students

import "time"

type Student struct {
	ID              string     `json:"id" db:"id"`
	TenantID        string     `json:"tenant_id" db:"tenant_id"`
	AdmissionNumber string     `json:"admission_number" db:"admission_number"`
	Name            string     `json:"name" db:"name"`
	ClassName       string     `json:"class_name" db:"class_name"`
	Section         *string    `json:"section,omitempty" db:"section"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender          *string    `json:"gender,omitempty" db:"gender"`
	GuardianName    *string    `json:"guardian_name,omitempty" db:"guardian_name"`
	GuardianPhone   *string    `json:"guardian_phone,omitempty" db:"guardian_phone"`
	GuardianEmail   *string    `json:"guardian_email,omitempty" db:"guardian_email"`
	Address         *string    `json:"address,omitempty" db:"address"`
	EnrolledAt      time.Time  `json:"enrolled_at" db:"enrolled_at"`
	IsActive        bool       `json:"is_active" db:"is_active"`
	Notes           *string    `json:"notes,omitempty" db:"notes"`
	CreatedBy       string     `json:"created_by" db:"created_by"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}
