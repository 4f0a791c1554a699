package roles

import (
	"time"

	"github.com/sekolahku/sekolahku/internal/authz"
)

// CustomRole is a tenant-defined role carrying a per-module action matrix.
// Custom roles are scoped to one tenant and never alter the fixed system
// role tables.
type CustomRole struct {
	ID          int64        `json:"id"`
	TenantID    string       `json:"tenant_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Matrix      authz.Matrix `json:"matrix"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
