package roles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sekolahku/sekolahku/internal/authz"
	"github.com/sekolahku/sekolahku/internal/shared"
)

// Repository defines persistence operations for custom roles.
type Repository interface {
	List(ctx context.Context, scope authz.TenantScope) ([]CustomRole, error)
	Get(ctx context.Context, scope authz.TenantScope, id int64) (*CustomRole, error)
	GetByName(ctx context.Context, tenantID, name string) (*CustomRole, error)
	Create(ctx context.Context, role CustomRole) (int64, error)
	UpdateMatrix(ctx context.Context, scope authz.TenantScope, id int64, matrix authz.Matrix) error
	Delete(ctx context.Context, scope authz.TenantScope, id int64) error
}

// PGRepository implements Repository using PostgreSQL. The matrix column is
// jsonb; it is validated before every write, never at read time.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) List(ctx context.Context, scope authz.TenantScope) ([]CustomRole, error) {
	query := `
		SELECT id, tenant_id, name, description, matrix, created_at, updated_at
		FROM custom_roles
	`
	args := []any{}
	if !scope.IsGlobal() {
		query += ` WHERE tenant_id = $1`
		args = append(args, scope.TenantID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CustomRole
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *role)
	}
	return out, rows.Err()
}

func (r *PGRepository) Get(ctx context.Context, scope authz.TenantScope, id int64) (*CustomRole, error) {
	query := `
		SELECT id, tenant_id, name, description, matrix, created_at, updated_at
		FROM custom_roles
		WHERE id = $1
	`
	query, args := scope.Apply(query, []any{id})
	role, err := scanRole(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

func (r *PGRepository) GetByName(ctx context.Context, tenantID, name string) (*CustomRole, error) {
	const query = `
		SELECT id, tenant_id, name, description, matrix, created_at, updated_at
		FROM custom_roles
		WHERE tenant_id = $1 AND name = $2
	`
	role, err := scanRole(r.pool.QueryRow(ctx, query, tenantID, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return role, nil
}

func (r *PGRepository) Create(ctx context.Context, role CustomRole) (int64, error) {
	matrix, err := json.Marshal(role.Matrix)
	if err != nil {
		return 0, fmt.Errorf("roles: marshal matrix: %w", err)
	}
	const query = `
		INSERT INTO custom_roles (tenant_id, name, description, matrix, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id
	`
	var id int64
	if err := r.pool.QueryRow(ctx, query, role.TenantID, role.Name, role.Description, matrix).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PGRepository) UpdateMatrix(ctx context.Context, scope authz.TenantScope, id int64, matrix authz.Matrix) error {
	data, err := json.Marshal(matrix)
	if err != nil {
		return fmt.Errorf("roles: marshal matrix: %w", err)
	}
	query, args := scope.Apply(`UPDATE custom_roles SET matrix = $2, updated_at = now() WHERE id = $1`, []any{id, data})
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, scope authz.TenantScope, id int64) error {
	query, args := scope.Apply(`DELETE FROM custom_roles WHERE id = $1`, []any{id})
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func scanRole(row pgx.Row) (*CustomRole, error) {
	var (
		role    CustomRole
		matrix  []byte
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&role.ID, &role.TenantID, &role.Name, &role.Description, &matrix, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(matrix, &role.Matrix); err != nil {
		return nil, fmt.Errorf("roles: unmarshal matrix: %w", err)
	}
	role.CreatedAt = created
	role.UpdatedAt = updated
	return &role, nil
}

var _ Repository = (*PGRepository)(nil)
