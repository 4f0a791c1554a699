package students

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sekolahku/sekolahku/internal/authz"
	"github.com/sekolahku/sekolahku/internal/platform/db"
	"github.com/sekolahku/sekolahku/internal/shared"
)

// Repository defines persistence operations for the student register.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, scope authz.TenantScope, id string) (*Student, error)
	GetByAdmissionNumber(ctx context.Context, tenantID, number string) (*Student, error)
	List(ctx context.Context, req ListStudentsRequest) ([]Student, int, error)
	Create(ctx context.Context, student Student) (string, error)
	Update(ctx context.Context, scope authz.TenantScope, id string, updates map[string]interface{}) error
	NextAdmissionNumber(ctx context.Context, tenantID string) (string, error)
}

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const studentColumns = `id, tenant_id, admission_number, name, class_name, section,
	date_of_birth, gender, guardian_name, guardian_phone, guardian_email,
	address, enrolled_at, is_active, notes, created_by, created_at, updated_at`

func (r *repository) Get(ctx context.Context, scope authz.TenantScope, id string) (*Student, error) {
	query, args := scope.Apply(fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns), []any{id})
	var st Student
	if err := scanStudent(r.db.QueryRow(ctx, query, args...), &st); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *repository) GetByAdmissionNumber(ctx context.Context, tenantID, number string) (*Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE tenant_id = $1 AND admission_number = $2", studentColumns)
	var st Student
	if err := scanStudent(r.db.QueryRow(ctx, query, tenantID, number), &st); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &st, nil
}

func (r *repository) List(ctx context.Context, req ListStudentsRequest) ([]Student, int, error) {
	var conditions []string
	var args []any
	argPos := 1

	if !req.Scope.IsGlobal() {
		conditions = append(conditions, fmt.Sprintf("tenant_id = $%d", argPos))
		args = append(args, req.Scope.TenantID)
		argPos++
	}
	if req.ClassName != "" {
		conditions = append(conditions, fmt.Sprintf("class_name = $%d", argPos))
		args = append(args, req.ClassName)
		argPos++
	}
	if req.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", argPos))
		args = append(args, *req.IsActive)
		argPos++
	}
	if req.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(admission_number ILIKE $%d OR name ILIKE $%d OR guardian_name ILIKE $%d)", argPos, argPos, argPos))
		args = append(args, "%"+req.Search+"%")
		argPos++
	}

	whereClause := ""
	for i, cond := range conditions {
		if i == 0 {
			whereClause = "WHERE " + cond
		} else {
			whereClause += " AND " + cond
		}
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM students %s", whereClause)
	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	query := fmt.Sprintf(`
		SELECT %s FROM students
		%s
		ORDER BY admission_number
		LIMIT $%d OFFSET $%d
	`, studentColumns, whereClause, argPos, argPos+1)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Student
	for rows.Next() {
		var st Student
		if err := scanStudent(rows, &st); err != nil {
			return nil, 0, err
		}
		out = append(out, st)
	}
	return out, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, student Student) (string, error) {
	id := uuid.NewString()
	const query = `
		INSERT INTO students (
			id, tenant_id, admission_number, name, class_name, section,
			date_of_birth, gender, guardian_name, guardian_phone, guardian_email,
			address, enrolled_at, is_active, notes, created_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, true, $14, $15, now(), now())
	`
	_, err := r.db.Exec(ctx, query,
		id, student.TenantID, student.AdmissionNumber, student.Name, student.ClassName, student.Section,
		student.DateOfBirth, student.Gender, student.GuardianName, student.GuardianPhone, student.GuardianEmail,
		student.Address, student.EnrolledAt, student.Notes, student.CreatedBy,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, scope authz.TenantScope, id string, updates map[string]interface{}) error {
	query := "UPDATE students SET updated_at = now()"
	var args []any
	argPos := 1

	for _, col := range []string{
		"name", "class_name", "section", "guardian_name", "guardian_phone",
		"guardian_email", "address", "is_active", "notes",
	} {
		if v, ok := updates[col]; ok {
			query += fmt.Sprintf(", %s = $%d", col, argPos)
			args = append(args, v)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d", argPos)
	args = append(args, id)
	query, args = scope.Apply(query, args)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// NextAdmissionNumber suggests the next number in the ADM-{YYYY}-{SEQ}
// pattern. The suggestion pre-fills the enrollment form; uniqueness is
// still enforced at insert time.
func (r *repository) NextAdmissionNumber(ctx context.Context, tenantID string) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("ADM-%d-", year)
	var count int64
	err := r.db.QueryRow(ctx,
		"SELECT count(*) FROM students WHERE tenant_id = $1 AND admission_number LIKE $2",
		tenantID, prefix+"%",
	).Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}

func scanStudent(row interface{ Scan(dest ...any) error }, st *Student) error {
	return row.Scan(
		&st.ID, &st.TenantID, &st.AdmissionNumber, &st.Name, &st.ClassName, &st.Section,
		&st.DateOfBirth, &st.Gender, &st.GuardianName, &st.GuardianPhone, &st.GuardianEmail,
		&st.Address, &st.EnrolledAt, &st.IsActive, &st.Notes, &st.CreatedBy, &st.CreatedAt, &st.UpdatedAt,
	)
}
