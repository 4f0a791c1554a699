package roles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sekolahku/sekolahku/internal/authz"
	"github.com/sekolahku/sekolahku/internal/shared"
)

type mockRepository struct {
	roles  map[int64]*CustomRole
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{roles: make(map[int64]*CustomRole), nextID: 1}
}

func (m *mockRepository) visible(scope authz.TenantScope, role *CustomRole) bool {
	return scope.IsGlobal() || role.TenantID == scope.TenantID
}

func (m *mockRepository) List(ctx context.Context, scope authz.TenantScope) ([]CustomRole, error) {
	var out []CustomRole
	for _, role := range m.roles {
		if m.visible(scope, role) {
			out = append(out, *role)
		}
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, scope authz.TenantScope, id int64) (*CustomRole, error) {
	role, ok := m.roles[id]
	if !ok || !m.visible(scope, role) {
		return nil, shared.ErrNotFound
	}
	copied := *role
	copied.Matrix = role.Matrix.Clone()
	return &copied, nil
}

func (m *mockRepository) GetByName(ctx context.Context, tenantID, name string) (*CustomRole, error) {
	for _, role := range m.roles {
		if role.TenantID == tenantID && role.Name == name {
			return role, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepository) Create(ctx context.Context, role CustomRole) (int64, error) {
	id := m.nextID
	m.nextID++
	role.ID = id
	m.roles[id] = &role
	return id, nil
}

func (m *mockRepository) UpdateMatrix(ctx context.Context, scope authz.TenantScope, id int64, matrix authz.Matrix) error {
	role, ok := m.roles[id]
	if !ok || !m.visible(scope, role) {
		return shared.ErrNotFound
	}
	role.Matrix = matrix
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, scope authz.TenantScope, id int64) error {
	role, ok := m.roles[id]
	if !ok || !m.visible(scope, role) {
		return shared.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

func newTestService() (*Service, *mockRepository) {
	repo := newMockRepository()
	return NewService(repo, authz.DefaultPermissions()), repo
}

func TestCreateCustomRole(t *testing.T) {
	svc, _ := newTestService()

	role, err := svc.Create(context.Background(), "school-1", "Exam Officer", "runs exams", authz.Matrix{
		authz.ModuleStudents: {View: true},
		authz.ModuleLMS:      {View: true, Edit: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "school-1", role.TenantID)
	assert.True(t, role.Matrix.Can(authz.ModuleLMS, authz.ActionEdit))
	assert.False(t, role.Matrix.Can(authz.ModuleFinance, authz.ActionView))
}

func TestCreateRejectsUnknownModulesAtWriteTime(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), "school-1", "Broken", "", authz.Matrix{
		"payroll": {View: true},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Empty(t, repo.roles, "invalid matrix must not be persisted")
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "school-1", "Exam Officer", "", nil)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "school-1", "Exam Officer", "", nil)
	require.ErrorIs(t, err, shared.ErrDuplicate)

	// Same name in another tenant is fine.
	_, err = svc.Create(ctx, "school-2", "Exam Officer", "", nil)
	require.NoError(t, err)
}

func TestSetPermissionReplacesSingleEntry(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	scope := authz.TenantScope{TenantID: "school-1"}

	created, err := svc.Create(ctx, "school-1", "Exam Officer", "", authz.Matrix{
		authz.ModuleStudents: {View: true},
		authz.ModuleLMS:      {View: true, Edit: true},
	})
	require.NoError(t, err)

	updated, err := svc.SetPermission(ctx, scope, created.ID, authz.ModuleStudents, authz.ActionSet{View: true, Create: true})
	require.NoError(t, err)

	assert.True(t, updated.Matrix.Can(authz.ModuleStudents, authz.ActionCreate))
	// The LMS entry must be untouched by the students toggle.
	assert.Equal(t, authz.ActionSet{View: true, Edit: true}, updated.Matrix[authz.ModuleLMS])
}

func TestSetPermissionRejectsUnknownModule(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	scope := authz.TenantScope{TenantID: "school-1"}

	created, err := svc.Create(ctx, "school-1", "Exam Officer", "", nil)
	require.NoError(t, err)

	_, err = svc.SetPermission(ctx, scope, created.ID, "payroll", authz.ActionSet{View: true})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestTenantIsolationOnCustomRoles(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "school-1", "Exam Officer", "", nil)
	require.NoError(t, err)

	otherScope := authz.TenantScope{TenantID: "school-2"}
	_, err = svc.Get(ctx, otherScope, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "another tenant must not see the role")

	err = svc.Delete(ctx, otherScope, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound, "another tenant must not delete the role")

	globalScope := authz.TenantScope{}
	_, err = svc.Get(ctx, globalScope, created.ID)
	assert.NoError(t, err, "global scope sees every tenant")
}
