package authz

import "testing"

// Unregistered modules must be denied for every role except the global one,
// no matter what the module string is.
func TestDenyByDefaultForUnregisteredModules(t *testing.T) {
	table := DefaultPermissions()
	unregistered := []string{"payroll", "module-added-next-year", "", "Finance", "finance "}
	for _, module := range unregistered {
		for _, role := range AllRoles() {
			got := table.HasModuleAccess(role, module)
			want := role == RoleSuperAdmin
			if got != want {
				t.Fatalf("HasModuleAccess(%s, %q) = %v, want %v", role, module, got, want)
			}
		}
	}
}

func TestSuperAdminBypassesEveryModule(t *testing.T) {
	table := DefaultPermissions()
	for _, module := range table.Modules() {
		if !table.HasModuleAccess(RoleSuperAdmin, module) {
			t.Fatalf("super admin denied on registered module %s", module)
		}
	}
	if !table.HasModuleAccess(RoleSuperAdmin, "no-such-module") {
		t.Fatalf("super admin denied on unregistered module")
	}
}

func TestRegisteredModuleMembership(t *testing.T) {
	table := DefaultPermissions()
	cases := []struct {
		role   Role
		module string
		want   bool
	}{
		{RoleAccountant, ModuleFinance, true},
		{RoleTeacher, ModuleFinance, false},
		{RoleLibrarian, ModuleLibrary, true},
		{RoleLibrarian, ModuleFinance, false},
		{RoleHostelWarden, ModuleHostel, true},
		{RoleTransportManager, ModuleTransport, true},
		{RoleStudent, ModuleLMS, true},
		{RoleStudent, ModuleStudents, false},
		{RoleAdmin, ModuleUsers, true},
		{RoleReceptionist, ModuleAdmissions, true},
	}
	for _, c := range cases {
		if got := table.HasModuleAccess(c.role, c.module); got != c.want {
			t.Fatalf("HasModuleAccess(%s, %s) = %v, want %v", c.role, c.module, got, c.want)
		}
	}
}

// Every canonical module constant must have a table entry. A constant
// without one would silently lock the module down to the global role.
func TestEveryCanonicalModuleIsRegistered(t *testing.T) {
	table := DefaultPermissions()
	modules := []string{
		ModuleUsers, ModuleRoles, ModuleStudents, ModuleStaff,
		ModuleFinance, ModuleLibrary, ModuleHostel, ModuleTransport,
		ModuleCanteen, ModuleLMS, ModuleAdmissions, ModuleAcademicYears,
	}
	for _, module := range modules {
		if _, ok := table[module]; !ok {
			t.Fatalf("module %s has no permission entry", module)
		}
	}
}

// Permission membership is not implied by rank: a higher-ranked role is not
// automatically allowed where a lower-ranked one is.
func TestMembershipIsNotHierarchy(t *testing.T) {
	table := DefaultPermissions()
	if table.HasModuleAccess(RoleTeacher, ModuleLibrary) {
		t.Fatalf("teacher outranks librarian but must not gain library access")
	}
	if !table.HasModuleAccess(RoleLibrarian, ModuleLibrary) {
		t.Fatalf("librarian must keep library access")
	}
}
