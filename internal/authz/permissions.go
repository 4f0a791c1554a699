package authz

// Canonical module names. Routes register access checks using these
// constants; the permission table below is keyed by them. A module name
// absent from the table falls through to deny-by-default, so a typo on
// either side fails closed.
const (
	ModuleUsers         = "users"
	ModuleRoles         = "roles"
	ModuleStudents      = "students"
	ModuleStaff         = "staff"
	ModuleFinance       = "finance"
	ModuleLibrary       = "library"
	ModuleHostel        = "hostel"
	ModuleTransport     = "transport"
	ModuleCanteen       = "canteen"
	ModuleLMS           = "lms"
	ModuleAdmissions    = "admissions"
	ModuleAcademicYears = "academic-years"
)

// PermissionTable maps a module name to the set of roles allowed to access
// it. It is built once at startup and never mutated afterwards.
type PermissionTable map[string]map[Role]struct{}

// DefaultPermissions builds the static module permission table.
// RoleSuperAdmin is intentionally absent from every entry: it is handled by
// the global bypass in HasModuleAccess, not by table membership.
func DefaultPermissions() PermissionTable {
	entries := map[string][]Role{
		ModuleUsers:         {RoleAdmin},
		ModuleRoles:         {RoleAdmin},
		ModuleStudents:      {RoleAdmin, RolePrincipal, RoleTeacher, RoleReceptionist},
		ModuleStaff:         {RoleAdmin, RolePrincipal},
		ModuleFinance:       {RoleAdmin, RolePrincipal, RoleAccountant},
		ModuleLibrary:       {RoleAdmin, RoleLibrarian},
		ModuleHostel:        {RoleAdmin, RoleHostelWarden},
		ModuleTransport:     {RoleAdmin, RoleTransportManager},
		ModuleCanteen:       {RoleAdmin, RoleAccountant, RoleReceptionist},
		ModuleLMS:           {RoleAdmin, RolePrincipal, RoleTeacher, RoleStudent, RoleParent},
		ModuleAdmissions:    {RoleAdmin, RolePrincipal, RoleReceptionist},
		ModuleAcademicYears: {RoleAdmin, RolePrincipal},
	}
	table := make(PermissionTable, len(entries))
	for module, roles := range entries {
		set := make(map[Role]struct{}, len(roles))
		for _, r := range roles {
			set[r] = struct{}{}
		}
		table[module] = set
	}
	return table
}

// Modules returns the registered module names.
func (t PermissionTable) Modules() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	return names
}

// HasModuleAccess reports whether role may access module. Unregistered
// modules are super-admin only: the default is denial, not allowance, and
// that holds for module strings introduced after this table was written.
func (t PermissionTable) HasModuleAccess(role Role, module string) bool {
	if role == RoleSuperAdmin {
		return true
	}
	allowed, ok := t[module]
	if !ok {
		return false
	}
	_, ok = allowed[role]
	return ok
}
