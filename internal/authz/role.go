package authz

import "fmt"

// Role identifies a user's organizational function. The set is closed:
// adding a role means adding it here and to the rank table below, nowhere
// else.
type Role string

const (
	// RoleSuperAdmin is the global role. It bypasses tenant scoping and
	// module permission tables entirely.
	RoleSuperAdmin       Role = "SUPERADMIN"
	RoleAdmin            Role = "ADMIN"
	RolePrincipal        Role = "PRINCIPAL"
	RoleTeacher          Role = "TEACHER"
	RoleAccountant       Role = "ACCOUNTANT"
	RoleLibrarian        Role = "LIBRARIAN"
	RoleTransportManager Role = "TRANSPORT_MANAGER"
	RoleHostelWarden     Role = "HOSTEL_WARDEN"
	RoleReceptionist     Role = "RECEPTIONIST"
	RoleParent           Role = "PARENT"
	RoleStudent          Role = "STUDENT"
)

// roleRanks is the single place ranks are defined. Ranks form a total
// preorder: ties are allowed (an Accountant and a Librarian are
// incomparable in practice and share a rank), comparisons are always
// well-defined.
var roleRanks = map[Role]int{
	RoleSuperAdmin:       100,
	RoleAdmin:            90,
	RolePrincipal:        80,
	RoleTeacher:          60,
	RoleAccountant:       50,
	RoleLibrarian:        50,
	RoleTransportManager: 50,
	RoleHostelWarden:     50,
	RoleReceptionist:     40,
	RoleParent:           20,
	RoleStudent:          10,
}

// AllRoles returns every defined role. The slice is freshly allocated on
// each call.
func AllRoles() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleAdmin,
		RolePrincipal,
		RoleTeacher,
		RoleAccountant,
		RoleLibrarian,
		RoleTransportManager,
		RoleHostelWarden,
		RoleReceptionist,
		RoleParent,
		RoleStudent,
	}
}

// ParseRole converts a stored role tag into a Role, rejecting unknown tags.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleRanks[r]; !ok {
		return "", fmt.Errorf("authz: unknown role %q", s)
	}
	return r, nil
}

// Valid reports whether the role is one of the defined tags.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the role's position in the hierarchy. Unknown roles rank
// below every defined role.
func (r Role) Rank() int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

// HasMinimumRole reports whether role ranks at or above minimum. This is a
// strict-hierarchy check; most access decisions use set membership via
// HasModuleAccess instead, because module permissions are not nested by
// rank.
func HasMinimumRole(role, minimum Role) bool {
	return role.Rank() >= minimum.Rank()
}
