package authz

import (
	"fmt"
	"time"
)

// Session is the authenticated identity attached to a request. It is a
// snapshot of the claims captured at token issuance; IsActive reflects the
// account state at that moment, not necessarily now (see auth.ActiveChecker
// for the live re-check).
type Session struct {
	UserID    string
	Role      Role
	TenantID  string
	IsActive  bool
	TokenID   string
	ExpiresAt time.Time
}

// TenantScope constrains which rows a query may touch. A zero TenantID
// means unrestricted (global role); otherwise every query must carry the
// tenant predicate.
type TenantScope struct {
	TenantID string
}

// IsGlobal reports whether the scope places no tenant restriction.
func (s TenantScope) IsGlobal() bool {
	return s.TenantID == ""
}

// Apply appends the tenant predicate to a query that already has a WHERE
// clause. A global scope returns the inputs unchanged.
func (s TenantScope) Apply(query string, args []any) (string, []any) {
	if s.IsGlobal() {
		return query, args
	}
	query += fmt.Sprintf(" AND tenant_id = $%d", len(args)+1)
	return query, append(args, s.TenantID)
}

// Decision is the outcome of an authorization check. Reason is set only on
// denial and names the role and module, never underlying data.
type Decision struct {
	Allowed bool
	Reason  string
	Scope   TenantScope
}

// Engine answers "may this session access this module". It is a pure
// function of (session, module, table): no shared mutable state, safe for
// concurrent use.
type Engine struct {
	table PermissionTable
}

// NewEngine constructs an Engine over the given permission table. Pass
// DefaultPermissions() for the standard policy.
func NewEngine(table PermissionTable) *Engine {
	return &Engine{table: table}
}

// HasModuleAccess exposes the table lookup directly.
func (e *Engine) HasModuleAccess(role Role, module string) bool {
	return e.table.HasModuleAccess(role, module)
}

// Modules lists the registered module names.
func (e *Engine) Modules() []string {
	return e.table.Modules()
}

// Authorize decides whether the session may access the module. A nil
// session or inactive account is denied before any table lookup. An empty
// module string is a programming error and panics.
func (e *Engine) Authorize(sess *Session, module string) Decision {
	if module == "" {
		panic("authz: empty module name")
	}
	if sess == nil {
		return Decision{Reason: "unauthenticated"}
	}
	if !sess.IsActive {
		return Decision{Reason: "account deactivated"}
	}
	if !e.table.HasModuleAccess(sess.Role, module) {
		return Decision{Reason: fmt.Sprintf("role %s may not access module %s", sess.Role, module)}
	}
	scope := TenantScope{}
	if sess.Role != RoleSuperAdmin {
		scope.TenantID = sess.TenantID
	}
	return Decision{Allowed: true, Scope: scope}
}
