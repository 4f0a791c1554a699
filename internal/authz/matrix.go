package authz

import (
	"fmt"
	"sort"
)

// Action names one of the four operations a custom role can be granted on a
// module.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// ActionSet holds the per-module grants of a custom role. Each module's set
// is an independent value: replacing one entry in a Matrix never touches
// another module's grants.
type ActionSet struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// Allows reports whether the set grants the action.
func (a ActionSet) Allows(action Action) bool {
	switch action {
	case ActionView:
		return a.View
	case ActionCreate:
		return a.Create
	case ActionEdit:
		return a.Edit
	case ActionDelete:
		return a.Delete
	default:
		return false
	}
}

// Matrix is a custom role's permission matrix: module name to action
// grants. A module absent from the matrix grants nothing.
type Matrix map[string]ActionSet

// Can reports whether the matrix grants action on module. Missing module
// keys deny all four actions.
func (m Matrix) Can(module string, action Action) bool {
	set, ok := m[module]
	if !ok {
		return false
	}
	return set.Allows(action)
}

// Set replaces the grants for a single module, leaving every other entry
// untouched.
func (m Matrix) Set(module string, grants ActionSet) {
	m[module] = grants
}

// Validate checks the matrix against the permission table at write time so
// malformed configuration fails fast instead of surfacing as silent denials
// at decision time.
func (m Matrix) Validate(table PermissionTable) error {
	unknown := make([]string, 0)
	for module := range m {
		if _, ok := table[module]; !ok {
			unknown = append(unknown, module)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("authz: matrix references unknown modules %v", unknown)
	}
	return nil
}

// Clone returns a deep copy of the matrix.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for module, set := range m {
		out[module] = set
	}
	return out
}
