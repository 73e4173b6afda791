// Package rbac provides the role registry: role assignments for
// identities and capability checks used by every mutating operation.
package rbac

import (
	"errors"
	"time"

	"github.com/justichain/justichain/internal/registry"
)

// Repository errors.
var (
	ErrUnknownRole = errors.New("unknown role")
)

// Role is one of the closed set of registry roles.
type Role string

const (
	// RoleAdmin may grant roles, assign judges, and trigger the
	// archival sweep.
	RoleAdmin Role = "ADMIN"

	// RoleJudge may be assigned to cases and manage assigned cases.
	RoleJudge Role = "JUDGE"

	// RoleDPO (Data Protection Officer) processes data-subject
	// requests and revokes encryption keys.
	RoleDPO Role = "DPO"
)

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleJudge, RoleDPO:
		return true
	}
	return false
}

// Assignment records a role granted to an identity. Grants are
// additive; there is no revocation operation.
type Assignment struct {
	Identity  registry.Identity
	Role      Role
	GrantedBy registry.Identity
	GrantedAt time.Time
}
