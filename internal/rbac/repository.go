package rbac

import (
	"context"

	"github.com/justichain/justichain/internal/registry"
)

// Repository defines the interface for role assignment storage.
type Repository interface {
	// HasRole reports whether the identity holds the role.
	HasRole(ctx context.Context, identity registry.Identity, role Role) (bool, error)

	// Grant records a role assignment. Granting an already-held role is
	// a no-op.
	Grant(ctx context.Context, assignment *Assignment) error

	// ListRoles returns all roles held by the identity.
	ListRoles(ctx context.Context, identity registry.Identity) ([]Role, error)
}
