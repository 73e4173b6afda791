package rbac

import (
	"context"
	"sync"

	"github.com/justichain/justichain/internal/registry"
)

// InMemoryRepository is an in-memory implementation of Repository for
// testing and single-node deployments.
type InMemoryRepository struct {
	mu     sync.RWMutex
	grants map[registry.Identity]map[Role]*Assignment
}

// NewInMemoryRepository creates a new in-memory role repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		grants: make(map[registry.Identity]map[Role]*Assignment),
	}
}

// HasRole reports whether the identity holds the role.
func (r *InMemoryRepository) HasRole(_ context.Context, identity registry.Identity, role Role) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles, ok := r.grants[identity]
	if !ok {
		return false, nil
	}
	_, held := roles[role]
	return held, nil
}

// Grant records a role assignment.
func (r *InMemoryRepository) Grant(_ context.Context, assignment *Assignment) error {
	if !assignment.Role.Valid() {
		return ErrUnknownRole
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	roles, ok := r.grants[assignment.Identity]
	if !ok {
		roles = make(map[Role]*Assignment)
		r.grants[assignment.Identity] = roles
	}
	if _, held := roles[assignment.Role]; held {
		return nil
	}
	roles[assignment.Role] = assignment
	return nil
}

// ListRoles returns all roles held by the identity.
func (r *InMemoryRepository) ListRoles(_ context.Context, identity registry.Identity) ([]Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var roles []Role
	for _, candidate := range []Role{RoleAdmin, RoleJudge, RoleDPO} {
		if _, held := r.grants[identity][candidate]; held {
			roles = append(roles, candidate)
		}
	}
	return roles, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
