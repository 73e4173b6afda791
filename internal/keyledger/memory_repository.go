package keyledger

import (
	"context"
	"sync"

	"github.com/justichain/justichain/internal/registry"
)

// InMemoryRepository is an in-memory implementation of Repository for
// testing and single-node deployments.
type InMemoryRepository struct {
	mu      sync.RWMutex
	revoked map[registry.Digest]*Revocation
}

// NewInMemoryRepository creates a new in-memory revocation repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		revoked: make(map[registry.Digest]*Revocation),
	}
}

// IsRevoked reports whether the key reference has been revoked.
func (r *InMemoryRepository) IsRevoked(_ context.Context, keyRef registry.Digest) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, revoked := r.revoked[keyRef]
	return revoked, nil
}

// Revoke appends a revocation, preserving any existing record.
func (r *InMemoryRepository) Revoke(_ context.Context, revocation *Revocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.revoked[revocation.KeyRef]; exists {
		return nil
	}
	r.revoked[revocation.KeyRef] = revocation
	return nil
}

// Get returns the revocation record, or nil if not revoked.
func (r *InMemoryRepository) Get(_ context.Context, keyRef registry.Digest) (*Revocation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.revoked[keyRef], nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
