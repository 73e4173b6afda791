package caseregistry

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for
// testing and single-node deployments. A single mutex serializes all
// writes, matching the registry's single-writer model.
type InMemoryRepository struct {
	mu     sync.RWMutex
	cases  map[int64]*Case
	nextID int64
}

// NewInMemoryRepository creates a new in-memory case repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		cases:  make(map[int64]*Case),
		nextID: 1,
	}
}

// Create stores a new case and returns the assigned id.
func (r *InMemoryRepository) Create(_ context.Context, c *Case) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++

	stored := *c
	stored.ID = id
	r.cases[id] = &stored
	return id, nil
}

// Get retrieves a case by id.
func (r *InMemoryRepository) Get(_ context.Context, id int64) (*Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cases[id]
	if !ok {
		return nil, ErrCaseNotFound
	}
	copied := *c
	return &copied, nil
}

// Exists reports whether a case id is assigned.
func (r *InMemoryRepository) Exists(_ context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.cases[id]
	return ok, nil
}

// Count returns the number of registered cases.
func (r *InMemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.nextID - 1, nil
}

// List returns cases in id order.
func (r *InMemoryRepository) List(_ context.Context, opts ListOptions) ([]*Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cases := make([]*Case, 0, len(r.cases))
	for id := int64(1); id < r.nextID; id++ {
		c, ok := r.cases[id]
		if !ok {
			continue
		}
		if !opts.IncludeArchived && c.Status == StatusArchived {
			continue
		}
		copied := *c
		cases = append(cases, &copied)
	}
	return cases, nil
}

// Update replaces a stored case if its status matches expectedStatus.
func (r *InMemoryRepository) Update(_ context.Context, c *Case, expectedStatus CaseStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.cases[c.ID]
	if !ok {
		return ErrCaseNotFound
	}
	if stored.Status != expectedStatus {
		return ErrStaleCase
	}

	copied := *c
	r.cases[c.ID] = &copied
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
