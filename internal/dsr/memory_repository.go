package dsr

import (
	"context"
	"sync"

	"github.com/justichain/justichain/internal/registry"
)

// InMemoryRepository is an in-memory implementation of Repository for
// testing and single-node deployments.
type InMemoryRepository struct {
	mu       sync.RWMutex
	requests map[int64]*Request
	nextID   int64
}

// NewInMemoryRepository creates a new in-memory request repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		requests: make(map[int64]*Request),
		nextID:   1,
	}
}

// Create stores a new request and returns the assigned id.
func (r *InMemoryRepository) Create(_ context.Context, req *Request) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++

	stored := *req
	stored.ID = id
	r.requests[id] = &stored
	return id, nil
}

// Get retrieves a request by id.
func (r *InMemoryRepository) Get(_ context.Context, id int64) (*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	copied := *req
	return &copied, nil
}

// Resolve applies the single Pending transition.
func (r *InMemoryRepository) Resolve(_ context.Context, req *Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[req.ID]
	if !ok {
		return ErrRequestNotFound
	}
	if stored.Status != StatusPending {
		return ErrStaleRequest
	}

	copied := *req
	r.requests[req.ID] = &copied
	return nil
}

// ListPending returns pending requests in creation order.
func (r *InMemoryRepository) ListPending(_ context.Context) ([]*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var pending []*Request
	for id := int64(1); id < r.nextID; id++ {
		req, ok := r.requests[id]
		if !ok || req.Status != StatusPending {
			continue
		}
		copied := *req
		pending = append(pending, &copied)
	}
	return pending, nil
}

// ListByRequester returns the identity's requests in creation order.
func (r *InMemoryRepository) ListByRequester(_ context.Context, requester registry.Identity) ([]*Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*Request
	for id := int64(1); id < r.nextID; id++ {
		req, ok := r.requests[id]
		if !ok || req.Requester != requester {
			continue
		}
		copied := *req
		result = append(result, &copied)
	}
	return result, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
