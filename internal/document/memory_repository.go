package document

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository for
// testing and single-node deployments.
type InMemoryRepository struct {
	mu   sync.RWMutex
	docs map[int64][]*Document
}

// NewInMemoryRepository creates a new in-memory document repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		docs: make(map[int64][]*Document),
	}
}

// Create stores a new document and returns the assigned per-case doc id.
func (r *InMemoryRepository) Create(_ context.Context, d *Document) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *d
	stored.DocID = int64(len(r.docs[d.CaseID])) + 1
	r.docs[d.CaseID] = append(r.docs[d.CaseID], &stored)
	return stored.DocID, nil
}

// Get retrieves a document by case id and doc id.
func (r *InMemoryRepository) Get(_ context.Context, caseID, docID int64) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := r.docs[caseID]
	if docID < 1 || docID > int64(len(docs)) {
		return nil, ErrDocumentNotFound
	}
	copied := *docs[docID-1]
	return &copied, nil
}

// CountByCase returns the number of documents under a case.
func (r *InMemoryRepository) CountByCase(_ context.Context, caseID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.docs[caseID])), nil
}

// ListByCase returns a case's documents in doc id order.
func (r *InMemoryRepository) ListByCase(_ context.Context, caseID int64) ([]*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := r.docs[caseID]
	result := make([]*Document, 0, len(docs))
	for _, d := range docs {
		copied := *d
		result = append(result, &copied)
	}
	return result, nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
