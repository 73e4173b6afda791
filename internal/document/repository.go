package document

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned when a document is not found.
var ErrDocumentNotFound = errors.New("document not found")

// Repository defines the interface for document storage. Documents are
// append-only; there is no update or delete.
type Repository interface {
	// Create stores a new document, assigning the next sequential doc id
	// within the owning case. Returns the assigned doc id.
	Create(ctx context.Context, d *Document) (int64, error)

	// Get retrieves a document by case id and doc id.
	Get(ctx context.Context, caseID, docID int64) (*Document, error)

	// CountByCase returns the number of documents under a case.
	CountByCase(ctx context.Context, caseID int64) (int64, error)

	// ListByCase returns a case's documents in doc id order.
	ListByCase(ctx context.Context, caseID int64) ([]*Document, error)
}
