package caseregistry

import (
	"context"
	"errors"
)

// Repository errors.
var (
	ErrCaseNotFound = errors.New("case not found")

	// ErrStaleCase is returned by conditional updates when the stored
	// case no longer matches the expected state. The caller re-reads
	// and re-validates.
	ErrStaleCase = errors.New("case modified concurrently")
)

// ListOptions controls case enumeration.
type ListOptions struct {
	// IncludeArchived includes Archived cases. Default listings exclude
	// them; compliance exports include them.
	IncludeArchived bool
}

// Repository defines the interface for case storage. Case ids are
// positive integers assigned sequentially from 1 and never reused;
// cases are never deleted.
type Repository interface {
	// Create stores a new case, assigning the next sequential id.
	// Returns the assigned id.
	Create(ctx context.Context, c *Case) (int64, error)

	// Get retrieves a case by id.
	Get(ctx context.Context, id int64) (*Case, error)

	// Exists reports whether a case id is assigned.
	Exists(ctx context.Context, id int64) (bool, error)

	// Count returns the number of registered cases (equal to the
	// highest assigned id).
	Count(ctx context.Context) (int64, error)

	// List returns cases in id order.
	List(ctx context.Context, opts ListOptions) ([]*Case, error)

	// Update replaces a stored case. The update is conditional on the
	// stored status matching expectedStatus, making each lifecycle
	// transition an indivisible unit; returns ErrStaleCase otherwise.
	Update(ctx context.Context, c *Case, expectedStatus CaseStatus) error
}
