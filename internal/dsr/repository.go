package dsr

import (
	"context"
	"errors"

	"github.com/justichain/justichain/internal/registry"
)

// Repository errors.
var (
	ErrRequestNotFound = errors.New("request not found")

	// ErrStaleRequest is returned by conditional updates when the stored
	// request has already left Pending.
	ErrStaleRequest = errors.New("request modified concurrently")
)

// Repository defines the interface for request storage. Request ids
// are global, sequential from 1.
type Repository interface {
	// Create stores a new request and returns the assigned id.
	Create(ctx context.Context, r *Request) (int64, error)

	// Get retrieves a request by id.
	Get(ctx context.Context, id int64) (*Request, error)

	// Resolve applies the single Pending transition conditionally:
	// fails with ErrStaleRequest if the stored request is not Pending.
	Resolve(ctx context.Context, r *Request) error

	// ListPending returns pending requests in creation order.
	ListPending(ctx context.Context) ([]*Request, error)

	// ListByRequester returns the identity's requests in creation order.
	ListByRequester(ctx context.Context, requester registry.Identity) ([]*Request, error)
}
