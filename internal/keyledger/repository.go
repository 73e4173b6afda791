package keyledger

import (
	"context"

	"github.com/justichain/justichain/internal/registry"
)

// Repository defines the interface for revocation storage.
type Repository interface {
	// IsRevoked reports whether the key reference has been revoked.
	IsRevoked(ctx context.Context, keyRef registry.Digest) (bool, error)

	// Revoke appends a revocation. Revoking an already-revoked key is a
	// no-op; the original revocation record is preserved.
	Revoke(ctx context.Context, revocation *Revocation) error

	// Get returns the revocation record for a key reference, or nil if
	// the key has not been revoked.
	Get(ctx context.Context, keyRef registry.Digest) (*Revocation, error)
}
