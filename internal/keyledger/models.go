// Package keyledger tracks revocation of encryption-key references.
// Revocation is the erasure primitive: document ciphertext is never
// deleted, but once its key reference is revoked the content is
// permanently unreadable.
package keyledger

import (
	"time"

	"github.com/justichain/justichain/internal/registry"
)

// Revocation records the revocation of a key reference. The set is
// append-only: a revoked key is never un-revoked.
type Revocation struct {
	KeyRef    registry.Digest
	CaseID    int64
	RevokedBy registry.Identity
	RevokedAt time.Time
}
