// Package document provides the per-case document store. Documents are
// immutable after submission; the registry stores digests and key
// references, never plaintext. Readability of encrypted content is
// derived from the key ledger at read time.
package document

import (
	"time"

	"github.com/justichain/justichain/internal/registry"
)

// Document is a submitted case document. DocID is sequential per case
// starting at 1.
type Document struct {
	CaseID           int64
	DocID            int64
	ContentHash      registry.Digest
	DocumentTypeHash registry.Digest
	EncryptionKeyRef registry.Digest
	IsEncrypted      bool
	SubmittedBy      registry.Identity
	SubmittedAt      time.Time
}

// View is a document together with its derived readability. Accessible
// is computed against the key ledger on every read and never cached;
// an unencrypted document is always accessible.
type View struct {
	Document
	Accessible bool
}
