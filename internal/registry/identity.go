// Package registry holds the shared kernel of the JustiChain registry:
// identities, digests, the error taxonomy, and the clock abstraction.
package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Identity is an opaque caller identity (the registry's analog of an
// account address). The empty string means "not assigned".
type Identity string

// NoIdentity is the "not assigned" sentinel.
const NoIdentity Identity = ""

// IsZero reports whether the identity is the "not assigned" sentinel.
func (i Identity) IsZero() bool {
	return i == NoIdentity
}

// DigestLength is the byte length of a digest.
const DigestLength = 32

// Digest is a fixed-size opaque digest, serialized as 0x-prefixed
// lowercase hex. The registry never stores plaintext, only digests of
// it; producing the digest is the caller's responsibility.
type Digest string

// ZeroDigest is the "not set" sentinel digest.
const ZeroDigest Digest = "0x0000000000000000000000000000000000000000000000000000000000000000"

// HashText produces the digest of a human-readable input. Callers hash
// titles, classification labels, and legal-basis text before submitting
// them; the raw text never reaches the registry.
func HashText(text string) Digest {
	sum := sha256.Sum256([]byte(text))
	return Digest("0x" + hex.EncodeToString(sum[:]))
}

// ParseDigest validates the wire form of a digest. Accepts 0x-prefixed
// 64-char hex; normalizes to lowercase.
func ParseDigest(s string) (Digest, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return "", ErrInvalidDigest
	}
	body := s[2:]
	if len(body) != DigestLength*2 {
		return "", ErrInvalidDigest
	}
	if _, err := hex.DecodeString(body); err != nil {
		return "", ErrInvalidDigest
	}
	return Digest("0x" + strings.ToLower(body)), nil
}

// IsZero reports whether the digest is unset or the zero sentinel.
func (d Digest) IsZero() bool {
	return d == "" || d == ZeroDigest
}

func (d Digest) String() string {
	return string(d)
}
