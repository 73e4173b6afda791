package registry

import "errors"

// Error taxonomy shared by all registry components. Domain services
// return these (possibly wrapped); the HTTP layer maps them to problem
// responses.
var (
	// ErrUnauthorized means a capability check failed for the acting
	// identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound means the referenced case, document, or request does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition means a lifecycle ordering was violated or a
	// terminal entity was mutated.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrAlreadyResolved means a data-subject request is no longer
	// pending.
	ErrAlreadyResolved = errors.New("request already resolved")

	// ErrRoleMismatch means the target identity lacks the role required
	// for an assignment.
	ErrRoleMismatch = errors.New("role mismatch")

	// ErrInvalidDigest means a wire value is not a well-formed digest.
	ErrInvalidDigest = errors.New("invalid digest")

	// ErrInvalidArgument means a request value fails validation: an
	// unknown enum value, a non-positive duration, a timestamp outside
	// its allowed range.
	ErrInvalidArgument = errors.New("invalid argument")
)
