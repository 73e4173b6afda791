package handler

import (
	"errors"
	"net/http"

	"github.com/justichain/justichain/internal/api/middleware"
	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/api/response"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

// writeDomainError maps registry error taxonomy to problem responses.
// Capability failures are 403 (the caller is authenticated, just not
// allowed); lifecycle violations are 409.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := middleware.GetRequestID(r.Context())

	switch {
	case errors.Is(err, registry.ErrUnauthorized):
		response.Error(w, r, models.NewForbidden(traceID, "insufficient role for this operation"))
	case errors.Is(err, registry.ErrNotFound):
		response.NotFound(w, r, err.Error())
	case errors.Is(err, registry.ErrInvalidTransition),
		errors.Is(err, registry.ErrAlreadyResolved),
		errors.Is(err, registry.ErrRoleMismatch):
		response.Conflict(w, r, err.Error())
	case errors.Is(err, registry.ErrInvalidDigest),
		errors.Is(err, registry.ErrInvalidArgument),
		errors.Is(err, rbac.ErrUnknownRole):
		response.BadRequest(w, r, err.Error(), nil)
	default:
		response.InternalError(w, r, "operation failed")
	}
}
