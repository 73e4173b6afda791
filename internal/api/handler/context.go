package handler

import (
	"context"

	"github.com/justichain/justichain/internal/api/middleware"
	"github.com/justichain/justichain/internal/registry"
)

// GetIdentity retrieves the authenticated identity from the context.
// This is a convenience wrapper around middleware.GetIdentity.
func GetIdentity(ctx context.Context) registry.Identity {
	return middleware.GetIdentity(ctx)
}
