package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/auth"
	"github.com/justichain/justichain/internal/registry"
)

// identityKey is the context key for the authenticated identity.
type identityKey struct{}

// Auth creates authentication middleware that validates identity
// bearer tokens.
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract bearer token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeUnauthorized(w, r, "missing authorization header")
				return
			}

			// Check for Bearer prefix (case-insensitive)
			const bearerPrefix = "Bearer "
			if len(authHeader) < len(bearerPrefix) ||
				!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
				writeUnauthorized(w, r, "invalid authorization header format")
				return
			}

			tokenString := authHeader[len(bearerPrefix):]
			if tokenString == "" {
				writeUnauthorized(w, r, "missing bearer token")
				return
			}

			// Validate the token
			identity, err := authService.ValidateToken(tokenString)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					writeUnauthorized(w, r, "identity token has expired")
				case errors.Is(err, auth.ErrInvalidToken):
					writeUnauthorized(w, r, "invalid identity token")
				default:
					writeUnauthorized(w, r, "authentication failed")
				}
				return
			}

			// Add identity to context
			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeUnauthorized writes a 401 Unauthorized response.
// This is implemented directly here to avoid import cycle with response package.
func writeUnauthorized(w http.ResponseWriter, r *http.Request, detail string) {
	traceID := GetRequestID(r.Context())
	problem := models.NewUnauthorized(traceID, detail)
	problem.Instance = r.URL.Path
	problem.Write(w)
}

// GetIdentity retrieves the authenticated identity from the context.
// Returns NoIdentity if not authenticated.
func GetIdentity(ctx context.Context) registry.Identity {
	if id, ok := ctx.Value(identityKey{}).(registry.Identity); ok {
		return id
	}
	return registry.NoIdentity
}
