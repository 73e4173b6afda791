package middleware

import (
	"net/http"

	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/featureflags"
)

// Pause creates middleware that rejects mutating requests while the
// registry is paused. Reads stay available, and the admin routes that
// clear the pause flag are mounted outside this middleware.
func Pause(flags *featureflags.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
				if flags.IsPaused(r.Context()) {
					traceID := GetRequestID(r.Context())
					problem := models.NewServiceUnavailable(traceID, "registry is paused")
					problem.Instance = r.URL.Path
					problem.Write(w)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
