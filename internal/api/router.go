// Package api provides the HTTP API for the JustiChain case registry.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/api/handler"
	"github.com/justichain/justichain/internal/api/middleware"
	"github.com/justichain/justichain/internal/auth"
	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/compliance"
	"github.com/justichain/justichain/internal/document"
	"github.com/justichain/justichain/internal/dsr"
	"github.com/justichain/justichain/internal/featureflags"
	"github.com/justichain/justichain/internal/keyledger"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version            string
	BuildTime          string
	Logger             zerolog.Logger
	ServiceName        string
	Metrics            *middleware.Metrics
	Pool               *pgxpool.Pool
	Clock              registry.Clock
	AuthService        *auth.Service
	CaseService        *caseregistry.Service
	DocumentService    *document.Service
	RequestService     *dsr.Service
	KeyService         *keyledger.Service
	RoleService        *rbac.Service
	ComplianceService  *compliance.Service
	FeatureFlagService *featureflags.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "justichain-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Pool, cfg.FeatureFlagService)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	casesHandler := handler.NewCasesHandler(cfg.CaseService, cfg.DocumentService)
	documentsHandler := handler.NewDocumentsHandler(cfg.DocumentService)
	requestsHandler := handler.NewRequestsHandler(cfg.RequestService, cfg.Clock)
	keysHandler := handler.NewKeysHandler(cfg.KeyService)
	adminHandler := handler.NewAdminHandler(cfg.RoleService, cfg.FeatureFlagService, cfg.CaseService)
	complianceHandler := handler.NewComplianceHandler(cfg.ComplianceService, cfg.Clock)

	// Create auth and pause middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	pauseMiddleware := middleware.Pause(cfg.FeatureFlagService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/token", authHandler.IssueToken)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Case endpoints (authenticated) - identity-based rate limiting.
		// Mutations are rejected while the registry is paused.
		r.Route("/cases", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(pauseMiddleware)
			r.Use(middleware.RateLimitByIdentity(middleware.StandardRateLimit)) // 100 req/min per identity
			r.Get("/", casesHandler.List)
			r.Post("/", casesHandler.Register)
			r.Get("/count", casesHandler.Count)
			r.Route("/{caseID}", func(r chi.Router) {
				r.Get("/", casesHandler.Get)
				r.Get("/parties", casesHandler.GetParties)
				r.Get("/ropa", casesHandler.ExportROPA)
				r.Post("/judge", casesHandler.AssignJudge)
				r.Post("/hearing", casesHandler.ScheduleHearing)
				r.Post("/status", casesHandler.UpdateStatus)

				// Documents
				r.Route("/documents", func(r chi.Router) {
					r.Get("/", documentsHandler.List)
					r.Post("/", documentsHandler.Submit)
					r.Get("/{docID}", documentsHandler.Get)
				})
			})
		})

		// Data-subject request endpoints (authenticated)
		r.Route("/requests", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(pauseMiddleware)
			r.Use(middleware.RateLimitByIdentity(middleware.StandardRateLimit))
			r.Post("/", requestsHandler.Create)
			r.Get("/pending", requestsHandler.ListPending)
			r.Get("/overdue", requestsHandler.ListOverdue)
			r.Get("/mine", requestsHandler.ListMine)
			r.Route("/{requestID}", func(r chi.Router) {
				r.Get("/", requestsHandler.Get)
				r.Post("/process", requestsHandler.Process)
			})
		})

		// Key revocation ledger (authenticated). Revocation stays
		// available while paused so erasure is never blocked.
		r.Route("/keys", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByIdentity(middleware.StandardRateLimit))
			r.Post("/revoke", keysHandler.Revoke)
			r.Get("/{keyRef}", keysHandler.Status)
		})

		// Compliance reporting (authenticated) - report generation walks
		// the whole registry, so it gets the strict limit
		r.Route("/compliance", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(expensiveRateLimit)
			r.Get("/ropa", complianceHandler.ROPAReport)
			r.Post("/access-report", complianceHandler.AccessReport)
			r.Get("/dpia-template", complianceHandler.DPIATemplate)
		})

		// Admin endpoints (authenticated) - mounted outside the pause
		// middleware so a paused registry can still be administered
		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(standardRateLimit)

			r.Post("/roles", adminHandler.GrantRole)
			r.Get("/roles/{identity}", adminHandler.ListRoles)

			r.Post("/pause", adminHandler.Pause)
			r.Post("/unpause", adminHandler.Unpause)
			r.Post("/sweep", adminHandler.Sweep)

			// Feature flags management
			r.Route("/flags", func(r chi.Router) {
				r.Get("/", adminHandler.GetFlags)
				r.Put("/", adminHandler.UpdateFlags)
			})
		})
	})

	return r
}
