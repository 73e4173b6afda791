// Package main provides the entrypoint for the JustiChain registry API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/api"
	"github.com/justichain/justichain/internal/api/middleware"
	"github.com/justichain/justichain/internal/auth"
	"github.com/justichain/justichain/internal/blobstore"
	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/compliance"
	"github.com/justichain/justichain/internal/database"
	"github.com/justichain/justichain/internal/document"
	"github.com/justichain/justichain/internal/dsr"
	"github.com/justichain/justichain/internal/featureflags"
	"github.com/justichain/justichain/internal/keyledger"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
	"github.com/justichain/justichain/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "justichain-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting JustiChain registry API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     os.Getenv("JWT_ISSUER"),
		Audience:   os.Getenv("JWT_AUDIENCE"),
	})

	bootstrapSecret := os.Getenv("AUTH_BOOTSTRAP_SECRET")
	if bootstrapSecret == "" {
		log.Warn().Msg("AUTH_BOOTSTRAP_SECRET not set - token issuance disabled")
	}

	authService := auth.NewService(auth.ServiceConfig{
		JWT:             jwtService,
		BootstrapSecret: bootstrapSecret,
		Logger:          log,
	})
	log.Info().Msg("auth service initialized")

	// Initialize role service and seed admin identities
	roleService := rbac.NewService(rbac.ServiceConfig{
		Repository: rbac.NewPostgresRepository(pool),
		Logger:     log,
	})

	adminIdentities := splitIdentities(os.Getenv("ADMIN_IDENTITIES"))
	if len(adminIdentities) == 0 {
		log.Warn().Msg("ADMIN_IDENTITIES not set - no admin can be bootstrapped")
	}
	for _, identity := range adminIdentities {
		if err := roleService.Seed(ctx, rbac.RoleAdmin, identity); err != nil {
			log.Fatal().Err(err).Str("identity", string(identity)).Msg("failed to seed admin identity")
		}
	}
	log.Info().Int("admins", len(adminIdentities)).Msg("role service initialized")

	// Initialize case registry
	caseService := caseregistry.NewService(caseregistry.ServiceConfig{
		Repository: caseregistry.NewPostgresRepository(pool),
		Roles:      roleService,
		Logger:     log,
	})
	log.Info().Msg("case registry initialized")

	// Initialize key revocation ledger
	keyService := keyledger.NewService(keyledger.ServiceConfig{
		Repository: keyledger.NewPostgresRepository(pool),
		Roles:      roleService,
		Cases:      caseService,
		Logger:     log,
	})
	log.Info().Msg("key ledger initialized")

	// Initialize feature flags repository and service
	ffService := featureflags.NewService(featureflags.ServiceConfig{
		Repository:   featureflags.NewPostgresRepository(pool),
		Logger:       log,
		CacheTTL:     1 * time.Minute,
		DefaultFlags: featureflags.DefaultFlags(),
	})
	log.Info().Msg("feature flags service initialized")

	// Initialize blob gateway client (optional)
	var blobChecker document.BlobChecker
	if gatewayURL := os.Getenv("BLOB_GATEWAY_URL"); gatewayURL != "" {
		blobChecker = blobstore.NewClient(blobstore.ClientConfig{
			BaseURL: gatewayURL,
			Logger:  log,
		})
		log.Info().Str("gateway", gatewayURL).Msg("blob gateway client initialized")
	} else {
		log.Warn().Msg("BLOB_GATEWAY_URL not set - blob verification disabled")
	}

	// Initialize document service
	documentService := document.NewService(document.ServiceConfig{
		Repository: document.NewPostgresRepository(pool),
		Cases:      caseService,
		Keys:       keyService,
		Roles:      roleService,
		Blobs:      blobChecker,
		Flags:      ffService,
		Logger:     log,
	})
	log.Info().Msg("document service initialized")

	// Initialize data-subject request service
	slaWindow := dsr.DefaultSLAWindow
	if raw := os.Getenv("DSR_SLA_WINDOW"); raw != "" {
		parsed, parseErr := time.ParseDuration(raw)
		if parseErr != nil {
			log.Fatal().Err(parseErr).Msg("invalid DSR_SLA_WINDOW")
		}
		slaWindow = parsed
	}
	requestService := dsr.NewService(dsr.ServiceConfig{
		Repository: dsr.NewPostgresRepository(pool),
		Roles:      roleService,
		Cases:      caseService,
		Logger:     log,
		SLAWindow:  slaWindow,
	})
	log.Info().Dur("sla_window", slaWindow).Msg("data-subject request service initialized")

	// Initialize compliance reporting
	complianceService := compliance.NewService(compliance.ServiceConfig{
		Cases:  caseService,
		Roles:  roleService,
		Logger: log,
	})
	log.Info().Msg("compliance service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:            Version,
		BuildTime:          BuildTime,
		Logger:             log,
		ServiceName:        serviceName,
		Metrics:            metrics,
		Pool:               pool,
		AuthService:        authService,
		CaseService:        caseService,
		DocumentService:    documentService,
		RequestService:     requestService,
		KeyService:         keyService,
		RoleService:        roleService,
		ComplianceService:  complianceService,
		FeatureFlagService: ffService,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// splitIdentities parses a comma-separated identity list.
func splitIdentities(raw string) []registry.Identity {
	var identities []registry.Identity
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		identities = append(identities, registry.Identity(part))
	}
	return identities
}
