// Package main provides the entrypoint for the retention sweep worker.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/database"
	"github.com/justichain/justichain/internal/dsr"
	"github.com/justichain/justichain/internal/featureflags"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
	"github.com/justichain/justichain/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "justichain-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting JustiChain retention worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	systemIdentity := registry.Identity(os.Getenv("SYSTEM_IDENTITY"))
	if systemIdentity.IsZero() {
		log.Fatal().Msg("SYSTEM_IDENTITY must be set")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	// Build the service stack the sweep runs against
	roleService := rbac.NewService(rbac.ServiceConfig{
		Repository: rbac.NewPostgresRepository(pool),
		Logger:     log,
	})

	// The sweep runs as a seeded system admin
	if err := roleService.Seed(ctx, rbac.RoleAdmin, systemIdentity); err != nil {
		log.Fatal().Err(err).Msg("failed to seed system identity")
	}

	caseService := caseregistry.NewService(caseregistry.ServiceConfig{
		Repository: caseregistry.NewPostgresRepository(pool),
		Roles:      roleService,
		Logger:     log,
	})

	requestService := dsr.NewService(dsr.ServiceConfig{
		Repository: dsr.NewPostgresRepository(pool),
		Roles:      roleService,
		Cases:      caseService,
		Logger:     log,
	})

	flagService := featureflags.NewService(featureflags.ServiceConfig{
		Repository:   featureflags.NewPostgresRepository(pool),
		Logger:       log,
		CacheTTL:     1 * time.Minute,
		DefaultFlags: featureflags.DefaultFlags(),
	})

	sweepConfig := worker.DefaultSweepConfig()
	sweepConfig.SystemIdentity = systemIdentity
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		interval, parseErr := time.ParseDuration(raw)
		if parseErr != nil {
			log.Fatal().Err(parseErr).Msg("invalid SWEEP_INTERVAL")
		}
		sweepConfig.Interval = interval
	}

	sweepJob := worker.NewSweepJob(worker.SweepJobConfig{
		Config:         sweepConfig,
		Logger:         log,
		CaseService:    caseService,
		RequestService: requestService,
		FlagService:    flagService,
	})

	// Create HTTP server for health checks
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":"%s"}`, Version)
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start health check server
	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Scheduled sweep loop
	go sweepJob.RunPeriodic(ctx)

	// On-demand sweeps via Pub/Sub (optional)
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		subscription := os.Getenv("PUBSUB_SUBSCRIPTION")
		if subscription == "" {
			subscription = "justichain-sweep"
		}

		pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			SweepJob:         sweepJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close()

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Info().Msg("PUBSUB_PROJECT_ID not set - triggered sweeps disabled")
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
