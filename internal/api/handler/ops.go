// Package handler provides HTTP handlers for the registry API.
package handler

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/justichain/justichain/internal/api/models"
	"github.com/justichain/justichain/internal/api/response"
	"github.com/justichain/justichain/internal/featureflags"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	pool      *pgxpool.Pool
	flags     *featureflags.Service
}

// NewOpsHandler creates a new OpsHandler. The pool is optional; when
// nil, readiness reports OK without a database check.
func NewOpsHandler(version, buildTime string, pool *pgxpool.Pool, flags *featureflags.Service) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		pool:      pool,
		flags:     flags,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.pool != nil {
		if err := h.pool.Ping(r.Context()); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	dbStatus := models.HealthStatusOK
	if h.pool != nil {
		if err := h.pool.Ping(r.Context()); err != nil {
			dbStatus = models.HealthStatusFail
		}
	}

	var degradation []string
	if h.flags != nil {
		ctx := r.Context()
		if h.flags.IsPaused(ctx) {
			degradation = append(degradation, featureflags.FlagRegistryPaused)
		}
		if h.flags.IsArchiveSweepDisabled(ctx) {
			degradation = append(degradation, featureflags.FlagDisableArchiveSweep)
		}
		if h.flags.IsBlobVerificationDisabled(ctx) {
			degradation = append(degradation, featureflags.FlagDisableBlobVerification)
		}
	}

	overall := models.HealthStatusOK
	if dbStatus != models.HealthStatusOK {
		overall = models.HealthStatusDegraded
	}

	status := models.SystemStatus{
		Status: overall,
		Time:   now,
		Subsystems: []models.SubsystemStatus{
			{Name: "postgres", Status: dbStatus},
		},
		ActiveDegradationFlags: degradation,
	}
	response.JSON(w, r, http.StatusOK, status)
}
