package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/dsr"
	"github.com/justichain/justichain/internal/featureflags"
)

// SweepJob archives cases whose retention period has elapsed and
// reports data-subject requests past their response deadline.
type SweepJob struct {
	config SweepConfig
	logger zerolog.Logger

	cases    *caseregistry.Service
	requests *dsr.Service

	// Flags is optional; when set, the archive_sweep_disabled flag
	// skips scheduled runs.
	flags *featureflags.Service

	metrics *SweepMetrics
}

// SweepMetrics tracks sweep job statistics.
type SweepMetrics struct {
	mu sync.RWMutex

	TotalRuns      int64
	SkippedRuns    int64
	CasesScanned   int64
	CasesArchived  int64
	ArchiveErrors  int64
	OverdueFound   int64
	LastRunAt      time.Time
	LastRunResult  string
	TotalDuration  time.Duration
	LastRunArchive int
}

// SweepJobConfig holds configuration for creating a SweepJob.
type SweepJobConfig struct {
	Config         SweepConfig
	Logger         zerolog.Logger
	CaseService    *caseregistry.Service
	RequestService *dsr.Service
	FlagService    *featureflags.Service
}

// NewSweepJob creates a new sweep job processor.
func NewSweepJob(cfg SweepJobConfig) *SweepJob {
	return &SweepJob{
		config:   cfg.Config.withDefaults(),
		logger:   cfg.Logger,
		cases:    cfg.CaseService,
		requests: cfg.RequestService,
		flags:    cfg.FlagService,
		metrics:  &SweepMetrics{},
	}
}

// SweepOutcome contains the result of one sweep run.
type SweepOutcome struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Skipped   bool
	Scanned   int
	Archived  int
	Failed    int
	Overdue   int
}

// Run executes one sweep. Archival is per case; a case that fails to
// archive is logged and skipped, never retried within the run.
func (j *SweepJob) Run(ctx context.Context) (*SweepOutcome, error) {
	startTime := time.Now()
	outcome := &SweepOutcome{StartTime: startTime}

	if j.flags != nil && j.flags.IsArchiveSweepDisabled(ctx) {
		j.logger.Info().Msg("archive sweep disabled by flag, skipping run")
		outcome.Skipped = true
		outcome.EndTime = time.Now()
		j.updateMetrics(outcome)
		return outcome, nil
	}

	runCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	j.logger.Info().
		Str("system_identity", string(j.config.SystemIdentity)).
		Msg("starting retention sweep")

	result, err := j.cases.ArchiveExpired(runCtx, j.config.SystemIdentity)
	if err != nil {
		j.logger.Error().Err(err).Msg("retention sweep failed")
		outcome.EndTime = time.Now()
		outcome.Duration = outcome.EndTime.Sub(startTime)
		j.updateMetrics(outcome)
		return outcome, err
	}
	outcome.Scanned = result.Scanned
	outcome.Archived = result.Archived
	outcome.Failed = result.Failed

	if j.config.CheckOverdueRequests && j.requests != nil {
		overdue, err := j.requests.Overdue(runCtx)
		if err != nil {
			j.logger.Warn().Err(err).Msg("overdue request check failed")
		} else {
			outcome.Overdue = len(overdue)
			for _, req := range overdue {
				j.logger.Warn().
					Int64("request_id", req.ID).
					Int64("case_id", req.CaseID).
					Time("deadline", req.ResponseDeadline).
					Msg("data-subject request past response deadline")
			}
		}
	}

	outcome.EndTime = time.Now()
	outcome.Duration = outcome.EndTime.Sub(startTime)
	j.updateMetrics(outcome)

	j.logger.Info().
		Dur("duration", outcome.Duration).
		Int("scanned", outcome.Scanned).
		Int("archived", outcome.Archived).
		Int("failed", outcome.Failed).
		Int("overdue_requests", outcome.Overdue).
		Msg("retention sweep completed")

	return outcome, nil
}

// RunPeriodic runs the sweep on the configured interval until the
// context is canceled. The first run happens immediately.
func (j *SweepJob) RunPeriodic(ctx context.Context) {
	if _, err := j.Run(ctx); err != nil {
		j.logger.Error().Err(err).Msg("initial sweep run failed")
	}

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("sweep scheduler stopping")
			return
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil {
				j.logger.Error().Err(err).Msg("scheduled sweep run failed")
			}
		}
	}
}

func (j *SweepJob) updateMetrics(outcome *SweepOutcome) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	if outcome.Skipped {
		j.metrics.SkippedRuns++
		j.metrics.LastRunResult = "skipped"
	} else if outcome.Failed > 0 {
		j.metrics.LastRunResult = "partial"
	} else {
		j.metrics.LastRunResult = "ok"
	}
	j.metrics.CasesScanned += int64(outcome.Scanned)
	j.metrics.CasesArchived += int64(outcome.Archived)
	j.metrics.ArchiveErrors += int64(outcome.Failed)
	j.metrics.OverdueFound += int64(outcome.Overdue)
	j.metrics.LastRunAt = outcome.EndTime
	j.metrics.LastRunArchive = outcome.Archived
	j.metrics.TotalDuration += outcome.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *SweepJob) GetMetrics() SweepMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return SweepMetrics{
		TotalRuns:      j.metrics.TotalRuns,
		SkippedRuns:    j.metrics.SkippedRuns,
		CasesScanned:   j.metrics.CasesScanned,
		CasesArchived:  j.metrics.CasesArchived,
		ArchiveErrors:  j.metrics.ArchiveErrors,
		OverdueFound:   j.metrics.OverdueFound,
		LastRunAt:      j.metrics.LastRunAt,
		LastRunResult:  j.metrics.LastRunResult,
		TotalDuration:  j.metrics.TotalDuration,
		LastRunArchive: j.metrics.LastRunArchive,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *SweepJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":       m.TotalRuns,
		"skipped_runs":     m.SkippedRuns,
		"cases_scanned":    m.CasesScanned,
		"cases_archived":   m.CasesArchived,
		"archive_errors":   m.ArchiveErrors,
		"overdue_found":    m.OverdueFound,
		"last_run_at":      m.LastRunAt,
		"last_run_result":  m.LastRunResult,
		"last_run_archive": m.LastRunArchive,
		"total_duration":   m.TotalDuration.String(),
	}
}
