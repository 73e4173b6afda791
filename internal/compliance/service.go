package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

// CaseExporter answers the case lookups a report needs.
type CaseExporter interface {
	Count(ctx context.Context) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExportForROPA(ctx context.Context, caseID int64) (*caseregistry.ROPAExport, error)
}

// ServiceConfig holds configuration for the compliance service.
type ServiceConfig struct {
	Cases  CaseExporter
	Roles  *rbac.Service
	Logger zerolog.Logger
	Clock  registry.Clock
}

// Service builds compliance reports.
type Service struct {
	cases  CaseExporter
	roles  *rbac.Service
	logger zerolog.Logger
	clock  registry.Clock
}

// NewService creates a new compliance service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		cases:  cfg.Cases,
		roles:  cfg.Roles,
		logger: cfg.Logger,
		clock:  cfg.Clock,
	}
}

// GenerateROPA walks every registered case id and assembles the ROPA
// report. Requires the actor to hold DPO or Admin. A case that fails
// to export is logged and skipped so one bad row cannot sink an audit.
func (s *Service) GenerateROPA(ctx context.Context, actor registry.Identity) (*ROPAReport, error) {
	if err := s.requireAuditor(ctx, actor); err != nil {
		return nil, err
	}

	count, err := s.cases.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting cases: %w", err)
	}

	rows := make([]ROPACase, 0, count)
	gdprCount := 0
	for id := int64(1); id <= count; id++ {
		exists, err := s.cases.Exists(ctx, id)
		if err != nil || !exists {
			continue
		}

		export, err := s.cases.ExportForROPA(ctx, id)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Int64("case_id", id).
				Msg("case skipped in ROPA export")
			continue
		}

		rows = append(rows, ROPACase{
			CaseID:             export.CaseID,
			CaseHash:           export.CaseHash,
			DataClassification: export.ClassificationTag,
			CaseType:           export.CaseType.Label(),
			RetentionPeriod:    fmt.Sprintf("%d days", int64(export.RetentionPeriod/(24*time.Hour))),
			FilingDate:         formatLabelDate(export.FilingDate),
			IsGDPRCase:         export.IsGDPRCase,
		})
		if export.IsGDPRCase {
			gdprCount++
		}
	}

	report := &ROPAReport{
		GeneratedDate: s.clock.Now().UTC().Format(time.RFC3339),
		GeneratedBy:   string(actor),
		TotalCases:    len(rows),
		GDPRCases:     gdprCount,
		Cases:         rows,
	}

	s.logger.Info().
		Int("total_cases", report.TotalCases).
		Int("gdpr_cases", report.GDPRCases).
		Str("actor", string(actor)).
		Msg("ROPA report generated")

	return report, nil
}

// GenerateAccessReport records a subject-access report for a case and
// returns its digest receipt. Requires DPO or Admin and an existing
// case.
func (s *Service) GenerateAccessReport(ctx context.Context, actor registry.Identity, caseID int64, dataSubject registry.Identity) (*AccessReport, error) {
	if err := s.requireAuditor(ctx, actor); err != nil {
		return nil, err
	}
	if dataSubject.IsZero() {
		return nil, fmt.Errorf("%w: data subject identity required", registry.ErrInvalidArgument)
	}

	exists, err := s.cases.Exists(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("checking case %d: %w", caseID, err)
	}
	if !exists {
		return nil, registry.ErrNotFound
	}

	now := s.clock.Now()
	reportHash := registry.HashText(fmt.Sprintf("access-report:%d:%s:%s:%d",
		caseID, dataSubject, actor, now.Unix()))

	s.logger.Info().
		Int64("case_id", caseID).
		Str("data_subject", string(dataSubject)).
		Str("actor", string(actor)).
		Msg("access report generated")

	return &AccessReport{
		CaseID:      caseID,
		DataSubject: dataSubject,
		GeneratedBy: actor,
		GeneratedAt: now,
		ReportHash:  reportHash,
	}, nil
}

// requireAuditor checks the actor holds DPO or Admin.
func (s *Service) requireAuditor(ctx context.Context, actor registry.Identity) error {
	isDPO, err := s.roles.HasRole(ctx, actor, rbac.RoleDPO)
	if err != nil {
		return fmt.Errorf("checking dpo role: %w", err)
	}
	if isDPO {
		return nil
	}
	isAdmin, err := s.roles.HasRole(ctx, actor, rbac.RoleAdmin)
	if err != nil {
		return fmt.Errorf("checking admin role: %w", err)
	}
	if !isAdmin {
		return registry.ErrUnauthorized
	}
	return nil
}
