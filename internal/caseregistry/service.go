package caseregistry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

// ServiceConfig holds configuration for the case service.
type ServiceConfig struct {
	Repository Repository
	Roles      *rbac.Service
	Logger     zerolog.Logger
	Clock      registry.Clock
}

// Service provides case registration and lifecycle management.
type Service struct {
	repo   Repository
	roles  *rbac.Service
	logger zerolog.Logger
	clock  registry.Clock
}

// NewService creates a new case service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		roles:  cfg.Roles,
		logger: cfg.Logger,
		clock:  cfg.Clock,
	}
}

// RegisterInput holds the fields for a new case.
type RegisterInput struct {
	ContentHash        registry.Digest
	ClassificationTag  registry.Digest
	CaseType           CaseType
	RequiresEncryption bool
	RetentionPeriod    time.Duration
	LegalBasisHash     registry.Digest
}

// Register creates a new case. Any authenticated actor may register;
// no role is required. The case starts Registered with isGDPRCase
// derived from the case type.
func (s *Service) Register(ctx context.Context, actor registry.Identity, input RegisterInput) (*Case, error) {
	if actor.IsZero() {
		return nil, registry.ErrUnauthorized
	}
	if !input.CaseType.Valid() {
		return nil, fmt.Errorf("%w: unknown case type %q", registry.ErrInvalidArgument, input.CaseType)
	}
	if input.ContentHash.IsZero() {
		return nil, fmt.Errorf("%w: content hash required", registry.ErrInvalidDigest)
	}
	if input.RetentionPeriod <= 0 {
		return nil, fmt.Errorf("%w: retention period must be positive", registry.ErrInvalidArgument)
	}

	now := s.clock.Now()
	c := &Case{
		ContentHash:        input.ContentHash,
		ClassificationTag:  input.ClassificationTag,
		CaseType:           input.CaseType,
		Status:             StatusRegistered,
		IsGDPRCase:         input.CaseType.IsGDPRRelevant(),
		RequiresEncryption: input.RequiresEncryption,
		FilingDate:         now,
		LastUpdated:        now,
		RetentionPeriod:    input.RetentionPeriod,
		LegalBasisHash:     input.LegalBasisHash,
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("creating case: %w", err)
	}
	c.ID = id

	s.logger.Info().
		Int64("case_id", id).
		Str("case_type", string(c.CaseType)).
		Bool("gdpr", c.IsGDPRCase).
		Str("actor", string(actor)).
		Msg("case registered")

	return c, nil
}

// Get retrieves a case by id.
func (s *Service) Get(ctx context.Context, id int64) (*Case, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCaseNotFound) {
			return nil, registry.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Exists reports whether a case id is assigned.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// Count returns the number of registered cases.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// List returns cases in id order, excluding Archived cases unless
// requested.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*Case, error) {
	return s.repo.List(ctx, opts)
}

// AssignJudge assigns a judge to a case. Requires the actor to hold
// Admin and the target to separately hold Judge.
func (s *Service) AssignJudge(ctx context.Context, actor registry.Identity, caseID int64, judge registry.Identity) (*Case, error) {
	isAdmin, err := s.roles.HasRole(ctx, actor, rbac.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("checking admin role: %w", err)
	}
	if !isAdmin {
		return nil, registry.ErrUnauthorized
	}

	isJudge, err := s.roles.HasRole(ctx, judge, rbac.RoleJudge)
	if err != nil {
		return nil, fmt.Errorf("checking judge role: %w", err)
	}
	if !isJudge {
		return nil, fmt.Errorf("%w: %s does not hold the judge role", registry.ErrRoleMismatch, judge)
	}

	c, err := s.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status == StatusArchived {
		return nil, fmt.Errorf("%w: case %d is archived", registry.ErrInvalidTransition, caseID)
	}

	expected := c.Status
	c.AssignedJudge = judge
	c.LastUpdated = s.clock.Now()
	if err := s.update(ctx, c, expected); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("case_id", caseID).
		Str("judge", string(judge)).
		Str("actor", string(actor)).
		Msg("judge assigned")

	return c, nil
}

// ScheduleHearing sets the next hearing date for a case. Requires the
// actor to be Admin or the assigned judge; the date must be strictly
// in the future.
func (s *Service) ScheduleHearing(ctx context.Context, actor registry.Identity, caseID int64, hearing time.Time) (*Case, error) {
	c, err := s.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canManage(ctx, actor, c)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, registry.ErrUnauthorized
	}
	if c.Status == StatusArchived {
		return nil, fmt.Errorf("%w: case %d is archived", registry.ErrInvalidTransition, caseID)
	}
	if !hearing.After(s.clock.Now()) {
		return nil, fmt.Errorf("%w: hearing date must be in the future", registry.ErrInvalidArgument)
	}

	expected := c.Status
	c.NextHearingDate = hearing
	c.LastUpdated = s.clock.Now()
	if err := s.update(ctx, c, expected); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("case_id", caseID).
		Time("hearing", hearing).
		Str("actor", string(actor)).
		Msg("hearing scheduled")

	return c, nil
}

// UpdateStatus advances a case to a later lifecycle status. Requires
// the actor to be Admin or the assigned judge. Backward, same-status,
// and Archived-target transitions fail with InvalidTransition;
// archival only happens via the retention sweep.
func (s *Service) UpdateStatus(ctx context.Context, actor registry.Identity, caseID int64, newStatus CaseStatus) (*Case, error) {
	if !newStatus.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", registry.ErrInvalidTransition, newStatus)
	}
	if newStatus == StatusArchived {
		return nil, fmt.Errorf("%w: archival is retention-driven", registry.ErrInvalidTransition)
	}

	c, err := s.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canManage(ctx, actor, c)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, registry.ErrUnauthorized
	}
	if c.Status == StatusArchived {
		return nil, fmt.Errorf("%w: case %d is archived", registry.ErrInvalidTransition, caseID)
	}
	if newStatus.Rank() <= c.Status.Rank() {
		return nil, fmt.Errorf("%w: %s -> %s", registry.ErrInvalidTransition, c.Status, newStatus)
	}

	expected := c.Status
	c.Status = newStatus
	c.LastUpdated = s.clock.Now()
	if err := s.update(ctx, c, expected); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("case_id", caseID).
		Str("from", string(expected)).
		Str("to", string(newStatus)).
		Str("actor", string(actor)).
		Msg("case status updated")

	return c, nil
}

// SweepResult summarizes one archival sweep.
type SweepResult struct {
	Scanned  int
	Archived int
	Failed   int
}

// ArchiveExpired transitions every non-archived case whose retention
// period has elapsed to Archived. Requires Admin. Each case transitions
// independently; a failure on one case is logged and the sweep moves
// on. Re-running is a no-op for already-archived cases.
func (s *Service) ArchiveExpired(ctx context.Context, actor registry.Identity) (*SweepResult, error) {
	isAdmin, err := s.roles.HasRole(ctx, actor, rbac.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("checking admin role: %w", err)
	}
	if !isAdmin {
		return nil, registry.ErrUnauthorized
	}

	cases, err := s.repo.List(ctx, ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}

	now := s.clock.Now()
	result := &SweepResult{Scanned: len(cases)}
	for _, c := range cases {
		if !c.Expired(now) {
			continue
		}

		expected := c.Status
		c.Status = StatusArchived
		c.LastUpdated = now
		if err := s.repo.Update(ctx, c, expected); err != nil {
			// A stale read means another writer got there first; the
			// next sweep picks the case up if it is still eligible.
			result.Failed++
			s.logger.Warn().
				Err(err).
				Int64("case_id", c.ID).
				Msg("archival skipped")
			continue
		}
		result.Archived++
	}

	s.logger.Info().
		Int("scanned", result.Scanned).
		Int("archived", result.Archived).
		Int("failed", result.Failed).
		Str("actor", string(actor)).
		Msg("archival sweep complete")

	return result, nil
}

// PartyDetails is the judge-facing slice of a case.
type PartyDetails struct {
	AssignedJudge   registry.Identity
	NextHearingDate time.Time
	TotalDocuments  int64
	RetentionPeriod time.Duration
}

// GetPartyDetails returns the party-facing case fields. Access is
// restricted to Admin, the assigned judge, and DPO actors; everyone
// else sees only the basic projection.
func (s *Service) GetPartyDetails(ctx context.Context, actor registry.Identity, caseID int64, documentCount int64) (*PartyDetails, error) {
	c, err := s.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canManage(ctx, actor, c)
	if err != nil {
		return nil, err
	}
	if !allowed {
		isDPO, err := s.roles.HasRole(ctx, actor, rbac.RoleDPO)
		if err != nil {
			return nil, fmt.Errorf("checking dpo role: %w", err)
		}
		if !isDPO {
			return nil, registry.ErrUnauthorized
		}
	}

	return &PartyDetails{
		AssignedJudge:   c.AssignedJudge,
		NextHearingDate: c.NextHearingDate,
		TotalDocuments:  documentCount,
		RetentionPeriod: c.RetentionPeriod,
	}, nil
}

// ExportForROPA returns the compliance projection of a case. The
// projection omits party fields so it needs no case-party access
// rights; archived cases remain exportable.
func (s *Service) ExportForROPA(ctx context.Context, caseID int64) (*ROPAExport, error) {
	c, err := s.Get(ctx, caseID)
	if err != nil {
		return nil, err
	}
	return &ROPAExport{
		CaseID:            c.ID,
		CaseHash:          c.ContentHash,
		ClassificationTag: c.ClassificationTag,
		CaseType:          c.CaseType,
		LegalBasisHash:    c.LegalBasisHash,
		RetentionPeriod:   c.RetentionPeriod,
		FilingDate:        c.FilingDate,
		IsGDPRCase:        c.IsGDPRCase,
	}, nil
}

// canManage reports whether the actor is an Admin or the case's
// assigned judge.
func (s *Service) canManage(ctx context.Context, actor registry.Identity, c *Case) (bool, error) {
	if !actor.IsZero() && actor == c.AssignedJudge {
		return true, nil
	}
	isAdmin, err := s.roles.HasRole(ctx, actor, rbac.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("checking admin role: %w", err)
	}
	return isAdmin, nil
}

func (s *Service) update(ctx context.Context, c *Case, expected CaseStatus) error {
	if err := s.repo.Update(ctx, c, expected); err != nil {
		if errors.Is(err, ErrCaseNotFound) {
			return registry.ErrNotFound
		}
		return fmt.Errorf("updating case %d: %w", c.ID, err)
	}
	return nil
}
