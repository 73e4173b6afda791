package dsr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

// DefaultSLAWindow is the response window applied when none is
// configured: 30 days, per GDPR Article 12(3).
const DefaultSLAWindow = 30 * 24 * time.Hour

// CaseChecker answers case-existence queries.
type CaseChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ServiceConfig holds configuration for the request service.
type ServiceConfig struct {
	Repository Repository
	Roles      *rbac.Service
	Cases      CaseChecker
	Logger     zerolog.Logger
	Clock      registry.Clock

	// SLAWindow is the fixed response window added to the request date
	// at creation. Zero means DefaultSLAWindow.
	SLAWindow time.Duration
}

// Service provides data-subject request handling. Processing an
// Erasure request never revokes keys itself; revocation stays a
// separate, explicit DPO act on the key ledger.
type Service struct {
	repo      Repository
	roles     *rbac.Service
	cases     CaseChecker
	logger    zerolog.Logger
	clock     registry.Clock
	slaWindow time.Duration
}

// NewService creates a new request service.
func NewService(cfg ServiceConfig) *Service {
	slaWindow := cfg.SLAWindow
	if slaWindow == 0 {
		slaWindow = DefaultSLAWindow
	}
	return &Service{
		repo:      cfg.Repository,
		roles:     cfg.Roles,
		cases:     cfg.Cases,
		logger:    cfg.Logger,
		clock:     cfg.Clock,
		slaWindow: slaWindow,
	}
}

// CreateInput holds the fields for a new data-subject request.
type CreateInput struct {
	CaseID             int64
	RequestType        RequestType
	RequestDetailsHash registry.Digest
}

// Create opens a new request against a case. Any authenticated actor
// may create; the deadline is fixed here and never recomputed.
func (s *Service) Create(ctx context.Context, actor registry.Identity, input CreateInput) (*Request, error) {
	if actor.IsZero() {
		return nil, registry.ErrUnauthorized
	}
	if !input.RequestType.Valid() {
		return nil, fmt.Errorf("%w: unknown request type %q", registry.ErrInvalidArgument, input.RequestType)
	}

	exists, err := s.cases.Exists(ctx, input.CaseID)
	if err != nil {
		return nil, fmt.Errorf("checking case %d: %w", input.CaseID, err)
	}
	if !exists {
		return nil, registry.ErrNotFound
	}

	now := s.clock.Now()
	req := &Request{
		CaseID:             input.CaseID,
		Requester:          actor,
		RequestType:        input.RequestType,
		Status:             StatusPending,
		RequestDate:        now,
		ResponseDeadline:   now.Add(s.slaWindow),
		RequestDetailsHash: input.RequestDetailsHash,
	}

	id, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.ID = id

	s.logger.Info().
		Int64("request_id", id).
		Int64("case_id", req.CaseID).
		Str("request_type", string(req.RequestType)).
		Str("requester", string(actor)).
		Time("deadline", req.ResponseDeadline).
		Msg("data subject request created")

	return req, nil
}

// Get retrieves a request by id.
func (s *Service) Get(ctx context.Context, id int64) (*Request, error) {
	req, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			return nil, registry.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

// Process resolves a pending request. Requires the actor to hold DPO;
// a request that has already left Pending fails with AlreadyResolved.
func (s *Service) Process(ctx context.Context, actor registry.Identity, requestID int64, newStatus RequestStatus, responseHash registry.Digest) (*Request, error) {
	isDPO, err := s.roles.HasRole(ctx, actor, rbac.RoleDPO)
	if err != nil {
		return nil, fmt.Errorf("checking dpo role: %w", err)
	}
	if !isDPO {
		return nil, registry.ErrUnauthorized
	}
	if !newStatus.ValidResolution() {
		return nil, fmt.Errorf("%w: %q is not a resolution", registry.ErrInvalidTransition, newStatus)
	}

	req, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusPending {
		return nil, registry.ErrAlreadyResolved
	}

	req.Status = newStatus
	req.ResponseHash = responseHash
	if err := s.repo.Resolve(ctx, req); err != nil {
		if errors.Is(err, ErrStaleRequest) {
			return nil, registry.ErrAlreadyResolved
		}
		if errors.Is(err, ErrRequestNotFound) {
			return nil, registry.ErrNotFound
		}
		return nil, fmt.Errorf("resolving request %d: %w", requestID, err)
	}

	s.logger.Info().
		Int64("request_id", requestID).
		Str("status", string(newStatus)).
		Str("actor", string(actor)).
		Msg("data subject request processed")

	return req, nil
}

// ListPending returns pending requests in creation order, building the
// DPO work queue.
func (s *Service) ListPending(ctx context.Context) ([]*Request, error) {
	return s.repo.ListPending(ctx)
}

// ListByRequester returns the identity's requests in creation order.
func (s *Service) ListByRequester(ctx context.Context, requester registry.Identity) ([]*Request, error) {
	return s.repo.ListByRequester(ctx, requester)
}

// Overdue returns pending requests past their deadline at the clock's
// current time. Advisory only; nothing escalates automatically.
func (s *Service) Overdue(ctx context.Context) ([]*Request, error) {
	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var overdue []*Request
	for _, req := range pending {
		if req.Overdue(now) {
			overdue = append(overdue, req)
		}
	}
	return overdue, nil
}
