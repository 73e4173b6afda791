package keyledger

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

// CaseChecker answers case-existence queries. Revocations reference a
// case for audit purposes; the ledger verifies the reference without
// depending on the full case registry.
type CaseChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ServiceConfig holds configuration for the key ledger service.
type ServiceConfig struct {
	Repository Repository
	Roles      *rbac.Service
	Cases      CaseChecker
	Logger     zerolog.Logger
	Clock      registry.Clock
}

// Service provides key revocation. Revoking is an explicit DPO act,
// never an automatic side effect of request processing.
type Service struct {
	repo   Repository
	roles  *rbac.Service
	cases  CaseChecker
	logger zerolog.Logger
	clock  registry.Clock
}

// NewService creates a new key ledger service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		roles:  cfg.Roles,
		cases:  cfg.Cases,
		logger: cfg.Logger,
		clock:  cfg.Clock,
	}
}

// Revoke marks a key reference as revoked under the given case.
// Requires the actor to hold DPO and the case to exist. Revoking an
// already-revoked key succeeds as a no-op; the original record stands.
func (s *Service) Revoke(ctx context.Context, actor registry.Identity, caseID int64, keyRef registry.Digest) error {
	isDPO, err := s.roles.HasRole(ctx, actor, rbac.RoleDPO)
	if err != nil {
		return fmt.Errorf("checking dpo role: %w", err)
	}
	if !isDPO {
		return registry.ErrUnauthorized
	}

	if keyRef.IsZero() {
		return fmt.Errorf("%w: key reference required", registry.ErrInvalidDigest)
	}

	exists, err := s.cases.Exists(ctx, caseID)
	if err != nil {
		return fmt.Errorf("checking case %d: %w", caseID, err)
	}
	if !exists {
		return registry.ErrNotFound
	}

	if err := s.repo.Revoke(ctx, &Revocation{
		KeyRef:    keyRef,
		CaseID:    caseID,
		RevokedBy: actor,
		RevokedAt: s.clock.Now(),
	}); err != nil {
		return fmt.Errorf("revoking key: %w", err)
	}

	s.logger.Info().
		Str("key_ref", string(keyRef)).
		Int64("case_id", caseID).
		Str("actor", string(actor)).
		Msg("key revoked")

	return nil
}

// IsRevoked reports whether the key reference has been revoked. Pure
// lookup, no role required.
func (s *Service) IsRevoked(ctx context.Context, keyRef registry.Digest) (bool, error) {
	if keyRef.IsZero() {
		return false, nil
	}
	return s.repo.IsRevoked(ctx, keyRef)
}

// Get returns the revocation record for a key reference, or nil if the
// key has not been revoked.
func (s *Service) Get(ctx context.Context, keyRef registry.Digest) (*Revocation, error) {
	return s.repo.Get(ctx, keyRef)
}
