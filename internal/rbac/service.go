package rbac

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/registry"
)

// ServiceConfig holds configuration for the role service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
	Clock      registry.Clock
}

// Service provides role grants and capability checks. Every mutating
// registry operation calls HasRole (via the owning service) before
// touching state.
type Service struct {
	repo   Repository
	logger zerolog.Logger
	clock  registry.Clock
}

// NewService creates a new role service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
		clock:  cfg.Clock,
	}
}

// HasRole reports whether the identity holds the role.
func (s *Service) HasRole(ctx context.Context, identity registry.Identity, role Role) (bool, error) {
	if identity.IsZero() {
		return false, nil
	}
	return s.repo.HasRole(ctx, identity, role)
}

// GrantRole grants a role to the target identity. Only an Admin may
// grant roles; granting an already-held role is a no-op.
func (s *Service) GrantRole(ctx context.Context, actor registry.Identity, role Role, target registry.Identity) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	if target.IsZero() {
		return fmt.Errorf("%w: target identity required", ErrUnknownRole)
	}

	isAdmin, err := s.HasRole(ctx, actor, RoleAdmin)
	if err != nil {
		return fmt.Errorf("checking admin role: %w", err)
	}
	if !isAdmin {
		return registry.ErrUnauthorized
	}

	assignment := &Assignment{
		Identity:  target,
		Role:      role,
		GrantedBy: actor,
		GrantedAt: s.clock.Now(),
	}
	if err := s.repo.Grant(ctx, assignment); err != nil {
		return err
	}

	s.logger.Info().
		Str("actor", string(actor)).
		Str("target", string(target)).
		Str("role", string(role)).
		Msg("role granted")

	return nil
}

// ListRoles returns all roles held by the identity.
func (s *Service) ListRoles(ctx context.Context, identity registry.Identity) ([]Role, error) {
	return s.repo.ListRoles(ctx, identity)
}

// Seed grants a role directly, bypassing the Admin check. Used at
// startup to bootstrap the initial Admin identities from configuration.
func (s *Service) Seed(ctx context.Context, role Role, target registry.Identity) error {
	return s.repo.Grant(ctx, &Assignment{
		Identity:  target,
		Role:      role,
		GrantedBy: registry.NoIdentity,
		GrantedAt: s.clock.Now(),
	})
}
