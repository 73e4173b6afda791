package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/registry"
)

// ErrBadBootstrapSecret is returned when token issuance is attempted
// with the wrong bootstrap secret.
var ErrBadBootstrapSecret = errors.New("bad bootstrap secret")

// ServiceConfig holds configuration for the auth service.
type ServiceConfig struct {
	JWT *JWTService

	// BootstrapSecret gates token issuance. Deployments front this
	// endpoint with their identity provider; the secret exists so a
	// bare registry is not an open token mint.
	BootstrapSecret string

	Logger zerolog.Logger
}

// Service issues and validates identity tokens.
type Service struct {
	jwt             *JWTService
	bootstrapSecret string
	logger          zerolog.Logger
}

// NewService creates a new auth service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		jwt:             cfg.JWT,
		bootstrapSecret: cfg.BootstrapSecret,
		logger:          cfg.Logger,
	}
}

// IssueToken mints an identity token after checking the bootstrap
// secret.
func (s *Service) IssueToken(secret string, identity registry.Identity) (string, time.Time, error) {
	if s.bootstrapSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(s.bootstrapSecret)) != 1 {
		return "", time.Time{}, ErrBadBootstrapSecret
	}
	if identity.IsZero() {
		return "", time.Time{}, ErrInvalidToken
	}

	token, expiresAt, err := s.jwt.GenerateToken(identity)
	if err != nil {
		return "", time.Time{}, err
	}

	s.logger.Info().
		Str("identity", string(identity)).
		Time("expires_at", expiresAt).
		Msg("identity token issued")

	return token, expiresAt, nil
}

// ValidateToken validates a bearer token and returns the carried
// identity.
func (s *Service) ValidateToken(token string) (registry.Identity, error) {
	return s.jwt.ValidateToken(token)
}
