// Package auth issues and validates the bearer tokens that carry a
// caller's registry identity. Identities are opaque 0x-prefixed
// strings; roles are never embedded in tokens and are always resolved
// against the role registry per request.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/justichain/justichain/internal/registry"
)

// TokenExpiry is how long identity tokens are valid. Short expiry
// limits exposure if a token is compromised.
const TokenExpiry = 1 * time.Hour

// Predefined JWT errors.
var (
	ErrInvalidToken = errors.New("invalid identity token")
	ErrTokenExpired = errors.New("identity token has expired")
)

// Claims represents the claims in registry identity tokens.
type Claims struct {
	jwt.RegisteredClaims

	// Identity is the caller's registry identity.
	Identity string `json:"idn"`
}

// JWTService handles identity token creation and validation.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
}

// JWTConfig holds configuration for the JWT service.
type JWTConfig struct {
	// SigningKey is the secret key used to sign tokens.
	SigningKey string

	// Issuer is the issuer claim for tokens (e.g., "https://api.justichain.eu").
	Issuer string

	// Audience is the audience claim for tokens (e.g., "justichain-registry").
	Audience string
}

// NewJWTService creates a new JWT service.
func NewJWTService(cfg JWTConfig) *JWTService {
	return &JWTService{
		signingKey: []byte(cfg.SigningKey),
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
	}
}

// GenerateToken creates a new identity token.
func (s *JWTService) GenerateToken(identity registry.Identity) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(TokenExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   string(identity),
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Identity: string(identity),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing identity token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates an identity token and returns the carried
// identity.
func (s *JWTService) ValidateToken(tokenString string) (registry.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return registry.NoIdentity, ErrTokenExpired
		}
		return registry.NoIdentity, fmt.Errorf("%w: %s", ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Identity == "" {
		return registry.NoIdentity, ErrInvalidToken
	}

	return registry.Identity(claims.Identity), nil
}
