package keyledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justichain/justichain/internal/keyledger"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

// staticCases is a CaseChecker with a fixed set of case ids.
type staticCases map[int64]bool

func (s staticCases) Exists(_ context.Context, id int64) (bool, error) {
	return s[id], nil
}

func newService(t *testing.T) *keyledger.Service {
	t.Helper()

	roles := rbac.NewService(rbac.ServiceConfig{
		Repository: rbac.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, roles.Seed(context.Background(), rbac.RoleDPO, "0xdpo"))

	return keyledger.NewService(keyledger.ServiceConfig{
		Repository: keyledger.NewInMemoryRepository(),
		Roles:      roles,
		Cases:      staticCases{1: true},
		Logger:     zerolog.Nop(),
	})
}

func TestService_Revoke(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	keyRef := registry.HashText("doc-key-1")

	revoked, err := svc.IsRevoked(ctx, keyRef)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, svc.Revoke(ctx, "0xdpo", 1, keyRef))

	revoked, err = svc.IsRevoked(ctx, keyRef)
	require.NoError(t, err)
	assert.True(t, revoked)

	rec, err := svc.Get(ctx, keyRef)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, registry.Identity("0xdpo"), rec.RevokedBy)
	assert.Equal(t, int64(1), rec.CaseID)
}

func TestService_Revoke_Idempotent(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	keyRef := registry.HashText("doc-key-1")

	require.NoError(t, svc.Revoke(ctx, "0xdpo", 1, keyRef))
	first, err := svc.Get(ctx, keyRef)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	require.NoError(t, svc.Revoke(ctx, "0xdpo", 1, keyRef), "re-revocation is a no-op")

	second, err := svc.Get(ctx, keyRef)
	require.NoError(t, err)
	assert.Equal(t, first.RevokedAt, second.RevokedAt, "original record preserved")
}

func TestService_Revoke_NonDPO(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	keyRef := registry.HashText("doc-key-1")

	err := svc.Revoke(ctx, "0xclerk", 1, keyRef)
	assert.True(t, errors.Is(err, registry.ErrUnauthorized))

	revoked, err := svc.IsRevoked(ctx, keyRef)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestService_Revoke_UnknownCase(t *testing.T) {
	svc := newService(t)

	err := svc.Revoke(context.Background(), "0xdpo", 7, registry.HashText("doc-key-1"))
	assert.True(t, errors.Is(err, registry.ErrNotFound))
}

func TestService_IsRevoked_ZeroKeyRef(t *testing.T) {
	svc := newService(t)

	revoked, err := svc.IsRevoked(context.Background(), registry.ZeroDigest)
	require.NoError(t, err)
	assert.False(t, revoked)
}
