package dsr_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justichain/justichain/internal/dsr"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

const (
	dpo     = registry.Identity("0xdpo")
	subject = registry.Identity("0xsubject")
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

type staticCases map[int64]bool

func (s staticCases) Exists(_ context.Context, id int64) (bool, error) {
	return s[id], nil
}

func newService(t *testing.T) (*dsr.Service, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	roles := rbac.NewService(rbac.ServiceConfig{
		Repository: rbac.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
		Clock:      clock.Now,
	})
	require.NoError(t, roles.Seed(context.Background(), rbac.RoleDPO, dpo))

	svc := dsr.NewService(dsr.ServiceConfig{
		Repository: dsr.NewInMemoryRepository(),
		Roles:      roles,
		Cases:      staticCases{1: true},
		Logger:     zerolog.Nop(),
		Clock:      clock.Now,
		SLAWindow:  30 * 24 * time.Hour,
	})
	return svc, clock
}

func createInput() dsr.CreateInput {
	return dsr.CreateInput{
		CaseID:             1,
		RequestType:        dsr.TypeErasure,
		RequestDetailsHash: registry.HashText("please erase my records"),
	}
}

func TestService_Create(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, subject, createInput())
	require.NoError(t, err)

	assert.Equal(t, int64(1), req.ID)
	assert.Equal(t, dsr.StatusPending, req.Status)
	assert.Equal(t, clock.Now().Add(30*24*time.Hour), req.ResponseDeadline)

	second, err := svc.Create(ctx, subject, createInput())
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID, "ids are global and sequential")
}

func TestService_Create_UnknownType(t *testing.T) {
	svc, _ := newService(t)

	input := createInput()
	input.RequestType = "BOGUS"
	_, err := svc.Create(context.Background(), subject, input)
	assert.True(t, errors.Is(err, registry.ErrInvalidArgument))
}

func TestService_Create_UnknownCase(t *testing.T) {
	svc, _ := newService(t)

	input := createInput()
	input.CaseID = 42
	_, err := svc.Create(context.Background(), subject, input)
	assert.True(t, errors.Is(err, registry.ErrNotFound))
}

func TestService_Process(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, subject, createInput())
	require.NoError(t, err)

	responseHash := registry.HashText("erasure approved")
	processed, err := svc.Process(ctx, dpo, req.ID, dsr.StatusApproved, responseHash)
	require.NoError(t, err)
	assert.Equal(t, dsr.StatusApproved, processed.Status)
	assert.Equal(t, responseHash, processed.ResponseHash)

	// A resolved request never transitions again.
	_, err = svc.Process(ctx, dpo, req.ID, dsr.StatusCompleted, responseHash)
	assert.True(t, errors.Is(err, registry.ErrAlreadyResolved))
}

func TestService_Process_NonDPO(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, subject, createInput())
	require.NoError(t, err)

	_, err = svc.Process(ctx, subject, req.ID, dsr.StatusApproved, registry.HashText("resp"))
	assert.True(t, errors.Is(err, registry.ErrUnauthorized))

	// The failed attempt leaves the request untouched.
	got, err := svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, dsr.StatusPending, got.Status)
	assert.True(t, got.ResponseHash.IsZero())
}

func TestService_Process_InvalidResolution(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, subject, createInput())
	require.NoError(t, err)

	_, err = svc.Process(ctx, dpo, req.ID, dsr.StatusPending, registry.ZeroDigest)
	assert.True(t, errors.Is(err, registry.ErrInvalidTransition))
}

func TestService_ListPending(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, subject, createInput())
	require.NoError(t, err)
	second, err := svc.Create(ctx, "0xother", createInput())
	require.NoError(t, err)

	_, err = svc.Process(ctx, dpo, first.ID, dsr.StatusRejected, registry.HashText("resp"))
	require.NoError(t, err)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	mine, err := svc.ListByRequester(ctx, subject)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)
}

func TestService_Overdue(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()

	req, err := svc.Create(ctx, subject, createInput())
	require.NoError(t, err)

	overdue, err := svc.Overdue(ctx)
	require.NoError(t, err)
	assert.Empty(t, overdue)

	clock.Advance(31 * 24 * time.Hour)

	overdue, err = svc.Overdue(ctx)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, req.ID, overdue[0].ID)

	// Overdue is advisory; the stored status stays Pending.
	got, err := svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, dsr.StatusPending, got.Status)
}
