package caseregistry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

const (
	admin = registry.Identity("0xadmin")
	judge = registry.Identity("0xjudge")
	clerk = registry.Identity("0xclerk")
	dpo   = registry.Identity("0xdpo")
)

// fakeClock is a settable clock for retention tests.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newService(t *testing.T) (*caseregistry.Service, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	roles := rbac.NewService(rbac.ServiceConfig{
		Repository: rbac.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
		Clock:      clock.Now,
	})
	ctx := context.Background()
	require.NoError(t, roles.Seed(ctx, rbac.RoleAdmin, admin))
	require.NoError(t, roles.Seed(ctx, rbac.RoleJudge, judge))
	require.NoError(t, roles.Seed(ctx, rbac.RoleDPO, dpo))

	svc := caseregistry.NewService(caseregistry.ServiceConfig{
		Repository: caseregistry.NewInMemoryRepository(),
		Roles:      roles,
		Logger:     zerolog.Nop(),
		Clock:      clock.Now,
	})
	return svc, clock
}

func registerInput() caseregistry.RegisterInput {
	return caseregistry.RegisterInput{
		ContentHash:       registry.HashText("case file"),
		ClassificationTag: registry.HashText("confidential"),
		CaseType:          caseregistry.TypeGDPR,
		RetentionPeriod:   30 * 24 * time.Hour,
		LegalBasisHash:    registry.HashText("consent"),
	}
}

func TestService_Register(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()

	c, err := svc.Register(ctx, clerk, registerInput())
	require.NoError(t, err)

	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, caseregistry.StatusRegistered, c.Status)
	assert.True(t, c.IsGDPRCase, "GDPR case type implies GDPR relevance")
	assert.Equal(t, clock.Now(), c.FilingDate)

	second, err := svc.Register(ctx, clerk, registerInput())
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID, "ids are dense and sequential")

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestService_Register_GeneralNotGDPR(t *testing.T) {
	svc, _ := newService(t)

	input := registerInput()
	input.CaseType = caseregistry.TypeGeneral

	c, err := svc.Register(context.Background(), clerk, input)
	require.NoError(t, err)
	assert.False(t, c.IsGDPRCase)
}

func TestService_Register_Invalid(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	input := registerInput()
	input.CaseType = "FELONY"
	_, err := svc.Register(ctx, clerk, input)
	assert.True(t, errors.Is(err, registry.ErrInvalidArgument), "unknown case type")

	input = registerInput()
	input.RetentionPeriod = 0
	_, err = svc.Register(ctx, clerk, input)
	assert.True(t, errors.Is(err, registry.ErrInvalidArgument), "non-positive retention")

	input = registerInput()
	input.ContentHash = registry.ZeroDigest
	_, err = svc.Register(ctx, clerk, input)
	assert.True(t, errors.Is(err, registry.ErrInvalidDigest))

	_, err = svc.Register(ctx, registry.NoIdentity, registerInput())
	assert.True(t, errors.Is(err, registry.ErrUnauthorized))
}

func TestService_AssignJudge(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.Register(ctx, clerk, registerInput())
	require.NoError(t, err)

	updated, err := svc.AssignJudge(ctx, admin, c.ID, judge)
	require.NoError(t, err)
	assert.Equal(t, judge, updated.AssignedJudge)
}

func TestService_AssignJudge_RoleMismatch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.Register(ctx, clerk, registerInput())
	require.NoError(t, err)

	_, err = svc.AssignJudge(ctx, admin, c.ID, clerk)
	assert.True(t, errors.Is(err, registry.ErrRoleMismatch))

	_, err = svc.AssignJudge(ctx, judge, c.ID, judge)
	assert.True(t, errors.Is(err, registry.ErrUnauthorized), "only admins assign judges")
}

func TestService_ScheduleHearing(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()

	c, err := svc.Register(ctx, clerk, registerInput())
	require.NoError(t, err)
	_, err = svc.AssignJudge(ctx, admin, c.ID, judge)
	require.NoError(t, err)

	hearing := clock.Now().Add(48 * time.Hour)
	updated, err := svc.ScheduleHearing(ctx, judge, c.ID, hearing)
	require.NoError(t, err)
	assert.Equal(t, hearing, updated.NextHearingDate)

	_, err = svc.ScheduleHearing(ctx, judge, c.ID, clock.Now().Add(-time.Hour))
	assert.True(t, errors.Is(err, registry.ErrInvalidArgument), "hearing must be in the future")

	_, err = svc.ScheduleHearing(ctx, clerk, c.ID, hearing)
	assert.True(t, errors.Is(err, registry.ErrUnauthorized))
}

func TestService_UpdateStatus_ForwardOnly(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.Register(ctx, clerk, registerInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, admin, c.ID, caseregistry.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, caseregistry.StatusInProgress, updated.Status)

	// Skipping a stage forward is allowed.
	updated, err = svc.UpdateStatus(ctx, admin, c.ID, caseregistry.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, caseregistry.StatusClosed, updated.Status)

	_, err = svc.UpdateStatus(ctx, admin, c.ID, caseregistry.StatusDecided)
	assert.True(t, errors.Is(err, registry.ErrInvalidTransition), "backward transition rejected")

	_, err = svc.UpdateStatus(ctx, admin, c.ID, caseregistry.StatusClosed)
	assert.True(t, errors.Is(err, registry.ErrInvalidTransition), "same-status update rejected")

	_, err = svc.UpdateStatus(ctx, admin, c.ID, caseregistry.StatusArchived)
	assert.True(t, errors.Is(err, registry.ErrInvalidTransition), "archival is sweep-only")
}

func TestService_UpdateStatus_AssignedJudge(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.Register(ctx, clerk, registerInput())
	require.NoError(t, err)
	_, err = svc.AssignJudge(ctx, admin, c.ID, judge)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, judge, c.ID, caseregistry.StatusInProgress)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, clerk, c.ID, caseregistry.StatusDecided)
	assert.True(t, errors.Is(err, registry.ErrUnauthorized))
}

func TestService_UpdateStatus_NotFound(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.UpdateStatus(context.Background(), admin, 99, caseregistry.StatusInProgress)
	assert.True(t, errors.Is(err, registry.ErrNotFound))
}

func TestService_ArchiveExpired(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()

	short := registerInput()
	short.RetentionPeriod = 24 * time.Hour
	expiring, err := svc.Register(ctx, clerk, short)
	require.NoError(t, err)

	keeper, err := svc.Register(ctx, clerk, registerInput())
	require.NoError(t, err)

	clock.Advance(48 * time.Hour)

	result, err := svc.ArchiveExpired(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Archived)
	assert.Equal(t, 0, result.Failed)

	archived, err := svc.Get(ctx, expiring.ID)
	require.NoError(t, err)
	assert.Equal(t, caseregistry.StatusArchived, archived.Status)

	kept, err := svc.Get(ctx, keeper.ID)
	require.NoError(t, err)
	assert.Equal(t, caseregistry.StatusRegistered, kept.Status)

	// Archived cases drop out of default listings but stay exportable.
	listed, err := svc.List(ctx, caseregistry.ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, keeper.ID, listed[0].ID)

	export, err := svc.ExportForROPA(ctx, expiring.ID)
	require.NoError(t, err)
	assert.Equal(t, expiring.ID, export.CaseID)
}

func TestService_ArchiveExpired_Idempotent(t *testing.T) {
	svc, clock := newService(t)
	ctx := context.Background()

	short := registerInput()
	short.RetentionPeriod = 24 * time.Hour
	_, err := svc.Register(ctx, clerk, short)
	require.NoError(t, err)

	clock.Advance(48 * time.Hour)

	first, err := svc.ArchiveExpired(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Archived)

	second, err := svc.ArchiveExpired(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Archived, "second sweep is a no-op")
	assert.Equal(t, 0, second.Failed)
}

func TestService_ArchiveExpired_NonAdmin(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ArchiveExpired(context.Background(), clerk)
	assert.True(t, errors.Is(err, registry.ErrUnauthorized))
}

func TestService_GetPartyDetails_Restricted(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	c, err := svc.Register(ctx, clerk, registerInput())
	require.NoError(t, err)
	_, err = svc.AssignJudge(ctx, admin, c.ID, judge)
	require.NoError(t, err)

	details, err := svc.GetPartyDetails(ctx, judge, c.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, judge, details.AssignedJudge)
	assert.Equal(t, int64(3), details.TotalDocuments)

	_, err = svc.GetPartyDetails(ctx, dpo, c.ID, 3)
	require.NoError(t, err, "DPO may read party details")

	_, err = svc.GetPartyDetails(ctx, clerk, c.ID, 3)
	assert.True(t, errors.Is(err, registry.ErrUnauthorized))
}

func TestService_ExportForROPA(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	input := registerInput()
	c, err := svc.Register(ctx, clerk, input)
	require.NoError(t, err)

	export, err := svc.ExportForROPA(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, input.ContentHash, export.CaseHash)
	assert.Equal(t, input.LegalBasisHash, export.LegalBasisHash)
	assert.True(t, export.IsGDPRCase)

	_, err = svc.ExportForROPA(ctx, 42)
	assert.True(t, errors.Is(err, registry.ErrNotFound))
}
