package worker_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/dsr"
	"github.com/justichain/justichain/internal/featureflags"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
	"github.com/justichain/justichain/internal/worker"
)

const systemIdentity = registry.Identity("did:justichain:system")

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type sweepFixture struct {
	clock    *fakeClock
	cases    *caseregistry.Service
	requests *dsr.Service
	flags    *featureflags.Service
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	logger := zerolog.New(io.Discard)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}

	roles := rbac.NewService(rbac.ServiceConfig{
		Repository: rbac.NewInMemoryRepository(),
		Logger:     logger,
		Clock:      clock.Now,
	})
	require.NoError(t, roles.Seed(context.Background(), rbac.RoleAdmin, systemIdentity))

	cases := caseregistry.NewService(caseregistry.ServiceConfig{
		Repository: caseregistry.NewInMemoryRepository(),
		Roles:      roles,
		Logger:     logger,
		Clock:      clock.Now,
	})

	requests := dsr.NewService(dsr.ServiceConfig{
		Repository: dsr.NewInMemoryRepository(),
		Roles:      roles,
		Cases:      cases,
		Logger:     logger,
		Clock:      clock.Now,
	})

	flags := featureflags.NewService(featureflags.ServiceConfig{
		Repository:   featureflags.NewInMemoryRepository(),
		Logger:       logger,
		DefaultFlags: featureflags.DefaultFlags(),
	})

	return &sweepFixture{clock: clock, cases: cases, requests: requests, flags: flags}
}

func (f *sweepFixture) registerCase(t *testing.T, retention time.Duration) *caseregistry.Case {
	t.Helper()
	c, err := f.cases.Register(context.Background(), systemIdentity, caseregistry.RegisterInput{
		ContentHash:     registry.HashText("case file"),
		CaseType:        caseregistry.TypeGDPR,
		RetentionPeriod: retention,
	})
	require.NoError(t, err)
	return c
}

func newSweepJob(f *sweepFixture) *worker.SweepJob {
	return worker.NewSweepJob(worker.SweepJobConfig{
		Config: worker.SweepConfig{
			SystemIdentity: systemIdentity,
		},
		Logger:         zerolog.New(io.Discard),
		CaseService:    f.cases,
		RequestService: f.requests,
		FlagService:    f.flags,
	})
}

func TestSweepJob_ArchivesExpiredCases(t *testing.T) {
	f := newSweepFixture(t)
	f.registerCase(t, 24*time.Hour)
	f.registerCase(t, 30*24*time.Hour)

	f.clock.Advance(48 * time.Hour)

	job := newSweepJob(f)
	outcome, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.False(t, outcome.Skipped)
	assert.Equal(t, 2, outcome.Scanned)
	assert.Equal(t, 1, outcome.Archived)
	assert.Equal(t, 0, outcome.Failed)

	c, err := f.cases.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, caseregistry.StatusArchived, c.Status)

	c, err = f.cases.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, caseregistry.StatusRegistered, c.Status)
}

func TestSweepJob_SecondRunIsNoop(t *testing.T) {
	f := newSweepFixture(t)
	f.registerCase(t, 24*time.Hour)
	f.clock.Advance(48 * time.Hour)

	job := newSweepJob(f)

	outcome, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Archived)

	outcome, err = job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Archived)

	metrics := job.GetMetrics()
	assert.Equal(t, int64(2), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.CasesArchived)
}

func TestSweepJob_SkippedWhenDisabledByFlag(t *testing.T) {
	f := newSweepFixture(t)
	f.registerCase(t, 24*time.Hour)
	f.clock.Advance(48 * time.Hour)

	err := f.flags.SetFlag(context.Background(), &featureflags.Flag{
		Key:   featureflags.FlagDisableArchiveSweep,
		Value: true,
	})
	require.NoError(t, err)

	job := newSweepJob(f)
	outcome, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, outcome.Skipped)
	assert.Equal(t, 0, outcome.Archived)

	c, err := f.cases.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, caseregistry.StatusRegistered, c.Status)

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.SkippedRuns)
	assert.Equal(t, "skipped", metrics.LastRunResult)
}

func TestSweepJob_ReportsOverdueRequests(t *testing.T) {
	f := newSweepFixture(t)
	f.registerCase(t, 365*24*time.Hour)

	_, err := f.requests.Create(context.Background(), systemIdentity, dsr.CreateInput{
		CaseID:      1,
		RequestType: dsr.TypeAccess,
	})
	require.NoError(t, err)

	// Past the 30-day response window
	f.clock.Advance(31 * 24 * time.Hour)

	job := newSweepJob(f)
	outcome, err := job.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Overdue)
}
