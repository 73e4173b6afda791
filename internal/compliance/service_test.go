package compliance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justichain/justichain/internal/caseregistry"
	"github.com/justichain/justichain/internal/compliance"
	"github.com/justichain/justichain/internal/rbac"
	"github.com/justichain/justichain/internal/registry"
)

const (
	admin = registry.Identity("0xadmin")
	dpo   = registry.Identity("0xdpo")
	clerk = registry.Identity("0xclerk")
)

func newFixture(t *testing.T) (*compliance.Service, *caseregistry.Service) {
	t.Helper()
	ctx := context.Background()

	roles := rbac.NewService(rbac.ServiceConfig{
		Repository: rbac.NewInMemoryRepository(),
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, roles.Seed(ctx, rbac.RoleAdmin, admin))
	require.NoError(t, roles.Seed(ctx, rbac.RoleDPO, dpo))

	cases := caseregistry.NewService(caseregistry.ServiceConfig{
		Repository: caseregistry.NewInMemoryRepository(),
		Roles:      roles,
		Logger:     zerolog.Nop(),
	})

	svc := compliance.NewService(compliance.ServiceConfig{
		Cases:  cases,
		Roles:  roles,
		Logger: zerolog.Nop(),
	})
	return svc, cases
}

func register(t *testing.T, cases *caseregistry.Service, caseType caseregistry.CaseType) *caseregistry.Case {
	t.Helper()
	c, err := cases.Register(context.Background(), clerk, caseregistry.RegisterInput{
		ContentHash:       registry.HashText("case"),
		ClassificationTag: registry.HashText("confidential"),
		CaseType:          caseType,
		RetentionPeriod:   90 * 24 * time.Hour,
		LegalBasisHash:    registry.HashText("consent"),
	})
	require.NoError(t, err)
	return c
}

func TestService_GenerateROPA(t *testing.T) {
	svc, cases := newFixture(t)
	ctx := context.Background()

	register(t, cases, caseregistry.TypeGDPR)
	register(t, cases, caseregistry.TypeGeneral)
	register(t, cases, caseregistry.TypeDataBreach)

	report, err := svc.GenerateROPA(ctx, dpo)
	require.NoError(t, err)

	assert.Equal(t, string(dpo), report.GeneratedBy)
	assert.Equal(t, 3, report.TotalCases)
	assert.Equal(t, 2, report.GDPRCases)
	require.Len(t, report.Cases, 3)

	first := report.Cases[0]
	assert.Equal(t, int64(1), first.CaseID)
	assert.Equal(t, "GDPR", first.CaseType)
	assert.Equal(t, "90 days", first.RetentionPeriod)
	assert.True(t, first.IsGDPRCase)

	assert.Equal(t, "General", report.Cases[1].CaseType)
	assert.False(t, report.Cases[1].IsGDPRCase)
}

func TestService_GenerateROPA_Unauthorized(t *testing.T) {
	svc, _ := newFixture(t)

	_, err := svc.GenerateROPA(context.Background(), clerk)
	assert.True(t, errors.Is(err, registry.ErrUnauthorized))
}

func TestService_GenerateROPA_Empty(t *testing.T) {
	svc, _ := newFixture(t)

	report, err := svc.GenerateROPA(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalCases)
	assert.Empty(t, report.Cases)
}

func TestService_GenerateAccessReport(t *testing.T) {
	svc, cases := newFixture(t)
	ctx := context.Background()

	c := register(t, cases, caseregistry.TypeGDPR)

	report, err := svc.GenerateAccessReport(ctx, dpo, c.ID, "0xsubject")
	require.NoError(t, err)
	assert.Equal(t, c.ID, report.CaseID)
	assert.Equal(t, dpo, report.GeneratedBy)
	assert.False(t, report.ReportHash.IsZero())

	_, err = svc.GenerateAccessReport(ctx, dpo, 42, "0xsubject")
	assert.True(t, errors.Is(err, registry.ErrNotFound))

	_, err = svc.GenerateAccessReport(ctx, clerk, c.ID, "0xsubject")
	assert.True(t, errors.Is(err, registry.ErrUnauthorized))
}

func TestNewDPIATemplate(t *testing.T) {
	tpl := compliance.NewDPIATemplate("0xdpo", "2025-06-01")

	assert.Equal(t, "0xdpo", tpl.Assessor)
	assert.Contains(t, tpl.Sections, "1_description")
	assert.NotEmpty(t, tpl.Sections["1_description"].Questions)
}
