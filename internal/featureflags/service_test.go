package featureflags_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/justichain/justichain/internal/featureflags"
)

func newService(cacheTTL time.Duration) (*featureflags.Service, *featureflags.InMemoryRepository) {
	repo := featureflags.NewInMemoryRepository()
	service := featureflags.NewService(featureflags.ServiceConfig{
		Repository: repo,
		Logger:     zerolog.Nop(),
		CacheTTL:   cacheTTL,
	})
	return service, repo
}

func TestService_GetFlag(t *testing.T) {
	service, _ := newService(time.Minute)
	ctx := context.Background()

	// Unset flags fall back to defaults
	flag := service.GetFlag(ctx, featureflags.FlagRegistryPaused)
	if flag == nil {
		t.Fatal("expected flag to be returned")
	}
	if flag.Key != featureflags.FlagRegistryPaused {
		t.Errorf("expected key %q, got %q", featureflags.FlagRegistryPaused, flag.Key)
	}
	if flag.BoolValue(true) != false {
		t.Error("expected registry_paused to be false by default")
	}
}

func TestService_SetFlag(t *testing.T) {
	service, _ := newService(time.Minute)
	ctx := context.Background()

	err := service.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagRegistryPaused,
		Value: true,
	})
	if err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}

	if !service.IsPaused(ctx) {
		t.Error("expected registry to be paused after update")
	}
}

func TestService_SetFlags(t *testing.T) {
	service, _ := newService(time.Minute)
	ctx := context.Background()

	err := service.SetFlags(ctx, []*featureflags.Flag{
		{Key: featureflags.FlagDisableArchiveSweep, Value: true},
		{Key: featureflags.FlagDisableBlobVerification, Value: true},
	})
	if err != nil {
		t.Fatalf("failed to set flags: %v", err)
	}

	if !service.IsArchiveSweepDisabled(ctx) {
		t.Error("expected archive sweep to be disabled")
	}
	if !service.IsBlobVerificationDisabled(ctx) {
		t.Error("expected blob verification to be disabled")
	}
}

func TestService_GetAllFlags(t *testing.T) {
	service, _ := newService(time.Minute)

	flags := service.GetAllFlags(context.Background())

	expectedFlags := []string{
		featureflags.FlagRegistryPaused,
		featureflags.FlagDisableArchiveSweep,
		featureflags.FlagDisableBlobVerification,
	}
	for _, key := range expectedFlags {
		if _, ok := flags[key]; !ok {
			t.Errorf("expected flag %q to be present", key)
		}
	}
}

func TestService_InvalidateCache(t *testing.T) {
	service, repo := newService(time.Hour)
	ctx := context.Background()

	// Populate the cache
	_ = service.GetFlag(ctx, featureflags.FlagRegistryPaused)

	// Update the repository behind the service's back
	_ = repo.SetFlag(ctx, &featureflags.Flag{
		Key:   featureflags.FlagRegistryPaused,
		Value: true,
	})

	service.InvalidateCache()

	flag := service.GetFlag(ctx, featureflags.FlagRegistryPaused)
	if flag.BoolValue(false) != true {
		t.Error("expected updated value after cache invalidation")
	}
}

func TestService_IsEnabled(t *testing.T) {
	service, _ := newService(time.Minute)
	ctx := context.Background()

	if service.IsEnabled(ctx, featureflags.FlagRegistryPaused) {
		t.Error("expected registry_paused to be disabled by default")
	}
	if !service.IsDisabled(ctx, featureflags.FlagRegistryPaused) {
		t.Error("expected IsDisabled to return true for disabled flag")
	}
}
