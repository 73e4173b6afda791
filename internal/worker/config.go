// Package worker provides background job processing for the registry.
package worker

import (
	"time"

	"github.com/justichain/justichain/internal/registry"
)

// SweepConfig holds configuration for the retention sweep job.
type SweepConfig struct {
	// SystemIdentity is the seeded Admin identity the sweep runs as.
	// The case service enforces the Admin gate on archival.
	SystemIdentity registry.Identity

	// Interval is how often the scheduled sweep runs.
	// Default: 24 hours
	Interval time.Duration

	// Timeout bounds a single sweep run.
	// Default: 5 minutes
	Timeout time.Duration

	// CheckOverdueRequests enables the advisory scan for data-subject
	// requests past their response deadline.
	// Default: true
	CheckOverdueRequests bool
}

// DefaultSweepConfig returns the default sweep configuration.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Interval:             24 * time.Hour,
		Timeout:              5 * time.Minute,
		CheckOverdueRequests: true,
	}
}

// withDefaults fills zero fields with defaults.
func (c SweepConfig) withDefaults() SweepConfig {
	def := DefaultSweepConfig()
	if c.Interval <= 0 {
		c.Interval = def.Interval
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}
