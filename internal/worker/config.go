// Package worker runs the background sync for the air-quality dashboard: a
// cron-scheduled freshness check and an optional Pub/Sub trigger.
package worker

import (
	"time"
)

// SyncConfig holds configuration for the sync job and its schedule.
type SyncConfig struct {
	// Schedule is a cron expression (five fields, or a descriptor such as
	// "@every 5m"). Default: "@every 5m".
	Schedule string

	// Timeout bounds a single job run.
	// Default: 2 minutes
	Timeout time.Duration
}

// DefaultSyncConfig returns the default sync configuration.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		Schedule: "@every 5m",
		Timeout:  2 * time.Minute,
	}
}

func (c SyncConfig) withDefaults() SyncConfig {
	def := DefaultSyncConfig()
	if c.Schedule == "" {
		c.Schedule = def.Schedule
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}
