package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/howstheair/dashboard/internal/activity"
	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/backend"
)

// DataPage is the readings table with the last sync record.
type DataPage struct {
	Readings []airquality.Reading `json:"readings"`
	LastSync *airquality.AuditLog `json:"lastSync"`
	// AutoSynced is set when loading the page triggered a sync.
	AutoSynced bool `json:"autoSynced"`
	// SyncError carries the failure of an automatic sync, if any.
	SyncError string `json:"syncError,omitempty"`
}

// Freshness describes how recent the last sync is.
type Freshness struct {
	LastSync *airquality.AuditLog
	Age      time.Duration
	Stale    bool
}

// CheckFreshness fetches the last sync record and reports whether it is stale.
// A missing record is stale.
func (s *Service) CheckFreshness(ctx context.Context) (*Freshness, error) {
	last, err := s.backend.LastSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking last sync: %w", err)
	}
	return s.freshnessOf(last), nil
}

func (s *Service) freshnessOf(last *airquality.AuditLog) *Freshness {
	if last == nil {
		return &Freshness{Stale: true}
	}
	age := last.Age(s.now())
	return &Freshness{LastSync: last, Age: age, Stale: age > s.freshness}
}

// EnsureFresh triggers a sync when the last sync is missing or older than the
// freshness window. It reports whether a sync ran.
func (s *Service) EnsureFresh(ctx context.Context) (bool, error) {
	f, err := s.CheckFreshness(ctx)
	if err != nil {
		return false, err
	}
	if !f.Stale {
		return false, nil
	}
	return true, s.autoSync(ctx, f)
}

func (s *Service) autoSync(ctx context.Context, f *Freshness) error {
	event := s.logger.Info()
	if f.LastSync != nil {
		event = event.Dur("age", f.Age)
	}
	event.Msg("data is stale, starting automatic sync")

	_, err := s.systemSync(ctx)
	return err
}

// ForceSync runs a sync regardless of freshness and records it as an
// automatic sync by the system.
func (s *Service) ForceSync(ctx context.Context) (*airquality.SyncResult, error) {
	s.logger.Info().Msg("forced sync requested")
	return s.systemSync(ctx)
}

func (s *Service) systemSync(ctx context.Context) (*airquality.SyncResult, error) {
	result, err := s.backend.Sync(ctx)
	detail := ""
	if err == nil {
		detail = fmt.Sprintf("%d stations synced", result.SyncedCount)
	}
	s.activity.Record(ctx, activity.ActionSyncAuto, activity.SystemActor, "", err, detail)
	if err != nil {
		return nil, fmt.Errorf("automatic sync: %w", err)
	}
	return result, nil
}

// DataPage loads the readings page. When the data is stale it syncs first and
// then fetches; a failed sync is logged and the current data is still returned.
func (s *Service) DataPage(ctx context.Context, filter backend.ReadingFilter) (*DataPage, error) {
	if err := filter.Range().Validate(); err != nil {
		return nil, err
	}

	page := &DataPage{}

	f, err := s.CheckFreshness(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("could not check data freshness")
	} else {
		page.LastSync = f.LastSync
		if f.Stale {
			page.AutoSynced = true
			if err := s.autoSync(ctx, f); err != nil {
				s.logger.Error().Err(err).Msg("automatic sync failed")
				page.SyncError = backend.MessageOf(err, err.Error())
			} else if last, err := s.backend.LastSync(ctx); err == nil {
				page.LastSync = last
			}
		}
	}

	readings, err := s.backend.ListReadings(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("loading readings: %w", err)
	}
	page.Readings = readings

	return page, nil
}
