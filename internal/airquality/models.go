// Package airquality holds the dashboard's domain types and the client-side
// aggregation that turns synced readings into chart series.
package airquality

import (
	"errors"
	"strings"
	"time"
)

// Domain errors.
var (
	ErrStationNotFound  = errors.New("station not found")
	ErrInvalidDateRange = errors.New("start date is after end date")
	ErrToggleConflict   = errors.New("station state changed during toggle")
)

// UnknownCategory is the label used for readings without a category.
const UnknownCategory = "Unknown"

// Standard AQI category labels as reported by the backend.
const (
	CategoryGood                        = "Good"
	CategoryModerate                    = "Moderate"
	CategoryUnhealthyForSensitiveGroups = "Unhealthy for Sensitive Groups"
	CategoryUnhealthy                   = "Unhealthy"
	CategoryVeryUnhealthy               = "Very Unhealthy"
	CategoryHazardous                   = "Hazardous"
)

// Station is a monitored city or location whose readings are synced.
type Station struct {
	ID          int       `json:"id"`
	StationName string    `json:"stationName"`
	Keyword     string    `json:"keyword"`
	IsActive    bool      `json:"isActive"`
	UID         int       `json:"uid"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Reading is a single AQI measurement for a station.
//
// Category is empty when the backend sent null. Station is nil for history rows
// that did not include the station relation; StationID is always set.
type Reading struct {
	ID         int       `json:"id"`
	AQI        float64   `json:"aqi"`
	Category   string    `json:"category"`
	RecordedAt time.Time `json:"recordedAt"`
	LastSynced time.Time `json:"lastSynced"`
	StationID  int       `json:"monitoredCityId,omitempty"`
	Station    *Station  `json:"monitoredCity,omitempty"`
}

// CategoryLabel returns the reading's category, or UnknownCategory when absent.
func (r Reading) CategoryLabel() string {
	if strings.TrimSpace(r.Category) == "" {
		return UnknownCategory
	}
	return r.Category
}

// StationName returns the name of the station the reading belongs to, if known.
func (r Reading) StationName() string {
	if r.Station == nil {
		return ""
	}
	return r.Station.StationName
}

// AuditLog is the backend's record of one synchronization attempt.
type AuditLog struct {
	ID          int       `json:"id"`
	Action      string    `json:"action"`
	Details     string    `json:"details"`
	Status      string    `json:"status"`
	PerformedAt time.Time `json:"performedAt"`
}

// Age returns how long ago the sync was performed, relative to now.
func (a *AuditLog) Age(now time.Time) time.Duration {
	return now.Sub(a.PerformedAt)
}

// SyncResult is returned by a manual sync.
type SyncResult struct {
	Message     string `json:"message"`
	SyncedCount int    `json:"syncedCount"`
}

// SearchStation is a candidate station returned by the external lookup.
type SearchStation struct {
	UID          int    `json:"uid"`
	Name         string `json:"name"`
	AQI          string `json:"aqi"`
	KeywordValue string `json:"keywordValue"`
}

// DateRange bounds a readings query by civil day. Zero values are open ends.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Validate reports whether the range is well formed.
func (d DateRange) Validate() error {
	if !d.Start.IsZero() && !d.End.IsZero() && d.Start.After(d.End) {
		return ErrInvalidDateRange
	}
	return nil
}
