package models

import (
	"strings"

	"github.com/howstheair/dashboard/internal/activity"
	"github.com/howstheair/dashboard/internal/airquality"
)

// StationCreateRequest is the body of POST /v1/stations.
type StationCreateRequest struct {
	Keyword     string `json:"keyword"`
	StationName string `json:"stationName"`
	UID         int    `json:"uid"`
}

// Validate returns one FieldError per invalid field.
func (r StationCreateRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Keyword) == "" {
		errs = append(errs, FieldError{Field: "keyword", Message: "required", Code: "REQUIRED"})
	}
	if strings.TrimSpace(r.StationName) == "" {
		errs = append(errs, FieldError{Field: "stationName", Message: "required", Code: "REQUIRED"})
	}
	if r.UID < 0 {
		errs = append(errs, FieldError{Field: "uid", Message: "must not be negative", Code: "OUT_OF_RANGE"})
	}
	return errs
}

// StationUpdateRequest is the body of PATCH /v1/stations/{id}.
type StationUpdateRequest struct {
	Keyword string `json:"keyword"`
}

// Validate returns one FieldError per invalid field.
func (r StationUpdateRequest) Validate() []FieldError {
	if strings.TrimSpace(r.Keyword) == "" {
		return []FieldError{{Field: "keyword", Message: "required", Code: "REQUIRED"}}
	}
	return nil
}

// StationToggleRequest is the body of POST /v1/stations/{id}/toggle.
// Active is the desired state; when omitted the current state is flipped.
type StationToggleRequest struct {
	Active *bool `json:"active"`
}

// StationList wraps a list of stations.
type StationList struct {
	Items []airquality.Station `json:"items"`
	Total int                  `json:"total"`
}

// SearchResults wraps station search candidates.
type SearchResults struct {
	Keyword string                     `json:"keyword"`
	Items   []airquality.SearchStation `json:"items"`
}

// ReadingList wraps a list of readings.
type ReadingList struct {
	Items []airquality.Reading `json:"items"`
	Total int                  `json:"total"`
}

// LastSync is the body of GET /v1/sync/last. Log is nil when no sync was
// ever recorded.
type LastSync struct {
	Log   *airquality.AuditLog `json:"log"`
	Stale bool                 `json:"stale"`
}

// ActivityList wraps activity log entries, newest first.
type ActivityList struct {
	Items []*activity.Entry `json:"items"`
}
