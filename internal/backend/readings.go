package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/howstheair/dashboard/internal/airquality"
)

// ReadingFilter narrows GET /air-quality. Zero fields are omitted.
type ReadingFilter struct {
	Search    string
	StartDate time.Time
	EndDate   time.Time
}

// Range returns the filter's date bounds.
func (f ReadingFilter) Range() airquality.DateRange {
	return airquality.DateRange{Start: f.StartDate, End: f.EndDate}
}

func (f ReadingFilter) query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	setDate(q, "startDate", f.StartDate)
	setDate(q, "endDate", f.EndDate)
	return q
}

// HistoryFilter narrows GET /air-quality/history. Zero fields are omitted.
type HistoryFilter struct {
	StartDate time.Time
	EndDate   time.Time
	StationID int
}

// Range returns the filter's date bounds.
func (f HistoryFilter) Range() airquality.DateRange {
	return airquality.DateRange{Start: f.StartDate, End: f.EndDate}
}

func (f HistoryFilter) query() url.Values {
	q := url.Values{}
	setDate(q, "startDate", f.StartDate)
	setDate(q, "endDate", f.EndDate)
	if f.StationID > 0 {
		q.Set("cityId", strconv.Itoa(f.StationID))
	}
	return q
}

func setDate(q url.Values, key string, t time.Time) {
	if !t.IsZero() {
		q.Set(key, t.Format(airquality.DayKeyLayout))
	}
}

// ListReadings returns the latest readings, with their station attached.
func (c *Client) ListReadings(ctx context.Context, filter ReadingFilter) ([]airquality.Reading, error) {
	if err := filter.Range().Validate(); err != nil {
		return nil, err
	}
	readings := []airquality.Reading{}
	if err := c.do(ctx, http.MethodGet, "/air-quality", filter.query(), nil, &readings); err != nil {
		return nil, fmt.Errorf("listing readings: %w", err)
	}
	normalizeStations(readings)
	return readings, nil
}

// History returns historical readings, optionally for one station.
func (c *Client) History(ctx context.Context, filter HistoryFilter) ([]airquality.Reading, error) {
	if err := filter.Range().Validate(); err != nil {
		return nil, err
	}
	readings := []airquality.Reading{}
	if err := c.do(ctx, http.MethodGet, "/air-quality/history", filter.query(), nil, &readings); err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	normalizeStations(readings)
	return readings, nil
}

// Sync asks the backend to pull fresh readings for every active station.
func (c *Client) Sync(ctx context.Context) (*airquality.SyncResult, error) {
	var result airquality.SyncResult
	if err := c.do(ctx, http.MethodPost, "/air-quality/sync", nil, nil, &result); err != nil {
		return nil, fmt.Errorf("syncing: %w", err)
	}
	return &result, nil
}

// LastSync returns the most recent sync record, or nil if none was recorded.
func (c *Client) LastSync(ctx context.Context) (*airquality.AuditLog, error) {
	var log *airquality.AuditLog
	if err := c.do(ctx, http.MethodGet, "/air-quality/last-sync", nil, nil, &log); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetching last sync: %w", err)
	}
	if log != nil && log.PerformedAt.IsZero() {
		return nil, nil
	}
	return log, nil
}

// normalizeStations makes StationID and Station.ID agree. History rows carry
// monitoredCityId with a partial relation; latest rows carry the full relation.
func normalizeStations(readings []airquality.Reading) {
	for i := range readings {
		r := &readings[i]
		if r.Station == nil {
			continue
		}
		if r.StationID == 0 {
			r.StationID = r.Station.ID
		}
		if r.Station.ID == 0 {
			r.Station.ID = r.StationID
		}
	}
}
