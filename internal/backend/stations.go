package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/howstheair/dashboard/internal/airquality"
)

// CreateStationRequest registers a station picked from the search results.
type CreateStationRequest struct {
	Keyword     string `json:"keyword"`
	StationName string `json:"stationName"`
	UID         int    `json:"uid"`
}

// Validate checks the request before it is sent.
func (r CreateStationRequest) Validate() error {
	if strings.TrimSpace(r.Keyword) == "" {
		return errors.New("keyword is required")
	}
	if strings.TrimSpace(r.StationName) == "" {
		return errors.New("station name is required")
	}
	return nil
}

type updateKeywordRequest struct {
	Keyword string `json:"keyword"`
}

// ListStations returns every monitored station.
func (c *Client) ListStations(ctx context.Context) ([]airquality.Station, error) {
	stations := []airquality.Station{}
	if err := c.do(ctx, http.MethodGet, "/cities", nil, nil, &stations); err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	return stations, nil
}

// CreateStation registers a new station.
func (c *Client) CreateStation(ctx context.Context, req CreateStationRequest) (*airquality.Station, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var station airquality.Station
	if err := c.do(ctx, http.MethodPost, "/cities", nil, req, &station); err != nil {
		return nil, fmt.Errorf("creating station: %w", err)
	}
	return &station, nil
}

// UpdateStationKeyword changes the lookup keyword of a station.
func (c *Client) UpdateStationKeyword(ctx context.Context, id int, keyword string) (*airquality.Station, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, errors.New("keyword is required")
	}
	var station airquality.Station
	path := fmt.Sprintf("/cities/%d", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, updateKeywordRequest{Keyword: keyword}, &station); err != nil {
		return nil, fmt.Errorf("updating station %d: %w", id, wrapNotFound(err))
	}
	return &station, nil
}

// ToggleStation flips a station's active flag and returns the updated station.
func (c *Client) ToggleStation(ctx context.Context, id int) (*airquality.Station, error) {
	var station airquality.Station
	path := fmt.Sprintf("/cities/%d/toggle", id)
	if err := c.do(ctx, http.MethodPatch, path, nil, nil, &station); err != nil {
		return nil, fmt.Errorf("toggling station %d: %w", id, wrapNotFound(err))
	}
	return &station, nil
}

// DeleteStation removes a station.
func (c *Client) DeleteStation(ctx context.Context, id int) error {
	path := fmt.Sprintf("/cities/%d", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("deleting station %d: %w", id, wrapNotFound(err))
	}
	return nil
}

// SearchStations looks up candidate stations by keyword.
func (c *Client) SearchStations(ctx context.Context, keyword string) ([]airquality.SearchStation, error) {
	query := url.Values{}
	query.Set("keyword", keyword)

	results := []airquality.SearchStation{}
	if err := c.do(ctx, http.MethodGet, "/cities/search", query, nil, &results); err != nil {
		return nil, fmt.Errorf("searching stations: %w", err)
	}
	return results, nil
}

// wrapNotFound tags a backend 404 with airquality.ErrStationNotFound while
// keeping the *APIError reachable.
func wrapNotFound(err error) error {
	if IsNotFound(err) {
		return errors.Join(airquality.ErrStationNotFound, err)
	}
	return err
}
