package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/airquality"
	"github.com/howstheair/dashboard/internal/api/models"
	"github.com/howstheair/dashboard/internal/api/response"
	"github.com/howstheair/dashboard/internal/backend"
	"github.com/howstheair/dashboard/internal/dashboard"
)

// StationHandler handles the station management endpoints.
type StationHandler struct {
	svc    *dashboard.Service
	logger zerolog.Logger
}

// NewStationHandler creates a new StationHandler.
func NewStationHandler(svc *dashboard.Service, logger zerolog.Logger) *StationHandler {
	return &StationHandler{svc: svc, logger: logger}
}

// ListStations handles GET /v1/stations - list monitored stations, optionally
// filtered by ?search= against name and keyword.
func (h *StationHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	stations, err := h.svc.Stations(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load stations")
		return
	}
	response.JSON(w, r, http.StatusOK, models.StationList{Items: stations, Total: len(stations)})
}

// SearchStations handles GET /v1/stations/search - look up candidate stations
// upstream by ?keyword=.
func (h *StationHandler) SearchStations(w http.ResponseWriter, r *http.Request) {
	keyword := strings.TrimSpace(r.URL.Query().Get("keyword"))

	results, err := h.svc.SearchStations(r.Context(), keyword)
	if err != nil {
		writeError(w, r, h.logger, err, "failed to search stations")
		return
	}
	response.JSON(w, r, http.StatusOK, models.SearchResults{Keyword: keyword, Items: results})
}

// CreateStation handles POST /v1/stations - register a station.
func (h *StationHandler) CreateStation(w http.ResponseWriter, r *http.Request) {
	var input models.StationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid station", errs)
		return
	}

	station, err := h.svc.CreateStation(r.Context(), GetOperator(r.Context()), backend.CreateStationRequest{
		Keyword:     strings.TrimSpace(input.Keyword),
		StationName: strings.TrimSpace(input.StationName),
		UID:         input.UID,
	})
	if err != nil {
		writeError(w, r, h.logger, err, "failed to add station")
		return
	}

	location := fmt.Sprintf("/v1/stations/%d", station.ID)
	response.Created(w, r, location, station)
}

// UpdateStation handles PATCH /v1/stations/{id} - change a station's keyword.
func (h *StationHandler) UpdateStation(w http.ResponseWriter, r *http.Request) {
	id, fieldErr := stationID(r)
	if fieldErr != nil {
		response.BadRequest(w, r, "invalid station id", collect(fieldErr))
		return
	}

	var input models.StationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	if errs := input.Validate(); len(errs) > 0 {
		response.BadRequest(w, r, "invalid station", errs)
		return
	}

	station, err := h.svc.RenameStation(r.Context(), GetOperator(r.Context()), id, strings.TrimSpace(input.Keyword))
	if err != nil {
		writeError(w, r, h.logger, err, "failed to update station")
		return
	}
	response.JSON(w, r, http.StatusOK, station)
}

// ToggleStation handles POST /v1/stations/{id}/toggle - set or flip a
// station's active flag. An empty body flips it.
func (h *StationHandler) ToggleStation(w http.ResponseWriter, r *http.Request) {
	id, fieldErr := stationID(r)
	if fieldErr != nil {
		response.BadRequest(w, r, "invalid station id", collect(fieldErr))
		return
	}

	var input models.StationToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	ctx := r.Context()
	operator := GetOperator(ctx)

	var (
		station *airquality.Station
		err     error
	)
	if input.Active == nil {
		station, err = h.svc.FlipStation(ctx, operator, id)
	} else {
		station, err = h.svc.SetStationActive(ctx, operator, id, *input.Active)
	}
	if err != nil {
		writeError(w, r, h.logger, err, "failed to change station status")
		return
	}
	response.JSON(w, r, http.StatusOK, station)
}

// DeleteStation handles DELETE /v1/stations/{id} - remove a station.
func (h *StationHandler) DeleteStation(w http.ResponseWriter, r *http.Request) {
	id, fieldErr := stationID(r)
	if fieldErr != nil {
		response.BadRequest(w, r, "invalid station id", collect(fieldErr))
		return
	}

	if err := h.svc.DeleteStation(r.Context(), GetOperator(r.Context()), id); err != nil {
		writeError(w, r, h.logger, err, "failed to delete station")
		return
	}
	response.NoContent(w, r)
}
