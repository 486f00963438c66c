package handler

import (
	"math"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/api/models"
	"github.com/howstheair/dashboard/internal/api/response"
	"github.com/howstheair/dashboard/internal/backend"
	"github.com/howstheair/dashboard/internal/dashboard"
)

// ReadingHandler serves the readings table and history.
type ReadingHandler struct {
	svc    *dashboard.Service
	logger zerolog.Logger
}

// NewReadingHandler creates a new ReadingHandler.
func NewReadingHandler(svc *dashboard.Service, logger zerolog.Logger) *ReadingHandler {
	return &ReadingHandler{svc: svc, logger: logger}
}

// ListReadings handles GET /v1/readings - the readings page. Loading it syncs
// first when the last sync is stale; see dashboard.Service.DataPage.
func (h *ReadingHandler) ListReadings(w http.ResponseWriter, r *http.Request) {
	start, startErr := dateParam(r, "startDate")
	end, endErr := dateParam(r, "endDate")
	if errs := collect(startErr, endErr); len(errs) > 0 {
		response.BadRequest(w, r, "invalid query parameters", errs)
		return
	}

	page, err := h.svc.DataPage(r.Context(), backend.ReadingFilter{
		Search:    strings.TrimSpace(r.URL.Query().Get("search")),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load readings")
		return
	}
	response.JSON(w, r, http.StatusOK, page)
}

// History handles GET /v1/readings/history - historical readings, optionally
// for one station (?cityId=).
func (h *ReadingHandler) History(w http.ResponseWriter, r *http.Request) {
	start, startErr := dateParam(r, "startDate")
	end, endErr := dateParam(r, "endDate")
	cityID, cityErr := intParam(r, "cityId", 0, 1, math.MaxInt32)
	if errs := collect(startErr, endErr, cityErr); len(errs) > 0 {
		response.BadRequest(w, r, "invalid query parameters", errs)
		return
	}

	readings, err := h.svc.History(r.Context(), backend.HistoryFilter{
		StartDate: start,
		EndDate:   end,
		StationID: cityID,
	})
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load history")
		return
	}
	response.JSON(w, r, http.StatusOK, models.ReadingList{Items: readings, Total: len(readings)})
}
