package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/api/response"
	"github.com/howstheair/dashboard/internal/dashboard"
)

// maxTrendDays bounds the ?days= parameter of the overview.
const maxTrendDays = 366

// DashboardHandler serves the analytics overview.
type DashboardHandler struct {
	svc    *dashboard.Service
	logger zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *dashboard.Service, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{svc: svc, logger: logger}
}

// Overview handles GET /v1/dashboard - summary, category distribution and the
// daily AQI trend. ?days= limits the trend to the most recent days.
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	days, fieldErr := intParam(r, "days", 0, 1, maxTrendDays)
	if fieldErr != nil {
		response.BadRequest(w, r, "invalid query parameters", collect(fieldErr))
		return
	}

	overview, err := h.svc.Overview(r.Context(), dashboard.OverviewOptions{Days: days})
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load dashboard data")
		return
	}
	response.JSON(w, r, http.StatusOK, overview)
}
