package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/activity"
	"github.com/howstheair/dashboard/internal/api/models"
	"github.com/howstheair/dashboard/internal/api/response"
)

const maxActivityLimit = 500

// ActivityHandler serves the operator activity log.
type ActivityHandler struct {
	log    *activity.Service
	logger zerolog.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(log *activity.Service, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{log: log, logger: logger}
}

// ListActivity handles GET /v1/activity - most recent entries first,
// ?limit= entries at most.
func (h *ActivityHandler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit, fieldErr := intParam(r, "limit", activity.DefaultListLimit, 1, maxActivityLimit)
	if fieldErr != nil {
		response.BadRequest(w, r, "invalid query parameters", collect(fieldErr))
		return
	}

	entries, err := h.log.List(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("listing activity failed")
		response.InternalError(w, r, "failed to load activity log")
		return
	}
	if entries == nil {
		entries = []*activity.Entry{}
	}
	response.JSON(w, r, http.StatusOK, models.ActivityList{Items: entries})
}
