package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/howstheair/dashboard/internal/api/models"
	"github.com/howstheair/dashboard/internal/api/response"
	"github.com/howstheair/dashboard/internal/dashboard"
)

// SyncHandler handles the data synchronisation endpoints.
type SyncHandler struct {
	svc    *dashboard.Service
	logger zerolog.Logger
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(svc *dashboard.Service, logger zerolog.Logger) *SyncHandler {
	return &SyncHandler{svc: svc, logger: logger}
}

// Sync handles POST /v1/sync - pull fresh readings for every active station.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Sync(r.Context(), GetOperator(r.Context()))
	if err != nil {
		writeError(w, r, h.logger, err, "failed to sync data")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// LastSync handles GET /v1/sync/last - the most recent sync record and
// whether it is stale.
func (h *SyncHandler) LastSync(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.CheckFreshness(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err, "failed to load last sync")
		return
	}
	response.JSON(w, r, http.StatusOK, models.LastSync{Log: f.LastSync, Stale: f.Stale})
}
