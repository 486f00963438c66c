// Package handler provides HTTP handlers for the dashboard API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/howstheair/dashboard/internal/activity"
	"github.com/howstheair/dashboard/internal/api/models"
	"github.com/howstheair/dashboard/internal/api/response"
	"github.com/howstheair/dashboard/internal/provider/resilience"
)

// ProviderHealth reports the health of an upstream provider.
type ProviderHealth interface {
	Name() string
	Health() resilience.Health
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	backend   ProviderHealth
	activity  *activity.Service
}

// NewOpsHandler creates a new OpsHandler. backend and activityLog may be nil.
func NewOpsHandler(version, buildTime string, backend ProviderHealth, activityLog *activity.Service) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		backend:   backend,
		activity:  activityLog,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The service is
// not ready while the activity store fails; an open backend circuit only
// degrades it, since reads of cached board state still work.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       models.Timestamp(time.Now()),
		Subsystems: []models.SubsystemStatus{},
		Providers:  []models.ProviderStatus{},
	}

	if h.activity != nil {
		sub := h.checkActivityStore(r.Context())
		status.Subsystems = append(status.Subsystems, sub)
		status.Status = worst(status.Status, sub.Status)
	}

	if h.backend != nil {
		provider := providerStatus(h.backend.Name(), h.backend.Health())
		status.Providers = append(status.Providers, provider)
		if provider.Status != models.HealthStatusOK {
			status.Status = worst(status.Status, models.HealthStatusDegraded)
		}
	}

	code := http.StatusOK
	if status.Status == models.HealthStatusFail {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, status)
}

func (h *OpsHandler) checkActivityStore(ctx context.Context) models.SubsystemStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	sub := models.SubsystemStatus{Name: "activity-store", Status: models.HealthStatusOK}
	if _, err := h.activity.List(ctx, 1); err != nil {
		detail := err.Error()
		sub.Status = models.HealthStatusFail
		sub.Detail = &detail
	}
	return sub
}

func providerStatus(name string, health resilience.Health) models.ProviderStatus {
	ps := models.ProviderStatus{
		Provider:      name,
		Status:        models.HealthStatusOK,
		CircuitState:  health.CircuitState.String(),
		LastSuccessAt: models.TimestampPtr(health.LastSuccessAt),
		LastFailureAt: models.TimestampPtr(health.LastFailureAt),
	}
	switch {
	case health.IsUnhealthy():
		ps.Status = models.HealthStatusFail
	case health.IsDegraded():
		ps.Status = models.HealthStatusDegraded
	}
	if health.LastError != "" {
		msg := health.LastError
		ps.Message = &msg
	}
	return ps
}

func worst(a, b models.HealthStatus) models.HealthStatus {
	rank := map[models.HealthStatus]int{
		models.HealthStatusOK:       0,
		models.HealthStatusDegraded: 1,
		models.HealthStatusFail:     2,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
