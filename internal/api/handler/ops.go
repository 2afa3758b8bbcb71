package handler

import (
	"net/http"
	"time"

	"github.com/aqicn/aqicn/internal/api/models"
	"github.com/aqicn/aqicn/internal/api/response"
	"github.com/aqicn/aqicn/internal/provider/resilience"
)

// HealthSource reports upstream health.
type HealthSource interface {
	GetAllHealth() []*resilience.ProviderHealth
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	health    HealthSource
}

// NewOpsHandler creates a new OpsHandler. health may be nil when no
// upstream is tracked.
func NewOpsHandler(version, buildTime string, health HealthSource) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		health:    health,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready. The service is not ready while
// any upstream circuit is open, since every lookup would fail fast.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	var open []string
	for _, p := range h.providers() {
		if !p.IsHealthy() && !p.IsDegraded() {
			open = append(open, p.Name)
		}
	}

	if len(open) > 0 {
		response.JSON(w, r, http.StatusServiceUnavailable, models.Health{
			Status:  models.HealthStatusFail,
			Time:    models.Timestamp(time.Now()),
			Details: map[string]any{"openCircuits": open},
		})
		return
	}

	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	})
}

// SystemStatus handles GET /v1/ops/status - per-upstream breaker state.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	providers := h.providers()

	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Providers: make([]models.ProviderStatus, 0, len(providers)),
	}

	for _, p := range providers {
		ps := models.ProviderStatus{
			Provider:            p.Name,
			Status:              models.HealthStatusOK,
			CircuitState:        p.CircuitState.String(),
			Requests:            p.Counts.Requests,
			ConsecutiveFailures: p.Counts.ConsecutiveFailures,
			LastSuccessAt:       models.TimestampPtr(p.LastSuccessAt),
			LastFailureAt:       models.TimestampPtr(p.LastFailureAt),
			Message:             p.LastError,
		}

		switch {
		case p.IsHealthy():
		case p.IsDegraded():
			ps.Status = models.HealthStatusDegraded
			if status.Status == models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
		default:
			ps.Status = models.HealthStatusFail
			status.Status = models.HealthStatusFail
		}

		status.Providers = append(status.Providers, ps)
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) providers() []*resilience.ProviderHealth {
	if h.health == nil {
		return nil
	}
	return h.health.GetAllHealth()
}
