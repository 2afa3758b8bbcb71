package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqicn/aqicn/internal/api/handler"
	"github.com/aqicn/aqicn/internal/api/models"
	"github.com/aqicn/aqicn/internal/provider/resilience"
)

type stubHealth []*resilience.ProviderHealth

func (s stubHealth) GetAllHealth() []*resilience.ProviderHealth { return s }

func TestOpsHandler_HealthCheck(t *testing.T) {
	h := handler.NewOpsHandler("1.2.3", "2026-01-01T00:00:00Z", nil)

	w := httptest.NewRecorder()
	h.HealthCheck(w, httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.Equal(t, "1.2.3", health.Details["version"])
	assert.Equal(t, "2026-01-01T00:00:00Z", health.Details["buildTime"])
}

func TestOpsHandler_ReadinessCheck(t *testing.T) {
	tests := []struct {
		name   string
		health stubHealth
		status int
	}{
		{name: "no providers", status: http.StatusOK},
		{
			name: "all closed",
			health: stubHealth{
				{Name: "nominatim", CircuitState: gobreaker.StateClosed},
				{Name: "waqi", CircuitState: gobreaker.StateClosed},
			},
			status: http.StatusOK,
		},
		{
			name:   "half open is ready",
			health: stubHealth{{Name: "waqi", CircuitState: gobreaker.StateHalfOpen}},
			status: http.StatusOK,
		},
		{
			name: "open circuit",
			health: stubHealth{
				{Name: "nominatim", CircuitState: gobreaker.StateClosed},
				{Name: "waqi", CircuitState: gobreaker.StateOpen},
			},
			status: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewOpsHandler("dev", "", tt.health)

			w := httptest.NewRecorder()
			h.ReadinessCheck(w, httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody))

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusServiceUnavailable {
				assert.Contains(t, w.Body.String(), `"openCircuits":["waqi"]`)
			}
		})
	}
}

func TestOpsHandler_SystemStatus(t *testing.T) {
	lastSuccess := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	h := handler.NewOpsHandler("dev", "", stubHealth{
		{
			Name:          "nominatim",
			CircuitState:  gobreaker.StateClosed,
			Counts:        gobreaker.Counts{Requests: 4},
			LastSuccessAt: &lastSuccess,
		},
		{
			Name:         "waqi",
			CircuitState: gobreaker.StateHalfOpen,
			Counts:       gobreaker.Counts{Requests: 1, ConsecutiveFailures: 5},
			LastError:    "server error: Service Unavailable",
		},
	})

	w := httptest.NewRecorder()
	h.SystemStatus(w, httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, models.HealthStatusDegraded, status.Status)
	require.Len(t, status.Providers, 2)

	assert.Equal(t, "nominatim", status.Providers[0].Provider)
	assert.Equal(t, models.HealthStatusOK, status.Providers[0].Status)
	assert.Equal(t, "closed", status.Providers[0].CircuitState)
	assert.Equal(t, uint32(4), status.Providers[0].Requests)
	require.NotNil(t, status.Providers[0].LastSuccessAt)
	assert.True(t, lastSuccess.Equal(status.Providers[0].LastSuccessAt.Time()))

	assert.Equal(t, models.HealthStatusDegraded, status.Providers[1].Status)
	assert.Equal(t, "half-open", status.Providers[1].CircuitState)
	assert.Equal(t, uint32(5), status.Providers[1].ConsecutiveFailures)
	assert.Equal(t, "server error: Service Unavailable", status.Providers[1].Message)
}

func TestOpsHandler_SystemStatusOpenCircuitFails(t *testing.T) {
	h := handler.NewOpsHandler("dev", "", stubHealth{
		{Name: "nominatim", CircuitState: gobreaker.StateHalfOpen},
		{Name: "waqi", CircuitState: gobreaker.StateOpen},
	})

	w := httptest.NewRecorder()
	h.SystemStatus(w, httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody))

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, models.HealthStatusFail, status.Status)
	assert.Equal(t, models.HealthStatusFail, status.Providers[1].Status)
}

func TestOpsHandler_SystemStatusOmitsUpstreamQuery(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	unreachable := server.URL
	server.Close()

	registry := resilience.NewRegistry()
	cfg := resilience.DefaultClientConfig("waqi")
	cfg.MaxRetries = 0
	cfg.Registry = registry
	client := resilience.NewClient(cfg)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet,
		unreachable+"/feed/geo:1;2/?token=SECRET123", http.NoBody)
	require.NoError(t, err)
	resp, err := client.Do(req)
	if resp != nil {
		resp.Body.Close()
	}
	require.Error(t, err)

	h := handler.NewOpsHandler("dev", "", registry)
	w := httptest.NewRecorder()
	h.SystemStatus(w, httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "SECRET123")

	var status models.SystemStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	require.Len(t, status.Providers, 1)
	assert.NotEmpty(t, status.Providers[0].Message)
}
