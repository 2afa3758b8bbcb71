package handler

import (
	"net/http"

	"github.com/aqicn/aqicn/internal/api/models"
	"github.com/aqicn/aqicn/internal/api/response"
)

// AirQualityHandler serves the JSON air quality endpoints.
type AirQualityHandler struct {
	service Looker
}

// NewAirQualityHandler creates a new AirQualityHandler.
func NewAirQualityHandler(service Looker) *AirQualityHandler {
	return &AirQualityHandler{service: service}
}

// GetCurrent handles GET /v1/air-quality/current.
func (h *AirQualityHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Current(r.Context(), queryFromValues(r.URL.Query()))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewCurrentAirQuality(report))
}

// GetForecast handles GET /v1/air-quality/forecast.
func (h *AirQualityHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.service.Forecast(r.Context(), queryFromValues(r.URL.Query()))
	if err != nil {
		writeLookupError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewAirQualityForecast(forecast))
}
