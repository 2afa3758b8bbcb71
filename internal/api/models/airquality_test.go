package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aqicn/aqicn/internal/airquality"
	"github.com/aqicn/aqicn/internal/api/models"
)

func TestNewCurrentAirQuality_JSON(t *testing.T) {
	report := &airquality.Report{
		Address:           "Lincoln, Nebraska",
		Sensor:            "Lincoln",
		AQI:               airquality.Some(42),
		AQICategory:       airquality.AQIGood,
		DominantPollutant: "pm25",
		PM25:              airquality.Some(10),
		UVICategory:       airquality.NotAvailable,
		Temperature:       airquality.Some(68),
		WindCardinal:      airquality.NotAvailable,
		Pressure:          airquality.Some(29.91),
	}

	data, err := json.Marshal(models.NewCurrentAirQuality(report))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.InDelta(t, 42, got["aqi"], 0)
	assert.Equal(t, "Good", got["aqiCategory"])

	pollutants := got["pollutants"].(map[string]any)
	assert.InDelta(t, 10, pollutants["pm25"], 0)
	assert.Nil(t, pollutants["o3"])
	assert.Contains(t, pollutants, "o3")

	weather := got["weather"].(map[string]any)
	assert.InDelta(t, 68, weather["temperatureF"], 0)
	assert.InDelta(t, 29.91, weather["pressureInHg"], 0)
	assert.Nil(t, weather["windSpeedMph"])
	assert.NotContains(t, got, "attributions")
}

func TestNewAirQualityForecast(t *testing.T) {
	f := &airquality.Forecast{
		Address: "Lincoln",
		Sensor:  "Lincoln",
		Days: []airquality.ForecastDay{
			{Day: "2024-06-01", O3: airquality.Some(20), PM25: airquality.Some(30)},
		},
	}

	got := models.NewAirQualityForecast(f)
	require.Len(t, got.Days, 1)
	assert.Equal(t, "2024-06-01", got.Days[0].Day)
	assert.False(t, got.Days[0].UVI.Valid)
}

func TestTimestamp_RoundTrip(t *testing.T) {
	ts := models.Timestamp(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-01T12:00:00Z"`, string(data))

	var back models.Timestamp
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, ts.Time().Equal(back.Time()))

	assert.Nil(t, models.TimestampPtr(nil))
}
