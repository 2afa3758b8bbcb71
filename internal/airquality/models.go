// Package airquality turns WAQI station feeds into air quality reports.
package airquality

import (
	"errors"
)

// Errors.
var (
	ErrFetchFailed = errors.New("air quality fetch failed")
	ErrNoFeedData  = errors.New("air quality feed has no data")
)

// Pollutant is an IAQI pollutant key.
type Pollutant string

const (
	PollutantO3   Pollutant = "o3"
	PollutantPM25 Pollutant = "pm25"
	PollutantPM10 Pollutant = "pm10"
	PollutantCO   Pollutant = "co"
	PollutantSO2  Pollutant = "so2"
	PollutantNO2  Pollutant = "no2"
)

// Weather keys in the IAQI block.
const (
	keyTemperature   = "t"
	keyHumidity      = "h"
	keyWindSpeed     = "w"
	keyWindDirection = "wd"
	keyPressure      = "p"
	seriesUVI        = "uvi"
)

// Report is the current conditions at the station nearest to a location.
// Temperature is in °F, wind speed in mph and pressure in inHg.
type Report struct {
	Address           string
	Sensor            string
	AQI               Reading
	AQICategory       string
	DominantPollutant string

	O3   Reading
	PM25 Reading
	PM10 Reading
	CO   Reading
	SO2  Reading
	NO2  Reading

	UVI         Reading
	UVICategory string

	Temperature   Reading
	Humidity      Reading
	WindSpeed     Reading
	WindDirection Reading
	WindCardinal  string
	Pressure      Reading

	ObservedAt   string
	Attributions []string
}

// Forecast is the daily pollutant forecast for a station.
type Forecast struct {
	Address string
	Sensor  string
	Days    []ForecastDay
}

// ForecastDay holds the daily averages for one day. UVI is only valid when
// the station publishes a UV forecast for that day.
type ForecastDay struct {
	Day  string
	O3   Reading
	PM25 Reading
	UVI  Reading
}

// HasUVI reports whether any day carries a UV forecast.
func (f *Forecast) HasUVI() bool {
	for _, d := range f.Days {
		if d.UVI.Valid {
			return true
		}
	}
	return false
}
