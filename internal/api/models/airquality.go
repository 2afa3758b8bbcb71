package models

import "github.com/aqicn/aqicn/internal/airquality"

// Pollutants holds the instantaneous IAQI values. Missing values are null.
type Pollutants struct {
	O3   airquality.Reading `json:"o3"`
	PM25 airquality.Reading `json:"pm25"`
	PM10 airquality.Reading `json:"pm10"`
	CO   airquality.Reading `json:"co"`
	SO2  airquality.Reading `json:"so2"`
	NO2  airquality.Reading `json:"no2"`
}

// Weather holds station weather in imperial units.
type Weather struct {
	TemperatureF     airquality.Reading `json:"temperatureF"`
	HumidityPercent  airquality.Reading `json:"humidityPercent"`
	WindSpeedMph     airquality.Reading `json:"windSpeedMph"`
	WindDirectionDeg airquality.Reading `json:"windDirectionDeg"`
	WindCardinal     string             `json:"windCardinal"`
	PressureInHg     airquality.Reading `json:"pressureInHg"`
}

// CurrentAirQuality is the response of GET /v1/air-quality/current.
type CurrentAirQuality struct {
	Address           string             `json:"address"`
	Sensor            string             `json:"sensor"`
	AQI               airquality.Reading `json:"aqi"`
	AQICategory       string             `json:"aqiCategory"`
	DominantPollutant string             `json:"dominantPollutant"`
	Pollutants        Pollutants         `json:"pollutants"`
	UVI               airquality.Reading `json:"uvi"`
	UVICategory       string             `json:"uviCategory"`
	Weather           Weather            `json:"weather"`
	ObservedAt        string             `json:"observedAt,omitempty"`
	Attributions      []string           `json:"attributions,omitempty"`
}

// ForecastDay is one day of the forecast response.
type ForecastDay struct {
	Day  string             `json:"day"`
	O3   airquality.Reading `json:"o3"`
	PM25 airquality.Reading `json:"pm25"`
	UVI  airquality.Reading `json:"uvi"`
}

// AirQualityForecast is the response of GET /v1/air-quality/forecast.
type AirQualityForecast struct {
	Address string        `json:"address"`
	Sensor  string        `json:"sensor"`
	Days    []ForecastDay `json:"days"`
}

// NewCurrentAirQuality converts an assembled report.
func NewCurrentAirQuality(r *airquality.Report) CurrentAirQuality {
	return CurrentAirQuality{
		Address:           r.Address,
		Sensor:            r.Sensor,
		AQI:               r.AQI,
		AQICategory:       r.AQICategory,
		DominantPollutant: r.DominantPollutant,
		Pollutants: Pollutants{
			O3:   r.O3,
			PM25: r.PM25,
			PM10: r.PM10,
			CO:   r.CO,
			SO2:  r.SO2,
			NO2:  r.NO2,
		},
		UVI:         r.UVI,
		UVICategory: r.UVICategory,
		Weather: Weather{
			TemperatureF:     r.Temperature,
			HumidityPercent:  r.Humidity,
			WindSpeedMph:     r.WindSpeed,
			WindDirectionDeg: r.WindDirection,
			WindCardinal:     r.WindCardinal,
			PressureInHg:     r.Pressure,
		},
		ObservedAt:   r.ObservedAt,
		Attributions: r.Attributions,
	}
}

// NewAirQualityForecast converts an assembled forecast.
func NewAirQualityForecast(f *airquality.Forecast) AirQualityForecast {
	days := make([]ForecastDay, len(f.Days))
	for i, d := range f.Days {
		days[i] = ForecastDay{Day: d.Day, O3: d.O3, PM25: d.PM25, UVI: d.UVI}
	}
	return AirQualityForecast{
		Address: f.Address,
		Sensor:  f.Sensor,
		Days:    days,
	}
}
