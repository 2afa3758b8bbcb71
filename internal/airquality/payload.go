package airquality

// Payload is the decoded "data" object of a WAQI feed response.
type Payload struct {
	AQI          Reading       `json:"aqi"`
	Idx          int           `json:"idx"`
	Attributions []Attribution `json:"attributions"`
	City         City          `json:"city"`
	DominentPol  string        `json:"dominentpol"`
	IAQI         IAQI          `json:"iaqi"`
	Time         ObservedTime  `json:"time"`
	Forecast     struct {
		Daily DailySeries `json:"daily"`
	} `json:"forecast"`
}

// Attribution credits the agency that operates a station.
type Attribution struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// City describes the monitoring station.
type City struct {
	Geo  []float64 `json:"geo"`
	Name string    `json:"name"`
	URL  string    `json:"url"`
}

// ObservedTime is the station's local observation time.
type ObservedTime struct {
	S   string `json:"s"`
	TZ  string `json:"tz"`
	V   int64  `json:"v"`
	ISO string `json:"iso"`
}

// IAQI holds the individual readings keyed by pollutant or weather code
// ("pm25", "o3", "t", "w", ...).
type IAQI map[string]struct {
	V Reading `json:"v"`
}

// Reading returns the value stored under key, or an invalid reading when the
// key is absent.
func (i IAQI) Reading(key string) Reading {
	entry, ok := i[key]
	if !ok {
		return Reading{}
	}
	return entry.V
}

// DailyForecast is one day of a forecast series.
type DailyForecast struct {
	Day string  `json:"day"`
	Avg Reading `json:"avg"`
	Max Reading `json:"max"`
	Min Reading `json:"min"`
}

// DailySeries maps a pollutant code ("o3", "pm25", "pm10", "uvi") to its
// daily forecast.
type DailySeries map[string][]DailyForecast
