package airquality

// AQI categories, following the US EPA breakpoints used by WAQI.
const (
	AQIGood                        = "Good"
	AQIModerate                    = "Moderate"
	AQIUnhealthyForSensitiveGroups = "Unhealthy for Sensitive Groups"
	AQIUnhealthy                   = "Unhealthy"
	AQIVeryUnhealthy               = "Very Unhealthy"
	AQIHazardous                   = "Hazardous"
)

// UV index categories.
const (
	UVILow      = "Low"
	UVIModerate = "Moderate"
	UVIHigh     = "High"
	UVIVeryHigh = "Very High"
	UVIExtreme  = "Extreme"
)

// AQICategory returns the category label for an AQI value. Every value above
// 300 is Hazardous.
func AQICategory(aqi int) string {
	switch {
	case aqi <= 50:
		return AQIGood
	case aqi <= 100:
		return AQIModerate
	case aqi <= 150:
		return AQIUnhealthyForSensitiveGroups
	case aqi <= 200:
		return AQIUnhealthy
	case aqi <= 300:
		return AQIVeryUnhealthy
	default:
		return AQIHazardous
	}
}

// UVICategory returns the category label for a UV index. Negative values are
// treated as Low.
func UVICategory(uvi float64) string {
	switch {
	case uvi >= 11:
		return UVIExtreme
	case uvi >= 8:
		return UVIVeryHigh
	case uvi >= 6:
		return UVIHigh
	case uvi >= 3:
		return UVIModerate
	default:
		return UVILow
	}
}
