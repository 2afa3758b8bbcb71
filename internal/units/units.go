// Package units converts the metric values reported by air quality stations
// into the imperial units shown in reports.
package units

import "math"

// Conversion factors.
const (
	KphToMph   = 0.0621371
	HPaToInHg  = 0.02953
	degPerWind = 22.5
)

var cardinalDirections = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Fahrenheit converts Celsius to Fahrenheit, rounded to 2 decimals.
func Fahrenheit(celsius float64) float64 {
	return Round(celsius*9/5+32, 2)
}

// MPH converts km/h to miles per hour, rounded to 1 decimal.
func MPH(kph float64) float64 {
	return Round(kph*KphToMph, 1)
}

// InHg converts hPa to inches of mercury, rounded to 2 decimals.
func InHg(hPa float64) float64 {
	return Round(hPa*HPaToInHg, 2)
}

// Cardinal returns the 16-point compass direction for a bearing in degrees.
// Bearings outside [0, 360) are normalized first.
func Cardinal(degrees float64) string {
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	// Segments are centered on each direction, so shift by half a segment.
	idx := int(math.Floor((degrees+degPerWind/2)/degPerWind)) % len(cardinalDirections)
	return cardinalDirections[idx]
}
