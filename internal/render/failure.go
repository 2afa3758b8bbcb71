package render

import (
	"context"
	"errors"
	"fmt"

	"github.com/aqicn/aqicn/internal/airquality"
	"github.com/aqicn/aqicn/internal/airquality/waqi"
	"github.com/aqicn/aqicn/internal/geocode"
)

// EmptyQueryMessage is shown when no location field was entered.
const EmptyQueryMessage = "Please enter at least one location field."

// FailureMessage converts a lookup error into the single line shown to the
// user.
func FailureMessage(err error) string {
	var fetchErr *waqi.FetchError
	var apiErr *waqi.APIError

	switch {
	case errors.Is(err, geocode.ErrEmptyQuery):
		return EmptyQueryMessage
	case errors.Is(err, geocode.ErrLocationNotFound):
		return "[-] Location not found. Check the location and try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "[-] The lookup timed out. Please try again."
	case errors.Is(err, geocode.ErrGeocodingUnavailable):
		return "[-] Geocoding service unavailable. Please try again."
	case errors.As(err, &apiErr):
		return fmt.Sprintf("[-] API error: %s.", apiErr.Message)
	case errors.As(err, &fetchErr) && fetchErr.StatusCode != 0:
		return fmt.Sprintf("[-] API unavailable (status %d). Please try again.", fetchErr.StatusCode)
	case errors.Is(err, airquality.ErrFetchFailed), errors.Is(err, airquality.ErrNoFeedData):
		return "[-] API unavailable. Please try again."
	default:
		return "[-] Error: " + err.Error()
	}
}
