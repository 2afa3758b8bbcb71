// Package handler provides HTTP handlers for the AQICN web panel and API.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aqicn/aqicn/internal/airquality"
	"github.com/aqicn/aqicn/internal/airquality/waqi"
	"github.com/aqicn/aqicn/internal/api/models"
	"github.com/aqicn/aqicn/internal/api/response"
	"github.com/aqicn/aqicn/internal/geocode"
)

// Looker performs air quality lookups.
type Looker interface {
	Current(ctx context.Context, q geocode.Query) (*airquality.Report, error)
	Forecast(ctx context.Context, q geocode.Query) (*airquality.Forecast, error)
}

// queryFromValues reads the location fields of a query string or form.
func queryFromValues(v url.Values) geocode.Query {
	return geocode.Query{
		City:    v.Get("city"),
		State:   v.Get("state"),
		Country: v.Get("country"),
	}.Normalize()
}

// writeLookupError maps a lookup failure to a problem response.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, geocode.ErrEmptyQuery):
		response.BadRequest(w, r, "At least one location field is required", []models.FieldError{
			{Field: "city", Code: "REQUIRED", Message: "city, state or country must be set"},
			{Field: "state", Code: "REQUIRED", Message: "city, state or country must be set"},
			{Field: "country", Code: "REQUIRED", Message: "city, state or country must be set"},
		})
	case errors.Is(err, geocode.ErrLocationNotFound):
		response.NotFound(w, r, "No location matched the query")
	case errors.Is(err, context.DeadlineExceeded):
		response.GatewayTimeout(w, r, "The lookup did not finish in time")
	case errors.Is(err, geocode.ErrGeocodingUnavailable):
		response.ServiceUnavailable(w, r, "The geocoding service is unavailable")
	case errors.Is(err, airquality.ErrFetchFailed), errors.Is(err, airquality.ErrNoFeedData):
		response.BadGateway(w, r, upstreamDetail(err))
	default:
		response.InternalError(w, r, "an unexpected error occurred")
	}
}

// upstreamDetail describes a WAQI failure without echoing transport errors.
func upstreamDetail(err error) string {
	var apiErr *waqi.APIError
	var fetchErr *waqi.FetchError

	switch {
	case errors.As(err, &apiErr):
		return "WAQI reported: " + apiErr.Message
	case errors.As(err, &fetchErr) && fetchErr.StatusCode != 0:
		return fmt.Sprintf("WAQI returned status %d", fetchErr.StatusCode)
	case errors.Is(err, airquality.ErrNoFeedData):
		return "WAQI returned no station data"
	default:
		return "The air quality provider could not be reached"
	}
}
