package waqi

import (
	"fmt"

	"github.com/aqicn/aqicn/internal/airquality"
)

// FetchError is returned for any failed feed request. StatusCode is zero
// when no HTTP response was received.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: unexpected status %d", airquality.ErrFetchFailed, e.StatusCode)
	case e.StatusCode == 0:
		return fmt.Sprintf("%s: %v", airquality.ErrFetchFailed, e.Err)
	default:
		return fmt.Sprintf("%s: status %d: %v", airquality.ErrFetchFailed, e.StatusCode, e.Err)
	}
}

// Unwrap exposes the cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, airquality.ErrFetchFailed) hold.
func (e *FetchError) Is(target error) bool {
	return target == airquality.ErrFetchFailed
}

// APIError is an application-level error reported by WAQI with HTTP 200,
// such as "Invalid key" or "Unknown station".
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return "waqi: " + e.Message
}
