// Package geocode resolves free-text place names to coordinates.
package geocode

import (
	"context"
	"errors"
	"strings"
)

// Geocoding errors.
var (
	ErrEmptyQuery           = errors.New("at least one location field is required")
	ErrLocationNotFound     = errors.New("location not found")
	ErrGeocodingUnavailable = errors.New("geocoding service unavailable")
)

// Query holds the free-text location fields entered by the user.
type Query struct {
	City    string
	State   string
	Country string
}

// Normalize returns a copy of q with surrounding whitespace removed.
func (q Query) Normalize() Query {
	return Query{
		City:    strings.TrimSpace(q.City),
		State:   strings.TrimSpace(q.State),
		Country: strings.TrimSpace(q.Country),
	}
}

// IsEmpty reports whether every field is blank.
func (q Query) IsEmpty() bool {
	n := q.Normalize()
	return n.City == "" && n.State == "" && n.Country == ""
}

// Address joins the non-empty fields into a single address string,
// e.g. "Lincoln, Nebraska, USA".
func (q Query) Address() string {
	n := q.Normalize()
	parts := make([]string, 0, 3)
	for _, p := range []string{n.City, n.State, n.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Location is a resolved place.
type Location struct {
	Query   Query
	Lat     float64
	Lon     float64
	Address string
}

// Geocoder resolves a query to a single location.
type Geocoder interface {
	// Geocode returns ErrEmptyQuery, ErrLocationNotFound or ErrGeocodingUnavailable on failure.
	Geocode(ctx context.Context, q Query) (*Location, error)
}
