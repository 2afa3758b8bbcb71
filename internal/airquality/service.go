package airquality

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/aqicn/aqicn/internal/geocode"
)

const tracerName = "github.com/aqicn/aqicn/internal/airquality"

// Lookup kinds.
const (
	KindCurrent  = "current"
	KindForecast = "forecast"
)

// FeedFetcher retrieves the station feed nearest to a coordinate pair.
type FeedFetcher interface {
	FetchFeed(ctx context.Context, lat, lon float64) (*Payload, error)
	Name() string
}

// Recorder receives lookup and upstream call measurements.
type Recorder interface {
	RecordLookup(kind, outcome string, duration time.Duration)
	RecordProviderCall(provider, operation string, duration time.Duration, err error)
}

// ServiceConfig holds configuration for the lookup service.
type ServiceConfig struct {
	// Geocoder resolves the user's location fields.
	Geocoder geocode.Geocoder

	// Fetcher retrieves station feeds.
	Fetcher FeedFetcher

	// Logger for service operations.
	Logger zerolog.Logger

	// LookupTimeout bounds one geocode+fetch chain (default: 20 seconds).
	LookupTimeout time.Duration

	// Recorder receives metrics (optional).
	Recorder Recorder
}

// Service resolves a location and produces reports. Each call geocodes once
// and fetches once; failures are returned to the caller, never retried here.
type Service struct {
	geocoder      geocode.Geocoder
	fetcher       FeedFetcher
	logger        zerolog.Logger
	lookupTimeout time.Duration
	recorder      Recorder
	tracer        trace.Tracer
}

// NewService creates a new lookup service.
func NewService(cfg ServiceConfig) *Service {
	lookupTimeout := cfg.LookupTimeout
	if lookupTimeout == 0 {
		lookupTimeout = 20 * time.Second
	}

	recorder := cfg.Recorder
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Service{
		geocoder:      cfg.Geocoder,
		fetcher:       cfg.Fetcher,
		logger:        cfg.Logger,
		lookupTimeout: lookupTimeout,
		recorder:      recorder,
		tracer:        otel.Tracer(tracerName),
	}
}

// Current returns the current conditions for q.
func (s *Service) Current(ctx context.Context, q geocode.Query) (*Report, error) {
	loc, payload, err := s.lookup(ctx, KindCurrent, q)
	if err != nil {
		return nil, err
	}
	return Assemble(loc.Address, payload), nil
}

// Forecast returns the daily forecast for q.
func (s *Service) Forecast(ctx context.Context, q geocode.Query) (*Forecast, error) {
	loc, payload, err := s.lookup(ctx, KindForecast, q)
	if err != nil {
		return nil, err
	}
	return AssembleForecast(loc.Address, payload), nil
}

// lookup runs the geocode then fetch chain under the lookup timeout.
func (s *Service) lookup(ctx context.Context, kind string, q geocode.Query) (loc *geocode.Location, payload *Payload, err error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "airquality."+kind,
		trace.WithAttributes(attribute.String("location.query", q.Address())),
	)
	defer span.End()

	defer func() {
		outcome := Outcome(err)
		s.recorder.RecordLookup(kind, outcome, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			s.logger.Warn().
				Err(err).
				Str("kind", kind).
				Str("query", q.Address()).
				Str("outcome", outcome).
				Msg("air quality lookup failed")
		}
	}()

	loc, err = s.geocode(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	span.SetAttributes(
		attribute.Float64("location.lat", loc.Lat),
		attribute.Float64("location.lon", loc.Lon),
	)

	payload, err = s.fetch(ctx, loc)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().
		Str("kind", kind).
		Str("address", loc.Address).
		Str("station", payload.City.Name).
		Dur("duration", time.Since(start)).
		Msg("air quality lookup completed")

	return loc, payload, nil
}

func (s *Service) geocode(ctx context.Context, q geocode.Query) (*geocode.Location, error) {
	start := time.Now()
	loc, err := s.geocoder.Geocode(ctx, q)
	s.recorder.RecordProviderCall("geocoder", "geocode", time.Since(start), err)
	return loc, err
}

func (s *Service) fetch(ctx context.Context, loc *geocode.Location) (*Payload, error) {
	start := time.Now()
	payload, err := s.fetcher.FetchFeed(ctx, loc.Lat, loc.Lon)
	s.recorder.RecordProviderCall(s.fetcher.Name(), "feed", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, ErrNoFeedData
	}
	return payload, nil
}

// Outcome classifies a lookup error for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, geocode.ErrEmptyQuery):
		return "empty_query"
	case errors.Is(err, geocode.ErrLocationNotFound):
		return "location_not_found"
	case errors.Is(err, geocode.ErrGeocodingUnavailable):
		return "geocoding_unavailable"
	case errors.Is(err, ErrFetchFailed), errors.Is(err, ErrNoFeedData):
		return "fetch_failed"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

type nopRecorder struct{}

func (nopRecorder) RecordLookup(string, string, time.Duration)                {}
func (nopRecorder) RecordProviderCall(string, string, time.Duration, error) {}
