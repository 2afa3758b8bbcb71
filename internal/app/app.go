// Package app wires the lookup service from configuration. It is shared by
// the console and the web panel commands.
package app

import (
	"github.com/rs/zerolog"

	"github.com/aqicn/aqicn/internal/airquality"
	"github.com/aqicn/aqicn/internal/airquality/waqi"
	"github.com/aqicn/aqicn/internal/config"
	"github.com/aqicn/aqicn/internal/geocode/nominatim"
	"github.com/aqicn/aqicn/internal/provider/resilience"
)

// Options holds the collaborators that outlive a single service.
type Options struct {
	Logger zerolog.Logger

	// Registry receives upstream health (optional).
	Registry *resilience.Registry

	// Recorder receives lookup metrics (optional).
	Recorder airquality.Recorder
}

// NewService builds the geocoder, the WAQI client and the lookup service.
func NewService(cfg *config.Config, opts Options) *airquality.Service {
	geocoder := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:       cfg.Geocode.BaseURL,
		UserAgent:     cfg.Geocode.UserAgent,
		Timeout:       cfg.Geocode.Timeout,
		RatePerSecond: cfg.Geocode.RatePerSecond,
		Registry:      opts.Registry,
		Logger:        opts.Logger.With().Str("provider", nominatim.ProviderName).Logger(),
	})

	fetcher := waqi.NewClient(waqi.ClientConfig{
		Token:      cfg.AQICN.Token,
		BaseURL:    cfg.AQICN.BaseURL,
		Timeout:    cfg.AQICN.Timeout,
		MaxRetries: cfg.AQICN.MaxRetries,
		Registry:   opts.Registry,
		Logger:     opts.Logger.With().Str("provider", waqi.ProviderName).Logger(),
	})

	return airquality.NewService(airquality.ServiceConfig{
		Geocoder:      geocoder,
		Fetcher:       fetcher,
		Logger:        opts.Logger,
		LookupTimeout: cfg.LookupTimeout,
		Recorder:      opts.Recorder,
	})
}
