// Package nominatim provides a geocoder backed by the OpenStreetMap Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/aqicn/aqicn/internal/geocode"
	"github.com/aqicn/aqicn/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultUserAgent identifies this application, as required by the Nominatim usage policy.
	DefaultUserAgent = "aqicn_app"

	// ProviderName identifies this geocoder.
	ProviderName = "nominatim"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// UserAgent is sent with every request (defaults to DefaultUserAgent).
	UserAgent string

	// HTTPClient executes requests. If nil, a circuit-broken client with
	// Timeout is created. Geocoding is single-shot, so it never retries.
	HTTPClient HTTPDoer

	// Timeout for a single request (default: 10s).
	Timeout time.Duration

	// RatePerSecond caps outbound requests (default: 1, the public instance limit).
	RatePerSecond float64

	// Registry receives upstream health when HTTPClient is nil.
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Nominatim geocoding client.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient HTTPDoer
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

var _ geocode.Geocoder = (*Client)(nil)

// NewClient creates a new Nominatim client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		rc := resilience.DefaultClientConfig(ProviderName)
		if cfg.Timeout > 0 {
			rc.Timeout = cfg.Timeout
		}
		rc.MaxRetries = 0
		rc.Registry = cfg.Registry
		rc.Logger = cfg.Logger
		httpClient = resilience.NewClient(rc)
	}

	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves q to the best matching location.
func (c *Client) Geocode(ctx context.Context, q geocode.Query) (*geocode.Location, error) {
	q = q.Normalize()
	if q.IsEmpty() {
		return nil, geocode.ErrEmptyQuery
	}
	address := q.Address()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", geocode.ErrGeocodingUnavailable, err)
	}

	u, err := url.Parse(c.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	params := u.Query()
	params.Set("q", address)
	params.Set("format", "json")
	params.Set("limit", "1")
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", geocode.ErrGeocodingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", geocode.ErrGeocodingUnavailable, resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", geocode.ErrGeocodingUnavailable, err)
	}

	if len(results) == 0 {
		c.logger.Debug().Str("address", address).Msg("no geocoding match")
		return nil, fmt.Errorf("%w: %q", geocode.ErrLocationNotFound, address)
	}

	return toLocation(q, &results[0])
}

// toLocation converts a search result to a domain Location.
func toLocation(q geocode.Query, r *searchResult) (*geocode.Location, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude %q", geocode.ErrGeocodingUnavailable, r.Lat)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude %q", geocode.ErrGeocodingUnavailable, r.Lon)
	}

	address := r.DisplayName
	if address == "" {
		address = q.Address()
	}

	return &geocode.Location{
		Query:   q,
		Lat:     lat,
		Lon:     lon,
		Address: address,
	}, nil
}
