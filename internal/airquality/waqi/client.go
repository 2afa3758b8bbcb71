// Package waqi provides a client for the World Air Quality Index feed API
// (api.waqi.info).
package waqi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aqicn/aqicn/internal/airquality"
	"github.com/aqicn/aqicn/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the feed endpoint prefix.
	DefaultBaseURL = "https://api.waqi.info/feed"

	// ProviderName identifies this provider.
	ProviderName = "waqi"
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the WAQI client.
type ClientConfig struct {
	// Token is the API token (required).
	Token string

	// BaseURL is the feed endpoint (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient executes requests. If nil, a resilient client is created.
	HTTPClient HTTPDoer

	// Timeout for each attempt when HTTPClient is nil (default: 10s).
	Timeout time.Duration

	// MaxRetries when HTTPClient is nil. Zero disables retries.
	MaxRetries uint64

	// Registry receives upstream health when HTTPClient is nil.
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches station feeds by geographic position.
type Client struct {
	token      string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new WAQI client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		rc := resilience.DefaultClientConfig(ProviderName)
		if cfg.Timeout > 0 {
			rc.Timeout = cfg.Timeout
		}
		rc.MaxRetries = cfg.MaxRetries
		rc.Registry = cfg.Registry
		rc.Logger = cfg.Logger
		httpClient = resilience.NewClient(rc)
	}

	return &Client{
		token:      cfg.Token,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// feedResponse is the response envelope. Data is an object when Status is
// "ok" and an error message string otherwise.
type feedResponse struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// FeedURL returns the geo feed URL for a coordinate pair.
func (c *Client) FeedURL(lat, lon float64) string {
	return c.baseURL + "/geo:" + formatCoord(lat) + ";" + formatCoord(lon) + "/?token=" + c.token
}

// FetchFeed retrieves the feed of the station nearest to lat/lon. Every
// failure is a *FetchError.
func (c *Client) FetchFeed(ctx context.Context, lat, lon float64) (*airquality.Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL(lat, lon), http.NoBody)
	if err != nil {
		return nil, &FetchError{Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Err: resilience.RedactQuery(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{StatusCode: resp.StatusCode}
	}

	var envelope feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	if envelope.Status != "ok" {
		var msg string
		if err := json.Unmarshal(envelope.Data, &msg); err != nil || msg == "" {
			msg = "status " + strconv.Quote(envelope.Status)
		}
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: &APIError{Message: msg}}
	}

	var payload airquality.Payload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		return nil, &FetchError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode feed data: %w", err)}
	}

	c.logger.Debug().
		Int("station_idx", payload.Idx).
		Str("station", payload.City.Name).
		Msg("fetched air quality feed")

	return &payload, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
