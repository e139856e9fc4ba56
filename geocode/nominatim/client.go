package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/geocode"
	"github.com/poiesic/schoolfinder/retry"
)

// place is one element of the Nominatim /search JSON array.
type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (p *place) toResult() (core.GeocodeResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return core.GeocodeResult{}, fmt.Errorf("parse lat: %w", err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return core.GeocodeResult{}, fmt.Errorf("parse lon: %w", err)
	}
	return core.GeocodeResult{Lat: lat, Lng: lng, DisplayName: p.DisplayName}, nil
}

// Client implements geocode.Geocoder against the Nominatim /search endpoint.
type Client struct {
	config     *geocode.Config
	httpClient *http.Client
	observer   geocode.Observer
	logger     *slog.Logger
}

var _ geocode.Geocoder = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithHTTPClient replaces the HTTP client. The config timeout is not applied to it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("nominatim: http client is nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithObserver reports every request outcome, typically to metrics.
func WithObserver(o geocode.Observer) Option {
	return func(c *Client) error {
		if o == nil {
			o = geocode.NoopObserver()
		}
		c.observer = o
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger.With("component", "nominatim")
		return nil
	}
}

// newClient is an internal constructor that returns the concrete type.
func newClient(config *geocode.Config, opts ...Option) (*Client, error) {
	if config == nil {
		config = geocode.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		observer:   geocode.NoopObserver(),
		logger:     slog.Default().With("component", "nominatim"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// New creates a Nominatim geocoder using the provided configuration.
// A nil config uses geocode.DefaultConfig().
//
// Returns geocode.Geocoder interface to enforce abstraction.
func New(config *geocode.Config, opts ...Option) (geocode.Geocoder, error) {
	return newClient(config, opts...)
}

// Geocode returns the best match for query, or geocode.ErrNotFound.
func (c *Client) Geocode(ctx context.Context, query string) (*core.GeocodeResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, geocode.ErrEmptyQuery
	}

	start := time.Now()
	places, err := c.search(ctx, query, 1)
	c.observer.ObserveGeocode("geocode", time.Since(start), err)
	if err != nil {
		c.logger.Error("error geocoding query", "query", query, "err", err)
		return nil, err
	}
	if len(places) == 0 {
		c.logger.Debug("no geocode match", "query", query)
		return nil, geocode.ErrNotFound
	}

	result, err := places[0].toResult()
	if err != nil {
		return nil, err
	}
	c.logger.Debug("geocoded query", "query", query, "display_name", result.DisplayName)
	return &result, nil
}

// Suggest returns up to SuggestionLimit candidates. Errors are logged and swallowed.
func (c *Client) Suggest(ctx context.Context, query string) []core.GeocodeResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	start := time.Now()
	places, err := c.search(ctx, query, c.config.SuggestionLimit)
	c.observer.ObserveGeocode("suggest", time.Since(start), err)
	if err != nil {
		c.logger.Debug("suggestion lookup failed", "query", query, "err", err)
		return nil
	}

	results := make([]core.GeocodeResult, 0, len(places))
	for i := range places {
		r, err := places[i].toResult()
		if err != nil {
			continue
		}
		results = append(results, r)
	}
	return results
}

// search calls /search with retries on transport and server failures.
func (c *Client) search(ctx context.Context, query string, limit int) ([]place, error) {
	params := url.Values{
		"q":              {query},
		"format":         {"json"},
		"addressdetails": {"1"},
		"limit":          {strconv.Itoa(limit)},
	}
	if c.config.CountryCodes != "" {
		params.Set("countrycodes", c.config.CountryCodes)
	}
	endpoint := c.config.BaseURL + "/search?" + params.Encode()

	var places []place
	err := retry.WithBackoff(ctx, func() error {
		var err error
		places, err = c.fetch(ctx, endpoint)
		return err
	}, c.config.MaxAttempts, c.config.RetryDelay)
	return places, err
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]place, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("%w: %d", geocode.ErrUnexpectedStatus, resp.StatusCode)
		// client errors other than rate limiting will not change on retry
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, retry.Permanent(fmt.Errorf("nominatim decode: %w", err))
	}
	return places, nil
}
