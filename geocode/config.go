// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package geocode

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the remote geocoding service.
type Config struct {
	// BaseURL is the root of the Nominatim-compatible service.
	// Example: "https://nominatim.openstreetmap.org"
	BaseURL string

	// UserAgent identifies the application. Nominatim's usage policy
	// rejects requests without one.
	UserAgent string

	// CountryCodes restricts results, comma separated ISO 3166-1 alpha-2.
	// Default: "us"
	CountryCodes string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// SuggestionLimit caps the candidates returned by Suggest.
	// Default: 5
	SuggestionLimit int

	// MaxAttempts is the number of tries for a transport failure.
	MaxAttempts int

	// RetryDelay is the base delay for exponential backoff between attempts.
	RetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the service root.
func WithBaseURL(u string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = u
	}
}

// WithUserAgent sets the User-Agent header value.
func WithUserAgent(ua string) ConfigOption {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithCountryCodes sets the country filter.
func WithCountryCodes(codes string) ConfigOption {
	return func(c *Config) {
		c.CountryCodes = codes
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithSuggestionLimit sets the maximum number of suggestions.
func WithSuggestionLimit(n int) ConfigOption {
	return func(c *Config) {
		c.SuggestionLimit = n
	}
}

// WithRetry sets the attempt count and base backoff delay.
func WithRetry(attempts int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxAttempts = attempts
		c.RetryDelay = delay
	}
}

// DefaultConfig returns a Config pointing at the public Nominatim instance.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "https://nominatim.openstreetmap.org",
		UserAgent:       "schoolfinder/1.0 (+https://github.com/poiesic/schoolfinder)",
		CountryCodes:    "us",
		Timeout:         10 * time.Second,
		SuggestionLimit: 5,
		MaxAttempts:     2,
		RetryDelay:      500 * time.Millisecond,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithUserAgent("my-app/2.0 (ops@example.com)"),
//	    WithTimeout(5*time.Second),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// A BaseURL pointing at the /search endpoint is trimmed back to the service root.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimSuffix(strings.TrimSpace(c.BaseURL), "/")
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/search")
	c.CountryCodes = strings.ToLower(strings.ReplaceAll(c.CountryCodes, " ", ""))
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("geocode config: BaseURL is required")
	}
	if c.UserAgent == "" {
		return errors.New("geocode config: UserAgent is required")
	}
	if c.Timeout <= 0 {
		return errors.New("geocode config: Timeout must be positive")
	}
	if c.SuggestionLimit < 1 {
		return errors.New("geocode config: SuggestionLimit must be at least 1")
	}
	if c.MaxAttempts < 1 {
		return errors.New("geocode config: MaxAttempts must be at least 1")
	}
	return nil
}
