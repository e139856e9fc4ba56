package mock

import (
	"context"
	"sync/atomic"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/geocode"
)

// Geocoder is a test double for geocode.Geocoder.
// It allows custom behavior injection via function fields.
type Geocoder struct {
	// GeocodeFunc is called by Geocode if set.
	// If nil, Geocode reports geocode.ErrNotFound.
	GeocodeFunc func(ctx context.Context, query string) (*core.GeocodeResult, error)

	// SuggestFunc is called by Suggest if set.
	// If nil, Suggest returns no candidates.
	SuggestFunc func(ctx context.Context, query string) []core.GeocodeResult

	geocodeCalls atomic.Int64
	suggestCalls atomic.Int64
}

var _ geocode.Geocoder = (*Geocoder)(nil)

// NewGeocoder creates a mock geocoder that never finds anything.
// Note: Returns concrete type to allow test assertions.
func NewGeocoder() *Geocoder {
	return &Geocoder{}
}

// NewStaticGeocoder creates a mock geocoder answering from a fixed table.
// Queries missing from the table report geocode.ErrNotFound.
func NewStaticGeocoder(places map[string]core.GeocodeResult) *Geocoder {
	g := &Geocoder{}
	g.GeocodeFunc = func(_ context.Context, query string) (*core.GeocodeResult, error) {
		if r, ok := places[query]; ok {
			return &r, nil
		}
		return nil, geocode.ErrNotFound
	}
	return g
}

// Geocode implements geocode.Geocoder.
func (m *Geocoder) Geocode(ctx context.Context, query string) (*core.GeocodeResult, error) {
	m.geocodeCalls.Add(1)

	if m.GeocodeFunc != nil {
		return m.GeocodeFunc(ctx, query)
	}
	return nil, geocode.ErrNotFound
}

// Suggest implements geocode.Geocoder.
func (m *Geocoder) Suggest(ctx context.Context, query string) []core.GeocodeResult {
	m.suggestCalls.Add(1)

	if m.SuggestFunc != nil {
		return m.SuggestFunc(ctx, query)
	}
	return nil
}

// GeocodeCalls returns the number of Geocode calls.
func (m *Geocoder) GeocodeCalls() int {
	return int(m.geocodeCalls.Load())
}

// SuggestCalls returns the number of Suggest calls.
func (m *Geocoder) SuggestCalls() int {
	return int(m.suggestCalls.Load())
}

// Reset clears the call counts and injected behavior.
func (m *Geocoder) Reset() {
	m.geocodeCalls.Store(0)
	m.suggestCalls.Store(0)
	m.GeocodeFunc = nil
	m.SuggestFunc = nil
}
