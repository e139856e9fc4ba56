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
	"context"
	"time"

	"github.com/poiesic/schoolfinder/core"
)

// Geocoder resolves free text to places.
// Implementations must be thread-safe for concurrent use.
type Geocoder interface {
	// Geocode returns the single best match for the query.
	// Returns ErrNotFound when the geocoder has no match; any other error
	// is a transport or decoding failure.
	Geocode(ctx context.Context, query string) (*core.GeocodeResult, error)

	// Suggest returns ranked candidates for partial text.
	// Failures are swallowed and reported as an empty slice.
	Suggest(ctx context.Context, query string) []core.GeocodeResult
}

// Observer receives the outcome of every remote geocoder call.
// op is "geocode" or "suggest".
type Observer interface {
	ObserveGeocode(op string, elapsed time.Duration, err error)
}

type noopObserver struct{}

var _ Observer = noopObserver{}

func (noopObserver) ObserveGeocode(_ string, _ time.Duration, _ error) {}

// NoopObserver returns an Observer that discards everything.
func NoopObserver() Observer {
	return noopObserver{}
}
