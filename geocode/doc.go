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


// Package geocode provides the geocoding abstraction used by schoolfinder.
//
// The Geocoder interface has two operations: a single best-match lookup used
// when a query is committed, and a multi-result suggestion lookup used for
// autocomplete. Both are scoped to the configured country filter.
//
// # Implementation Packages
//
//   - geocode/nominatim: Production implementation over the Nominatim HTTP API
//   - geocode/mock: Test double with injectable behavior
//
// # Constructor Return Type Pattern
//
// nominatim.New returns the Geocoder interface. mock.NewGeocoder returns the
// concrete type so tests can inject behavior and read call counts:
//
//	g := mock.NewGeocoder()
//	g.GeocodeFunc = func(ctx context.Context, q string) (*core.GeocodeResult, error) { ... }
//	count := g.GeocodeCalls()
//
// # Caching
//
// NewCachingGeocoder wraps any Geocoder with a storage.GeocodeCacheRepository.
package geocode
