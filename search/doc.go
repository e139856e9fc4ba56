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


// Package search implements query resolution over a loaded directory.
//
// The Engine decides, for a combination of query text, radius, device
// location and sticky search origin, which point the results are centered
// on, whether the query names a place or is a keyword, and when the remote
// geocoder may be consulted. Resolution over local data is synchronous;
// only a committed query with no local matches needs the geocoder, and that
// step is isolated in ResolveGeocoded so it can be driven by the caller.
//
// Results are always ranked by status tier, then distance when both entries
// have one, then name in English collation order.
package search
