// Package nominatim implements geocode.Geocoder over the OpenStreetMap
// Nominatim search API.
//
// Every request carries the configured User-Agent and country filter.
// Transport failures, 5xx and 429 responses are retried with exponential
// backoff; other client errors and malformed bodies fail immediately.
package nominatim
