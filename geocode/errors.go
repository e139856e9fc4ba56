package geocode

import "errors"

var (
	// ErrNotFound indicates the geocoder had no match for the query.
	ErrNotFound = errors.New("location not found")

	// ErrEmptyQuery indicates a blank query was submitted.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrUnexpectedStatus indicates a non-success HTTP response.
	ErrUnexpectedStatus = errors.New("unexpected geocoder response status")

	// ErrGeocoderRequired is returned when a wrapper is built without an inner geocoder.
	ErrGeocoderRequired = errors.New("geocoder required")
)
