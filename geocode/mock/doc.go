// Package mock provides a test double for geocode.Geocoder.
package mock
