// Package geo provides the distance and spread calculations used to
// place search centers and classify text matches.
package geo
