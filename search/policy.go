package search

import (
	"fmt"
	"time"
)

// Policy holds the tunable thresholds of the resolution engine.
type Policy struct {
	// ClusterThresholdMiles is the largest bounding-box diagonal for which
	// a set of text matches is treated as one locality.
	ClusterThresholdMiles float64
	// FallbackRadiusMiles applies when a center exists but the radius is zero.
	FallbackRadiusMiles int
	// SuggestionDebounce delays remote suggestion fetches after a keystroke.
	SuggestionDebounce time.Duration
	// MinSuggestionLength is the shortest query that produces suggestions.
	MinSuggestionLength int
	InstitutionSuggestions int
	LocalitySuggestions    int
	RemoteSuggestions      int
	// NearMeRadiusMiles replaces an exact-match radius when the device location is used.
	NearMeRadiusMiles int
	LocateTimeout     time.Duration
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		ClusterThresholdMiles:  40,
		FallbackRadiusMiles:    50,
		SuggestionDebounce:     300 * time.Millisecond,
		MinSuggestionLength:    3,
		InstitutionSuggestions: 3,
		LocalitySuggestions:    2,
		RemoteSuggestions:      5,
		NearMeRadiusMiles:      25,
		LocateTimeout:          10 * time.Second,
	}
}

// Validate checks that every limit is usable.
func (p Policy) Validate() error {
	switch {
	case p.ClusterThresholdMiles < 0:
		return fmt.Errorf("%w: cluster threshold %v", ErrInvalidPolicy, p.ClusterThresholdMiles)
	case p.FallbackRadiusMiles <= 0:
		return fmt.Errorf("%w: fallback radius %d", ErrInvalidPolicy, p.FallbackRadiusMiles)
	case p.NearMeRadiusMiles <= 0:
		return fmt.Errorf("%w: near-me radius %d", ErrInvalidPolicy, p.NearMeRadiusMiles)
	case p.SuggestionDebounce < 0, p.LocateTimeout <= 0:
		return fmt.Errorf("%w: durations must be positive", ErrInvalidPolicy)
	case p.MinSuggestionLength < 1:
		return fmt.Errorf("%w: minimum suggestion length %d", ErrInvalidPolicy, p.MinSuggestionLength)
	case p.InstitutionSuggestions < 0, p.LocalitySuggestions < 0, p.RemoteSuggestions < 0:
		return fmt.Errorf("%w: suggestion caps must not be negative", ErrInvalidPolicy)
	}
	return nil
}
