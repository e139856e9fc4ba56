package search

// Outcome classifies how a resolution ended.
type Outcome string

const (
	// OutcomeIdle means there was nothing to resolve.
	OutcomeIdle Outcome = "idle"
	// OutcomeText is a pure text match with no location filtering.
	OutcomeText Outcome = "text"
	// OutcomeKeyword is a scattered keyword with no spatial anchor.
	OutcomeKeyword Outcome = "keyword"
	OutcomeCluster Outcome = "cluster"
	OutcomeDevice  Outcome = "device"
	OutcomeOrigin  Outcome = "origin"
	// OutcomeGeocoded is a radius search around a geocoded center.
	OutcomeGeocoded Outcome = "geocoded"
	// OutcomeNotFound means the geocoder had no match for the query.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeError means the geocoder failed.
	OutcomeError Outcome = "error"
	// OutcomePending means the resolution is waiting for a geocode.
	OutcomePending Outcome = "pending"
)

// ResolutionMonitor observes finished resolutions.
// Implementations must be safe for concurrent use.
type ResolutionMonitor interface {
	ObserveResolution(outcome Outcome, results int)
}

type noopMonitor struct{}

var _ ResolutionMonitor = noopMonitor{}

func (noopMonitor) ObserveResolution(_ Outcome, _ int) {}
