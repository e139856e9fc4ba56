package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/geo"
	"github.com/poiesic/schoolfinder/geocode"
)

// CenterSource says where the effective center of a resolution came from.
type CenterSource int

const (
	CenterNone CenterSource = iota
	CenterDevice
	CenterOrigin
	CenterCluster
	CenterGeocode
	// CenterSelection is set by callers that focus a single institution.
	CenterSelection
)

func (c CenterSource) String() string {
	switch c {
	case CenterDevice:
		return "device"
	case CenterOrigin:
		return "origin"
	case CenterCluster:
		return "cluster"
	case CenterGeocode:
		return "geocode"
	case CenterSelection:
		return "selection"
	default:
		return "none"
	}
}

// Input is the search context of one resolution.
type Input struct {
	Query string
	// Radius in miles. Zero means exact text matching.
	Radius int
	// Device is the location acquired by an explicit near-me request.
	Device *core.Coordinate
	// Origin is the sticky search origin of a previous resolution.
	Origin *core.Coordinate
	// OriginQuery is the query that established Origin.
	OriginQuery string
	// Commit permits a geocoder call.
	Commit bool
}

// Resolution is the outcome of resolving an Input against a directory.
type Resolution struct {
	// Results are ranked copies; the directory itself is never annotated.
	Results      []core.Institution
	Center       *core.Coordinate
	CenterSource CenterSource
	// Origin and OriginQuery are the sticky origin after this resolution.
	Origin        *core.Coordinate
	OriginQuery   string
	OriginChanged bool
	Status        string
	Outcome       Outcome
	// NeedsGeocode is set when a committed query had no local matches.
	// The other fields then only carry the unchanged origin; finish the
	// resolution with ResolveGeocoded.
	NeedsGeocode bool
}

// Engine resolves search inputs against a directory snapshot.
// It holds no search state and is safe for concurrent use.
type Engine struct {
	policy  Policy
	monitor ResolutionMonitor
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithPolicy replaces the default thresholds.
func WithPolicy(p Policy) Option {
	return func(e *Engine) error {
		if err := p.Validate(); err != nil {
			return err
		}
		e.policy = p
		return nil
	}
}

// WithMonitor sets a monitor notified after every finished resolution.
func WithMonitor(m ResolutionMonitor) Option {
	return func(e *Engine) error {
		if m == nil {
			m = noopMonitor{}
		}
		e.monitor = m
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger.With("component", "search")
		return nil
	}
}

// NewEngine creates a new resolution engine.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		policy:  DefaultPolicy(),
		monitor: noopMonitor{},
		logger:  slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Policy returns the thresholds in use.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Resolve runs every local branch of the resolution. It never blocks.
// A committed query with no text matches yields a Resolution with
// NeedsGeocode set.
func (e *Engine) Resolve(in Input, dir []core.Institution) Resolution {
	query := strings.TrimSpace(in.Query)
	res := Resolution{Origin: in.Origin, OriginQuery: in.OriginQuery}

	if query == "" && in.Device == nil {
		res.Outcome = OutcomeIdle
		return e.finish(res)
	}

	var matches []core.Institution
	if query != "" {
		matches = MatchText(dir, query)

		if in.Radius == 0 {
			Rank(matches)
			res.Results = matches
			res.Status = textStatus(len(matches))
			res.Outcome = OutcomeText
			return e.finish(res)
		}

		switch {
		case len(matches) == 0:
			if in.Commit {
				res.NeedsGeocode = true
				res.Outcome = OutcomePending
				return res
			}
		case e.clustered(matches):
			centroid, _ := geo.Centroid(matches)
			res.Center = &centroid
			res.CenterSource = CenterCluster
			res.Origin = &centroid
			res.OriginQuery = query
			res.OriginChanged = true
		case in.Device != nil:
			res.Center, res.CenterSource = in.Device, CenterDevice
		case in.Origin != nil:
			res.Center, res.CenterSource = in.Origin, CenterOrigin
		default:
			Rank(matches)
			res.Results = matches
			res.Status = keywordStatus(len(matches), query)
			res.Outcome = OutcomeKeyword
			return e.finish(res)
		}
	}

	if res.Center == nil {
		switch {
		case in.Origin != nil:
			res.Center, res.CenterSource = in.Origin, CenterOrigin
		case in.Device != nil:
			res.Center, res.CenterSource = in.Device, CenterDevice
		}
	}

	if res.Center == nil {
		Rank(matches)
		res.Results = matches
		res.Status = textStatus(len(matches))
		res.Outcome = OutcomeText
		return e.finish(res)
	}

	return e.finish(e.around(res, query, in.Radius, dir))
}

// ResolveGeocoded finishes a resolution that needed the geocoder, given the
// geocoder's answer for in.Query. A failure clears results and center and
// keeps the previous origin.
func (e *Engine) ResolveGeocoded(in Input, dir []core.Institution, result *core.GeocodeResult, err error) Resolution {
	query := strings.TrimSpace(in.Query)
	res := Resolution{Origin: in.Origin, OriginQuery: in.OriginQuery}

	switch {
	case err == nil && result != nil:
	case err == nil, errors.Is(err, geocode.ErrNotFound):
		res.Status = notFoundStatus(query)
		res.Outcome = OutcomeNotFound
		return e.finish(res)
	default:
		e.logger.Error("error geocoding query", "query", query, "err", err)
		res.Status = msgSearchFailure
		res.Outcome = OutcomeError
		return e.finish(res)
	}

	center := result.Coordinate()
	res.Center = &center
	res.CenterSource = CenterGeocode
	res.Origin = &center
	res.OriginQuery = query
	res.OriginChanged = true
	return e.finish(e.around(res, query, in.Radius, dir))
}

// ResolveWith resolves in, calling g when the query must be geocoded.
func (e *Engine) ResolveWith(ctx context.Context, in Input, dir []core.Institution, g geocode.Geocoder) Resolution {
	res := e.Resolve(in, dir)
	if !res.NeedsGeocode {
		return res
	}
	if g == nil {
		return e.ResolveGeocoded(in, dir, nil, ErrGeocoderRequired)
	}
	result, err := g.Geocode(ctx, strings.TrimSpace(in.Query))
	return e.ResolveGeocoded(in, dir, result, err)
}

// clustered reports whether the matches look like a single locality.
func (e *Engine) clustered(matches []core.Institution) bool {
	if len(matches) < 2 || len(geo.Coordinates(matches)) == 0 {
		return false
	}
	return geo.Spread(matches) <= e.policy.ClusterThresholdMiles
}

// around applies the radius filter to res.Center and fills in the status.
func (e *Engine) around(res Resolution, query string, radius int, dir []core.Institution) Resolution {
	if radius <= 0 {
		radius = e.policy.FallbackRadiusMiles
	}
	results := WithinRadius(dir, *res.Center, radius)

	// A place name or geocoded anchor already encodes the query.
	// Keyword anchors are narrowed by text again.
	sameAnchor := res.CenterSource == CenterOrigin && strings.EqualFold(query, res.OriginQuery)
	if query != "" && res.CenterSource != CenterCluster && res.CenterSource != CenterGeocode && !sameAnchor {
		results = filterText(results, query)
	}
	Rank(results)
	res.Results = results

	n := len(results)
	switch res.CenterSource {
	case CenterDevice:
		res.Status = deviceStatus(n, query)
		res.Outcome = OutcomeDevice
	case CenterCluster:
		res.Status = clusterStatus(n, query, radius)
		res.Outcome = OutcomeCluster
	case CenterGeocode:
		res.Status = geocodedStatus(n, query, radius)
		res.Outcome = OutcomeGeocoded
	default:
		if sameAnchor {
			res.Status = geocodedStatus(n, query, radius)
		} else {
			res.Status = originStatus(n, query, radius)
		}
		res.Outcome = OutcomeOrigin
	}
	return res
}

func (e *Engine) finish(res Resolution) Resolution {
	e.monitor.ObserveResolution(res.Outcome, len(res.Results))
	e.logger.Debug("resolved search", "outcome", res.Outcome, "center", res.CenterSource, "results", len(res.Results))
	return res
}
