package schoolfinder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/geocode"
	"github.com/poiesic/schoolfinder/search"
)

// DirectoryProvider returns the institutions of a data source.
// *directory.Loader is the standard implementation.
type DirectoryProvider interface {
	Directory(ctx context.Context, source core.DataSource) ([]core.Institution, error)
}

// State is a snapshot of a session, everything a presentation layer renders.
type State struct {
	Source  core.DataSource
	Query   string
	Radius  int
	Device  *core.Coordinate
	Origin  *core.Coordinate
	Results []core.Institution
	Center  *core.Coordinate
	// CenterSource tells a device location apart from a search anchor.
	CenterSource search.CenterSource
	Status       string
	Selected     *core.Institution
	// Loading is set while a directory is being fetched.
	Loading bool
	// Geocoding is set while a committed query waits for the geocoder.
	Geocoding bool
	// Locating is set while the device location is being acquired.
	Locating      bool
	DirectorySize int
}

// Session owns the search context of one user and drives the engine.
// All methods are safe for concurrent use. Every action that changes the
// query, radius, source or location starts a new generation; geocoder
// answers that arrive for an older generation are discarded.
type Session struct {
	engine    *search.Engine
	provider  DirectoryProvider
	geocoder  geocode.Geocoder
	locator   Locator
	sources   []core.DataSource
	onSuggest func([]core.Suggestion)
	logger    *slog.Logger

	mu           sync.Mutex
	source       core.DataSource
	dir          []core.Institution
	query        string
	radius       int
	device       *core.Coordinate
	origin       *core.Coordinate
	originQuery  string
	results      []core.Institution
	center       *core.Coordinate
	centerSource search.CenterSource
	status       string
	selected     *core.Institution
	suggestions  []core.Suggestion
	loading      bool
	geocoding    bool
	locating     bool
	closed       bool

	gen           uint64
	loadGen       uint64
	commitCancel  context.CancelFunc
	suggestGen    uint64
	suggestTimer  *time.Timer
	suggestCancel context.CancelFunc
}

// SessionOption configures a Session.
type SessionOption func(*Session) error

// WithLocator sets the device location source used by NearMe.
func WithLocator(l Locator) SessionOption {
	return func(s *Session) error {
		s.locator = l
		return nil
	}
}

// WithSuggestionHandler registers fn to receive every debounced suggestion list.
// fn is called without the session lock held.
func WithSuggestionHandler(fn func([]core.Suggestion)) SessionOption {
	return func(s *Session) error {
		s.onSuggest = fn
		return nil
	}
}

// WithSessionLogger sets a custom logger.
// Default is slog.Default().
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "session")
		return nil
	}
}

// NewSession creates a session over the given sources.
// A nil geocoder disables committed geocoding and remote suggestions.
func NewSession(engine *search.Engine, provider DirectoryProvider, geocoder geocode.Geocoder, sources []core.DataSource, opts ...SessionOption) (*Session, error) {
	if engine == nil {
		return nil, ErrEngineRequired
	}
	if provider == nil {
		return nil, ErrDirectoryRequired
	}

	s := &Session{
		engine:   engine,
		provider: provider,
		geocoder: geocoder,
		sources:  slices.Clone(sources),
		logger:   slog.Default().With("component", "session"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SelectSource switches to the data source with the given id.
// Results, center, status and the search origin are cleared before the
// directory loads. A load failure leaves an empty directory and an error
// status and is returned.
func (s *Session) SelectSource(ctx context.Context, id string) (State, error) {
	src, err := core.FindSource(s.sources, id)
	if err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return State{}, ErrSessionClosed
	}
	s.advance()
	s.loadGen++
	load := s.loadGen
	s.cancelSuggestions()
	s.source = src
	s.dir = nil
	s.results = nil
	s.center = nil
	s.centerSource = search.CenterNone
	s.status = ""
	s.selected = nil
	s.origin = nil
	s.originQuery = ""
	s.loading = true
	s.mu.Unlock()

	dir, err := s.provider.Directory(ctx, src)

	s.mu.Lock()
	defer s.mu.Unlock()
	if load != s.loadGen {
		s.logger.Debug("discarding superseded directory load", "source", src.ID)
		return s.snapshot(), ErrSuperseded
	}
	s.loading = false
	if err != nil {
		s.logger.Error("error loading directory", "source", src.ID, "err", err)
		s.status = fmt.Sprintf("Error loading directory for %s.", src.Label)
		return s.snapshot(), err
	}

	s.dir = dir
	s.status = "Loaded directory for " + src.Label
	if strings.TrimSpace(s.query) != "" || s.device != nil {
		s.apply(s.engine.Resolve(s.input(false), s.dir))
	}
	return s.snapshot(), nil
}

// SetQuery updates the query text and re-resolves against local data.
// It never calls the geocoder for the search itself; suggestions are
// fetched after the debounce delay unless another keystroke arrives first.
func (s *Session) SetQuery(query string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}
	}

	s.advance()
	s.query = query
	s.apply(s.engine.Resolve(s.input(false), s.dir))
	s.scheduleSuggestions(query)
	return s.snapshot()
}

// SetRadius changes the radius and re-resolves against local data.
func (s *Session) SetRadius(miles int) (State, error) {
	if err := core.ValidateRadius(miles); err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}

	s.advance()
	s.radius = miles
	s.apply(s.engine.Resolve(s.input(false), s.dir))
	return s.snapshot(), nil
}

// Commit resolves the current query with geocoding permitted.
// It blocks while the geocoder runs. If a newer action happened meanwhile,
// the answer is discarded and ErrSuperseded is returned with the newer state.
func (s *Session) Commit(ctx context.Context) (State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return State{}, ErrSessionClosed
	}

	gen := s.advance()
	s.cancelSuggestions()
	in := s.input(true)
	dir := s.dir
	res := s.engine.Resolve(in, dir)
	if !res.NeedsGeocode {
		s.apply(res)
		defer s.mu.Unlock()
		return s.snapshot(), nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.commitCancel = cancel
	s.geocoding = true
	s.mu.Unlock()

	var (
		result *core.GeocodeResult
		err    = search.ErrGeocoderRequired
	)
	if s.geocoder != nil {
		result, err = s.geocoder.Geocode(ctx, strings.TrimSpace(in.Query))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Debug("discarding superseded geocode", "query", in.Query)
		return s.snapshot(), ErrSuperseded
	}
	s.geocoding = false
	s.commitCancel = nil
	s.apply(s.engine.ResolveGeocoded(in, dir, result, err))
	return s.snapshot(), nil
}

// NearMe acquires the device location and searches around it.
// The query and search origin are cleared and an exact-match radius is
// widened. On failure the search state is left unchanged and an error
// wrapping ErrLocationUnavailable is returned. A location that arrives
// after a newer action is discarded with ErrSuperseded.
func (s *Session) NearMe(ctx context.Context) (State, error) {
	if s.locator == nil {
		return s.State(), fmt.Errorf("%w: no locator configured", ErrLocationUnavailable)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return State{}, ErrSessionClosed
	}
	gen := s.gen
	s.locating = true
	s.mu.Unlock()

	policy := s.engine.Policy()
	ctx, cancel := context.WithTimeout(ctx, policy.LocateTimeout)
	defer cancel()
	coord, err := s.locator.Locate(ctx)
	if err == nil {
		err = core.ValidateCoordinate(coord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return State{}, ErrSessionClosed
	}
	s.locating = false
	if gen != s.gen {
		s.logger.Debug("discarding superseded device location")
		return s.snapshot(), ErrSuperseded
	}
	if err != nil {
		s.logger.Warn("error acquiring device location", "err", err)
		return s.snapshot(), fmt.Errorf("%w: %w", ErrLocationUnavailable, err)
	}

	s.advance()
	s.cancelSuggestions()
	s.query = ""
	s.device = &coord
	s.origin = nil
	s.originQuery = ""
	if s.radius == 0 {
		s.radius = policy.NearMeRadiusMiles
	}
	s.apply(s.engine.Resolve(s.input(false), s.dir))
	return s.snapshot(), nil
}

// SelectSuggestion acts on an autocomplete entry. An institution is
// selected and centered on without a new resolution; a locality or place
// becomes the query and is committed.
func (s *Session) SelectSuggestion(ctx context.Context, sug core.Suggestion) (State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return State{}, ErrSessionClosed
	}
	s.cancelSuggestions()

	if sug.Kind == core.SuggestionInstitution {
		defer s.mu.Unlock()
		if sug.Institution == nil {
			return s.snapshot(), fmt.Errorf("%w: suggestion %q has no institution", core.ErrInvalidInstitution, sug.ID)
		}
		selected := sug.Institution.WithoutDistance()
		s.selected = &selected
		if selected.Coords != nil {
			c := *selected.Coords
			s.center = &c
			s.centerSource = search.CenterSelection
		}
		return s.snapshot(), nil
	}

	s.query = sug.Label
	s.mu.Unlock()
	return s.Commit(ctx)
}

// Select marks an institution as the one being viewed.
func (s *Session) Select(inst *core.Institution) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if inst == nil {
		s.selected = nil
	} else {
		selected := *inst
		s.selected = &selected
	}
	return s.snapshot()
}

// Reset returns the search context to its initial values.
// The loaded directory is kept.
func (s *Session) Reset() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.advance()
	s.cancelSuggestions()
	s.query = ""
	s.radius = 0
	s.device = nil
	s.origin = nil
	s.originQuery = ""
	s.results = nil
	s.center = nil
	s.centerSource = search.CenterNone
	s.status = ""
	s.selected = nil
	return s.snapshot()
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Suggestions returns the latest suggestion list.
func (s *Session) Suggestions() []core.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.suggestions)
}

// Close stops pending work. Later calls return ErrSessionClosed or empty state.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.advance()
	s.cancelSuggestions()
	s.closed = true
	return nil
}

// advance starts a new generation, abandoning any in-flight commit.
// Must be called with lock held.
func (s *Session) advance() uint64 {
	s.gen++
	if s.commitCancel != nil {
		s.commitCancel()
		s.commitCancel = nil
	}
	s.geocoding = false
	return s.gen
}

// Must be called with lock held.
func (s *Session) input(commit bool) search.Input {
	return search.Input{
		Query:       s.query,
		Radius:      s.radius,
		Device:      s.device,
		Origin:      s.origin,
		OriginQuery: s.originQuery,
		Commit:      commit,
	}
}

// Must be called with lock held.
func (s *Session) apply(res search.Resolution) {
	s.results = res.Results
	s.center = res.Center
	s.centerSource = res.CenterSource
	s.status = res.Status
	s.origin = res.Origin
	s.originQuery = res.OriginQuery
}

// Must be called with lock held.
func (s *Session) snapshot() State {
	return State{
		Source:        s.source,
		Query:         s.query,
		Radius:        s.radius,
		Device:        s.device,
		Origin:        s.origin,
		Results:       slices.Clone(s.results),
		Center:        s.center,
		CenterSource:  s.centerSource,
		Status:        s.status,
		Selected:      s.selected,
		Loading:       s.loading,
		Geocoding:     s.geocoding,
		Locating:      s.locating,
		DirectorySize: len(s.dir),
	}
}

// cancelSuggestions drops the pending debounce timer and any in-flight fetch.
// Must be called with lock held.
func (s *Session) cancelSuggestions() {
	s.suggestGen++
	if s.suggestTimer != nil {
		s.suggestTimer.Stop()
		s.suggestTimer = nil
	}
	if s.suggestCancel != nil {
		s.suggestCancel()
		s.suggestCancel = nil
	}
	s.suggestions = nil
}

// Must be called with lock held.
func (s *Session) scheduleSuggestions(query string) {
	s.cancelSuggestions()
	policy := s.engine.Policy()
	if utf8.RuneCountInString(strings.TrimSpace(query)) < policy.MinSuggestionLength {
		return
	}
	gen := s.suggestGen
	s.suggestTimer = time.AfterFunc(policy.SuggestionDebounce, func() {
		s.fetchSuggestions(gen, query)
	})
}

func (s *Session) fetchSuggestions(gen uint64, query string) {
	s.mu.Lock()
	if s.closed || gen != s.suggestGen {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.suggestCancel = cancel
	s.suggestTimer = nil
	dir := s.dir
	s.mu.Unlock()
	defer cancel()

	list := s.engine.Suggest(ctx, query, dir, s.geocoder)
	if errors.Is(ctx.Err(), context.Canceled) {
		return
	}

	s.mu.Lock()
	if gen != s.suggestGen {
		s.mu.Unlock()
		return
	}
	s.suggestions = list
	s.suggestCancel = nil
	handler := s.onSuggest
	s.mu.Unlock()

	if handler != nil {
		handler(slices.Clone(list))
	}
}
