package schoolfinder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/geocode"
	"github.com/poiesic/schoolfinder/geocode/mock"
	"github.com/poiesic/schoolfinder/search"
)

var (
	testSanAntonio      = core.Coordinate{Lat: 29.4241, Lng: -98.4936}
	testDrippingSprings = core.GeocodeResult{Lat: 30.1902, Lng: -98.0867, DisplayName: "Dripping Springs, Texas"}

	testSources = []core.DataSource{
		{ID: "texas", Label: "All Texas", URL: "https://example.invalid/texas.json"},
		{ID: "empty", Label: "Nothing", URL: "https://example.invalid/empty.json"},
		{ID: "broken", Label: "Broken", URL: "https://example.invalid/broken.json"},
	}
)

type providerFunc func(ctx context.Context, source core.DataSource) ([]core.Institution, error)

func (f providerFunc) Directory(ctx context.Context, source core.DataSource) ([]core.Institution, error) {
	return f(ctx, source)
}

func testInstitution(id, name, address string, lat, lng float64) core.Institution {
	return core.Institution{
		ID:      core.FlexibleID(id),
		Name:    name,
		Address: address,
		Coords:  &core.Coordinate{Lat: lat, Lng: lng},
		Status:  core.StatusFor(name, address),
	}
}

func texasDirectory() []core.Institution {
	return []core.Institution{
		testInstitution("1", "Austin Barber College", "100 Congress Ave, Austin, TX 78701", 30.2672, -97.7431),
		testInstitution("2", "Capitol Cuts Academy", "200 Lamar Blvd, Austin, TX 78704", 30.2500, -97.7600),
		testInstitution("3", "Texas Barber & Beauty Academy", "500 Commerce St, San Antonio, TX 78205", 29.4241, -98.4936),
		testInstitution("4", "Alamo Barber School", "700 Alamo Plaza, San Antonio, TX 78205", 29.4260, -98.4861),
	}
}

func staticProvider() DirectoryProvider {
	return providerFunc(func(_ context.Context, source core.DataSource) ([]core.Institution, error) {
		switch source.ID {
		case "texas":
			return texasDirectory(), nil
		case "empty":
			return []core.Institution{}, nil
		default:
			return nil, errors.New("status 404")
		}
	})
}

func newTestSession(t *testing.T, provider DirectoryProvider, g geocode.Geocoder, opts ...SessionOption) *Session {
	t.Helper()
	policy := search.DefaultPolicy()
	policy.SuggestionDebounce = 50 * time.Millisecond
	engine, err := search.NewEngine(search.WithPolicy(policy))
	require.NoError(t, err)

	s, err := NewSession(engine, provider, g, testSources, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func loadedSession(t *testing.T, g geocode.Geocoder, opts ...SessionOption) *Session {
	t.Helper()
	s := newTestSession(t, staticProvider(), g, opts...)
	_, err := s.SelectSource(context.Background(), "texas")
	require.NoError(t, err)
	return s
}

func TestNewSessionValidation(t *testing.T) {
	engine, err := search.NewEngine()
	require.NoError(t, err)

	_, err = NewSession(nil, staticProvider(), nil, testSources)
	assert.ErrorIs(t, err, ErrEngineRequired)

	_, err = NewSession(engine, nil, nil, testSources)
	assert.ErrorIs(t, err, ErrDirectoryRequired)
}

func TestSessionSelectSource(t *testing.T) {
	s := newTestSession(t, staticProvider(), nil)

	state, err := s.SelectSource(context.Background(), "texas")
	require.NoError(t, err)
	assert.Equal(t, "Loaded directory for All Texas", state.Status)
	assert.Equal(t, 4, state.DirectorySize)
	assert.False(t, state.Loading)

	t.Run("unknown source", func(t *testing.T) {
		_, err := s.SelectSource(context.Background(), "ohio")
		assert.ErrorIs(t, err, core.ErrUnknownSource)
	})

	t.Run("load failure", func(t *testing.T) {
		state, err := s.SelectSource(context.Background(), "broken")
		require.Error(t, err)
		assert.Equal(t, "Error loading directory for Broken.", state.Status)
		assert.Zero(t, state.DirectorySize)
		assert.False(t, state.Loading)
	})
}

func TestSessionSelectSourceResetsBeforeLoading(t *testing.T) {
	release := make(chan struct{})
	provider := providerFunc(func(ctx context.Context, source core.DataSource) ([]core.Institution, error) {
		if source.ID == "empty" {
			<-release
			return []core.Institution{}, nil
		}
		return texasDirectory(), nil
	})
	s := newTestSession(t, provider, nil)
	ctx := context.Background()

	_, err := s.SelectSource(ctx, "texas")
	require.NoError(t, err)
	_, err = s.SetRadius(25)
	require.NoError(t, err)
	state := s.SetQuery("Austin")
	require.NotEmpty(t, state.Results)
	require.NotNil(t, state.Center)
	require.NotNil(t, state.Origin)

	done := make(chan State)
	go func() {
		st, _ := s.SelectSource(ctx, "empty")
		done <- st
	}()

	require.Eventually(t, func() bool { return s.State().Loading }, time.Second, 5*time.Millisecond)
	mid := s.State()
	assert.Empty(t, mid.Results)
	assert.Nil(t, mid.Center)
	assert.Nil(t, mid.Origin)
	assert.Empty(t, mid.Status)
	assert.Equal(t, "empty", mid.Source.ID)

	close(release)
	final := <-done
	assert.False(t, final.Loading)
	assert.Empty(t, final.Results)
	assert.Equal(t, "Austin", final.Query, "the query survives a source switch")
}

func TestSessionSetQueryIsLocal(t *testing.T) {
	g := mock.NewGeocoder()
	s := loadedSession(t, g)

	state := s.SetQuery("Aus")
	assert.Len(t, state.Results, 2)
	assert.Nil(t, state.Center)

	_, err := s.SetRadius(25)
	require.NoError(t, err)
	state = s.SetQuery("Dripping Springs")
	assert.Empty(t, state.Results)
	assert.Equal(t, 0, g.GeocodeCalls(), "typing never geocodes")
}

func TestSessionSetRadiusValidation(t *testing.T) {
	s := loadedSession(t, nil)
	_, err := s.SetRadius(7)
	assert.ErrorIs(t, err, core.ErrInvalidRadius)
}

func TestSessionCommitGeocodes(t *testing.T) {
	g := mock.NewStaticGeocoder(map[string]core.GeocodeResult{"Dripping Springs": testDrippingSprings})
	s := loadedSession(t, g)

	_, err := s.SetRadius(25)
	require.NoError(t, err)
	s.SetQuery("Dripping Springs")

	state, err := s.Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, g.GeocodeCalls())
	assert.Equal(t, search.CenterGeocode, state.CenterSource)
	assert.Len(t, state.Results, 2)
	assert.Equal(t, `Found 2 schools within 25 miles of "Dripping Springs".`, state.Status)
	assert.False(t, state.Geocoding)
	require.NotNil(t, state.Origin)
	assert.Equal(t, testDrippingSprings.Coordinate(), *state.Origin)

	// The origin is sticky: a keyword search now anchors on it.
	state = s.SetQuery("barber")
	assert.Equal(t, search.CenterOrigin, state.CenterSource)
	assert.Equal(t, []string{"Austin Barber College"}, resultNames(state.Results))
}

func TestSessionCommitNotFound(t *testing.T) {
	g := mock.NewGeocoder()
	s := loadedSession(t, g)

	_, err := s.SetRadius(10)
	require.NoError(t, err)
	s.SetQuery("Atlantis")

	state, err := s.Commit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, state.Results)
	assert.Nil(t, state.Center)
	assert.Equal(t, `Could not determine location for "Atlantis". Try a valid Zip or City.`, state.Status)
}

func TestSessionSupersededGeocode(t *testing.T) {
	releaseA := make(chan struct{})
	g := mock.NewGeocoder()
	g.GeocodeFunc = func(ctx context.Context, query string) (*core.GeocodeResult, error) {
		if query == "Alpha" {
			<-releaseA
			return &core.GeocodeResult{Lat: 32.7767, Lng: -96.7970, DisplayName: "Alpha"}, nil
		}
		r := testDrippingSprings
		return &r, nil
	}
	s := loadedSession(t, g)
	ctx := context.Background()

	_, err := s.SetRadius(25)
	require.NoError(t, err)
	s.SetQuery("Alpha")

	type outcome struct {
		state State
		err   error
	}
	first := make(chan outcome, 1)
	go func() {
		st, err := s.Commit(ctx)
		first <- outcome{st, err}
	}()
	require.Eventually(t, func() bool { return s.State().Geocoding }, time.Second, 5*time.Millisecond)

	s.SetQuery("Bravo")
	latest, err := s.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, `Found 2 schools within 25 miles of "Bravo".`, latest.Status)

	close(releaseA)
	stale := <-first
	assert.ErrorIs(t, stale.err, ErrSuperseded)

	final := s.State()
	assert.Equal(t, "Bravo", final.Query)
	assert.Equal(t, latest.Status, final.Status)
	require.NotNil(t, final.Center)
	assert.Equal(t, testDrippingSprings.Coordinate(), *final.Center)
	assert.False(t, final.Geocoding)
}

func TestSessionNearMe(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s := loadedSession(t, nil, WithLocator(StaticLocator(testSanAntonio)))
		s.SetQuery("Austin")

		state, err := s.NearMe(context.Background())
		require.NoError(t, err)
		assert.Empty(t, state.Query)
		assert.Equal(t, 25, state.Radius)
		require.NotNil(t, state.Device)
		assert.Equal(t, search.CenterDevice, state.CenterSource)
		assert.Nil(t, state.Origin)
		assert.Equal(t, "Found 2 schools near your location.", state.Status)
		assert.Equal(t, "Texas Barber & Beauty Academy", state.Results[0].Name)
	})

	t.Run("failure leaves state unchanged", func(t *testing.T) {
		denied := LocatorFunc(func(context.Context) (core.Coordinate, error) {
			return core.Coordinate{}, errors.New("permission denied")
		})
		s := loadedSession(t, nil, WithLocator(denied))
		before := s.SetQuery("Aus")

		after, err := s.NearMe(context.Background())
		assert.ErrorIs(t, err, ErrLocationUnavailable)
		assert.Equal(t, before, after)
	})

	t.Run("no locator", func(t *testing.T) {
		s := loadedSession(t, nil)
		_, err := s.NearMe(context.Background())
		assert.ErrorIs(t, err, ErrLocationUnavailable)
	})

	t.Run("keeps a non-zero radius", func(t *testing.T) {
		s := loadedSession(t, nil, WithLocator(StaticLocator(testSanAntonio)))
		_, err := s.SetRadius(100)
		require.NoError(t, err)
		state, err := s.NearMe(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 100, state.Radius)
	})

	t.Run("query committed while locating wins", func(t *testing.T) {
		release := make(chan struct{})
		slow := LocatorFunc(func(ctx context.Context) (core.Coordinate, error) {
			<-release
			return testSanAntonio, nil
		})
		s := loadedSession(t, nil, WithLocator(slow))

		done := make(chan error, 1)
		go func() {
			_, err := s.NearMe(context.Background())
			done <- err
		}()
		require.Eventually(t, func() bool { return s.State().Locating }, time.Second, 5*time.Millisecond)

		s.SetQuery("Austin")
		committed, err := s.Commit(context.Background())
		require.NoError(t, err)

		close(release)
		assert.ErrorIs(t, <-done, ErrSuperseded)

		final := s.State()
		assert.Equal(t, "Austin", final.Query)
		assert.Nil(t, final.Device)
		assert.False(t, final.Locating)
		assert.Equal(t, committed.Status, final.Status)
		assert.Equal(t, resultNames(committed.Results), resultNames(final.Results))
	})

	t.Run("close while locating", func(t *testing.T) {
		release := make(chan struct{})
		slow := LocatorFunc(func(ctx context.Context) (core.Coordinate, error) {
			<-release
			return testSanAntonio, nil
		})
		s := loadedSession(t, nil, WithLocator(slow))

		done := make(chan error, 1)
		go func() {
			_, err := s.NearMe(context.Background())
			done <- err
		}()
		require.Eventually(t, func() bool { return s.State().Locating }, time.Second, 5*time.Millisecond)

		require.NoError(t, s.Close())
		close(release)
		assert.ErrorIs(t, <-done, ErrSessionClosed)
	})
}

func TestSessionReset(t *testing.T) {
	s := loadedSession(t, nil, WithLocator(StaticLocator(testSanAntonio)))
	_, err := s.NearMe(context.Background())
	require.NoError(t, err)
	s.SetQuery("barber")

	state := s.Reset()
	assert.Empty(t, state.Query)
	assert.Zero(t, state.Radius)
	assert.Nil(t, state.Device)
	assert.Nil(t, state.Origin)
	assert.Nil(t, state.Center)
	assert.Empty(t, state.Results)
	assert.Empty(t, state.Status)
	assert.Nil(t, state.Selected)
	assert.Equal(t, 4, state.DirectorySize, "the directory stays loaded")
}

func TestSessionSuggestionsDebounce(t *testing.T) {
	var (
		mu      sync.Mutex
		queries []string
	)
	g := mock.NewGeocoder()
	g.SuggestFunc = func(_ context.Context, query string) []core.GeocodeResult {
		mu.Lock()
		queries = append(queries, query)
		mu.Unlock()
		return []core.GeocodeResult{{Lat: 30.27, Lng: -97.74, DisplayName: "Austin, Travis County, Texas"}}
	}
	delivered := make(chan []core.Suggestion, 4)
	s := loadedSession(t, g, WithSuggestionHandler(func(list []core.Suggestion) { delivered <- list }))

	s.SetQuery("Aus")
	s.SetQuery("Aust")
	s.SetQuery("Austi")

	select {
	case list := <-delivered:
		require.NotEmpty(t, list)
		assert.Equal(t, core.SuggestionInstitution, list[0].Kind)
		assert.Equal(t, core.SuggestionPlace, list[len(list)-1].Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no suggestions delivered")
	}

	mu.Lock()
	assert.Equal(t, []string{"Austi"}, queries, "superseded keystrokes never fetch")
	mu.Unlock()
	assert.NotEmpty(t, s.Suggestions())

	t.Run("short queries clear suggestions", func(t *testing.T) {
		s.SetQuery("Au")
		assert.Empty(t, s.Suggestions())
		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, 1, g.SuggestCalls())
	})

	t.Run("commit cancels a pending fetch", func(t *testing.T) {
		s.SetQuery("Alamo")
		_, err := s.Commit(context.Background())
		require.NoError(t, err)
		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, 1, g.SuggestCalls())
	})
}

func TestSessionSelectSuggestion(t *testing.T) {
	g := mock.NewGeocoder()
	s := loadedSession(t, g)
	ctx := context.Background()

	t.Run("institution", func(t *testing.T) {
		before := s.SetQuery("Alamo")
		inst := texasDirectory()[3]
		state, err := s.SelectSuggestion(ctx, core.Suggestion{
			ID:          "school-4",
			Kind:        core.SuggestionInstitution,
			Label:       inst.Name,
			Institution: &inst,
		})
		require.NoError(t, err)
		require.NotNil(t, state.Selected)
		assert.Equal(t, inst.ID, state.Selected.ID)
		assert.Equal(t, search.CenterSelection, state.CenterSource)
		assert.Equal(t, *inst.Coords, *state.Center)
		assert.Equal(t, before.Results, state.Results, "no new resolution")
		assert.Zero(t, g.GeocodeCalls())
	})

	t.Run("locality", func(t *testing.T) {
		_, err := s.SetRadius(25)
		require.NoError(t, err)
		state, err := s.SelectSuggestion(ctx, core.Suggestion{Kind: core.SuggestionLocality, Label: "Austin"})
		require.NoError(t, err)
		assert.Equal(t, "Austin", state.Query)
		assert.Equal(t, search.CenterCluster, state.CenterSource)
		assert.Equal(t, `Found 2 schools near "Austin".`, state.Status)
	})

	t.Run("institution without payload", func(t *testing.T) {
		_, err := s.SelectSuggestion(ctx, core.Suggestion{Kind: core.SuggestionInstitution})
		assert.ErrorIs(t, err, core.ErrInvalidInstitution)
	})
}

func TestSessionClosed(t *testing.T) {
	s := loadedSession(t, nil)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err := s.Commit(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.SetRadius(10)
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Empty(t, s.SetQuery("Austin").Query)
}

func resultNames(results []core.Institution) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Name)
	}
	return out
}
