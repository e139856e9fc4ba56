package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/geocode/mock"
)

func TestLocalSuggestions(t *testing.T) {
	got := LocalSuggestions("aus", testDirectory(), 3, 2)

	require.Len(t, got, 3)
	assert.Equal(t, core.SuggestionInstitution, got[0].Kind)
	assert.Equal(t, "Austin Barber College", got[0].Label)
	assert.Equal(t, "100 Congress Ave, Austin, TX 78701", got[0].SubLabel)
	require.NotNil(t, got[0].Institution)
	assert.Equal(t, core.FlexibleID("1"), got[0].Institution.ID)

	assert.Equal(t, "Strauss Barber Lab", got[1].Label)

	assert.Equal(t, core.SuggestionLocality, got[2].Kind)
	assert.Equal(t, "Austin", got[2].Label, "localities are de-duplicated")
}

func TestLocalSuggestionsCaps(t *testing.T) {
	got := LocalSuggestions("barber", testDirectory(), 3, 2)
	require.Len(t, got, 3)
	for _, s := range got {
		assert.Equal(t, core.SuggestionInstitution, s.Kind)
	}

	localities := LocalSuggestions("a", testDirectory(), 0, 2)
	require.Len(t, localities, 2)
	assert.Equal(t, "Austin", localities[0].Label)
	assert.Equal(t, "San Antonio", localities[1].Label)
}

func TestSuggest(t *testing.T) {
	e := newTestEngine(t)
	g := mock.NewGeocoder()
	g.SuggestFunc = func(_ context.Context, query string) []core.GeocodeResult {
		out := make([]core.GeocodeResult, 7)
		for i := range out {
			out[i] = core.GeocodeResult{Lat: 30, Lng: -97, DisplayName: "Austin, Travis County, Texas"}
		}
		return out
	}
	ctx := context.Background()

	t.Run("short queries are ignored", func(t *testing.T) {
		assert.Empty(t, e.Suggest(ctx, "au", testDirectory(), g))
		assert.Equal(t, 0, g.SuggestCalls())
	})

	t.Run("sources in priority order", func(t *testing.T) {
		got := e.Suggest(ctx, "Aus", testDirectory(), g)
		require.Len(t, got, 3+5)
		assert.Equal(t, core.SuggestionInstitution, got[0].Kind)
		assert.Equal(t, core.SuggestionLocality, got[2].Kind)

		place := got[3]
		assert.Equal(t, core.SuggestionPlace, place.Kind)
		assert.Equal(t, "Austin", place.Label)
		assert.Equal(t, "Travis County, Texas", place.SubLabel)
		require.NotNil(t, place.Coords)
		assert.Equal(t, core.Coordinate{Lat: 30, Lng: -97}, *place.Coords)
	})

	t.Run("without a geocoder", func(t *testing.T) {
		assert.Len(t, e.Suggest(ctx, "Aus", testDirectory(), nil), 3)
	})
}
