package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/schoolfinder/core"
	"github.com/poiesic/schoolfinder/storage"
	"github.com/poiesic/schoolfinder/storage/badger"
)

const sampleDirectory = `[
  {"id": 1, "name": "Texas Barber & Beauty Academy", "address": "123 Main St, San Antonio, TX 78201",
   "coords": {"lat": 29.42, "lng": -98.49}, "website": "https://example.com", "phone": "(210) 555-0100",
   "programs": ["Class A Barber"], "hours_required": 1500},
  {"id": "deluxe", "name": "Deluxe Barber College", "address": "9 Elm St, San Antonio, TX 78202",
   "coords": {"lat": 29.45, "lng": -98.51}, "website": "", "phone": null},
  {"id": {"bad": true}, "name": "Broken Id College", "address": "5 Oak St, Waco, TX 76701"},
  {"id": 4, "name": "   ", "address": "Nowhere"},
  {"name": "Austin Barber School", "address": "1 Congress Ave, Austin, TX 78701",
   "coords": {"lat": 95.0, "lng": -97.74}},
  {"id": 6, "name": 42, "address": "Numeric Name"},
  "not an object"
]`

const malformedOptionalFields = `[
  {"id": 1, "name": "Clean Cuts", "address": "1 Main St, Austin, TX", "hours_required": 1500},
  {"id": 2, "name": "Hours As Text", "address": "2 Main St, Austin, TX", "hours_required": "1500"},
  {"id": 3, "name": "Hours Garbled", "address": "3 Main St, Austin, TX", "hours_required": "about a year"},
  {"id": 4, "name": "Single Program", "address": "4 Main St, Austin, TX", "programs": "Class A Barber"},
  {"id": 5, "name": "Program Object", "address": "5 Main St, Austin, TX", "programs": {"name": "Class A"}},
  {"id": 6, "name": "Numeric Phone", "address": "6 Main St, Austin, TX", "phone": 5125550100},
  {"id": 7, "name": "Phone Array", "address": "7 Main St, Austin, TX", "phone": ["512"]},
  {"id": 8, "name": "Website Number", "address": "8 Main St, Austin, TX", "website": 42},
  {"id": 9, "name": "Coords Text", "address": "9 Main St, Austin, TX", "coords": "30.2,-97.7"},
  {"id": 10, "name": "Coords Half", "address": "10 Main St, Austin, TX", "coords": {"lat": 30.2}},
  {"id": 11, "name": "Rating Text", "address": "11 Main St, Austin, TX", "rating": "great", "review_count": "12"},
  {"id": 12, "name": "Strings As Objects", "address": "12 Main St, Austin, TX",
   "schedule": {"days": 5}, "tuition": 12000, "description": [], "google_place_id": false}
]`

func newTestLoader(t *testing.T, handler http.HandlerFunc) (*Loader, storage.DirectoryRepository, core.DataSource) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dirRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	loader, err := NewLoader(dirRepo, WithRetry(2, time.Millisecond))
	require.NoError(t, err)

	return loader, dirRepo, core.DataSource{ID: "test", Label: "Test", URL: srv.URL + "/schools.json"}
}

func TestFetchDecodesAndAssignsStatus(t *testing.T) {
	loader, _, source := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDirectory))
	})

	institutions, err := loader.Fetch(context.Background(), source)
	require.NoError(t, err)
	require.Len(t, institutions, 4, "records without a usable name are skipped")

	featured := institutions[0]
	assert.Equal(t, core.FlexibleID("1"), featured.ID)
	assert.Equal(t, core.StatusFeatured, featured.Status)
	require.NotNil(t, featured.Website)
	assert.Equal(t, "https://example.com", *featured.Website)
	assert.Equal(t, 1500, featured.HoursRequired)

	verified := institutions[1]
	assert.Equal(t, core.StatusVerified, verified.Status)
	assert.Nil(t, verified.Website, "blank website is dropped")
	assert.Nil(t, verified.Phone)

	badID := institutions[2]
	assert.Equal(t, "Broken Id College", badID.Name)
	assert.Equal(t, core.FlexibleID("pos-2"), badID.ID, "malformed ids fall back to the position")

	regular := institutions[3]
	assert.Equal(t, core.StatusRegular, regular.Status)
	assert.Equal(t, core.FlexibleID("pos-4"), regular.ID)
	assert.Nil(t, regular.Coords, "out of range coordinates are dropped")
}

func TestFetchDefaultsMalformedOptionalFields(t *testing.T) {
	loader, _, source := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(malformedOptionalFields))
	})

	institutions, err := loader.Fetch(context.Background(), source)
	require.NoError(t, err)
	require.Len(t, institutions, 12, "a bad optional field never drops the record")

	byName := make(map[string]core.Institution, len(institutions))
	for _, inst := range institutions {
		byName[inst.Name] = inst
	}

	assert.Equal(t, 1500, byName["Clean Cuts"].HoursRequired)
	assert.Equal(t, 1500, byName["Hours As Text"].HoursRequired)
	assert.Zero(t, byName["Hours Garbled"].HoursRequired)

	assert.Equal(t, []string{"Class A Barber"}, byName["Single Program"].Programs)
	assert.Nil(t, byName["Program Object"].Programs)

	phone := byName["Numeric Phone"].Phone
	require.NotNil(t, phone)
	assert.Equal(t, "5125550100", *phone)
	assert.Nil(t, byName["Phone Array"].Phone)

	assert.Nil(t, byName["Website Number"].Website)
	assert.Nil(t, byName["Coords Text"].Coords)
	assert.Nil(t, byName["Coords Half"].Coords)

	assert.Zero(t, byName["Rating Text"].Rating)
	assert.Equal(t, 12, byName["Rating Text"].ReviewCount)

	odd := byName["Strings As Objects"]
	assert.Empty(t, odd.Schedule)
	assert.Empty(t, odd.Tuition)
	assert.Empty(t, odd.Description)
	assert.Empty(t, odd.GooglePlaceID)
	assert.Equal(t, core.FlexibleID("12"), odd.ID)
}

func TestFetchFailure(t *testing.T) {
	var hits atomic.Int32
	loader, _, source := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := loader.Fetch(context.Background(), source)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, int32(1), hits.Load(), "client errors are not retried")
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	loader, _, source := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	})

	institutions, err := loader.Fetch(context.Background(), source)
	require.NoError(t, err)
	assert.Empty(t, institutions)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchMalformedDirectory(t *testing.T) {
	loader, _, source := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	})

	_, err := loader.Fetch(context.Background(), source)
	assert.ErrorIs(t, err, ErrMalformedDirectory)
}

func TestDirectoryLoadsOnce(t *testing.T) {
	var hits atomic.Int32
	loader, repo, source := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(sampleDirectory))
	})
	ctx := context.Background()

	first, err := loader.Directory(ctx, source)
	require.NoError(t, err)
	second, err := loader.Directory(ctx, source)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, first, second)

	loaded, err := repo.HasSource(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, loaded)
}

func TestLoadFailureKeepsRepository(t *testing.T) {
	var fail atomic.Bool
	loader, repo, source := newTestLoader(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(sampleDirectory))
	})
	ctx := context.Background()

	_, err := loader.Load(ctx, source)
	require.NoError(t, err)

	fail.Store(true)
	_, err = loader.Load(ctx, source)
	require.Error(t, err)

	stored, err := repo.ListSource(ctx, source.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestNewLoaderValidation(t *testing.T) {
	_, err := NewLoader(nil)
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	dirRepo, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer backend.Close()

	_, err = NewLoader(dirRepo, WithRetry(0, time.Millisecond))
	assert.Error(t, err)

	_, err = NewLoader(dirRepo, WithHTTPClient(nil))
	assert.Error(t, err)
}
