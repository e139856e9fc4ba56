package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/schoolfinder/geocode"
	"github.com/poiesic/schoolfinder/search"
)

func TestObserveResolution(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.ObserveResolution(search.OutcomeCluster, 4)
	m.ObserveResolution(search.OutcomeCluster, 2)
	m.ObserveResolution(search.OutcomeKeyword, 10)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutions.WithLabelValues("cluster")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("keyword")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.resolutions.WithLabelValues("geocoded")))
}

func TestObserveGeocode(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.ObserveGeocode("geocode", 120*time.Millisecond, nil)
	m.ObserveGeocode("geocode", 80*time.Millisecond, geocode.ErrNotFound)
	m.ObserveGeocode("suggest", time.Second, errors.New("timeout"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.geocodeRequests.WithLabelValues("geocode")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.geocodeRequests.WithLabelValues("suggest")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.geocodeFailures.WithLabelValues("geocode", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.geocodeFailures.WithLabelValues("suggest", "error")))
}

func TestNewRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}

func TestHandler(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	m.ObserveResolution(search.OutcomeText, 3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `schoolfinder_resolutions_total{outcome="text"} 1`)
}
