// Package metrics exposes Prometheus counters for search resolutions and
// geocoder calls.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poiesic/schoolfinder/geocode"
	"github.com/poiesic/schoolfinder/search"
)

// Monitor records resolution outcomes and geocoder calls.
// It implements search.ResolutionMonitor and geocode.Observer.
type Monitor struct {
	resolutions     *prometheus.CounterVec
	results         prometheus.Histogram
	geocodeRequests *prometheus.CounterVec
	geocodeFailures *prometheus.CounterVec
	geocodeDuration *prometheus.HistogramVec
	gatherer        prometheus.Gatherer
}

var (
	_ search.ResolutionMonitor = (*Monitor)(nil)
	_ geocode.Observer         = (*Monitor)(nil)
)

// New creates a Monitor and registers its collectors with reg.
// A nil reg uses a fresh registry.
func New(reg *prometheus.Registry) (*Monitor, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Monitor{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfinder_resolutions_total",
			Help: "Total search resolutions by outcome",
		}, []string{"outcome"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "schoolfinder_resolution_results",
			Help:    "Number of results per resolution",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		geocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfinder_geocode_requests_total",
			Help: "Total remote geocoder calls",
		}, []string{"op"}),
		geocodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schoolfinder_geocode_failures_total",
			Help: "Total remote geocoder calls that failed, by reason",
		}, []string{"op", "reason"}),
		geocodeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "schoolfinder_geocode_duration_ms",
			Help:    "Remote geocoder call duration in milliseconds",
			Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
		}, []string{"op"}),
		gatherer: reg,
	}

	for _, c := range []prometheus.Collector{m.resolutions, m.results, m.geocodeRequests, m.geocodeFailures, m.geocodeDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveResolution implements search.ResolutionMonitor.
func (m *Monitor) ObserveResolution(outcome search.Outcome, results int) {
	m.resolutions.WithLabelValues(string(outcome)).Inc()
	m.results.Observe(float64(results))
}

// ObserveGeocode implements geocode.Observer.
func (m *Monitor) ObserveGeocode(op string, elapsed time.Duration, err error) {
	m.geocodeRequests.WithLabelValues(op).Inc()
	m.geocodeDuration.WithLabelValues(op).Observe(float64(elapsed.Milliseconds()))
	switch {
	case err == nil:
	case errors.Is(err, geocode.ErrNotFound):
		m.geocodeFailures.WithLabelValues(op, "not_found").Inc()
	default:
		m.geocodeFailures.WithLabelValues(op, "error").Inc()
	}
}

// Handler serves the registered metrics for scraping.
func (m *Monitor) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
