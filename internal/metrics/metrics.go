// Package metrics exposes classification and cache counters in Prometheus
// format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
)

const namespace = "nutrisort"

// Metrics holds all application collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Classification metrics
	Classifications *prometheus.CounterVec // labels: procedure, lambda, class
	NutriScores     *prometheus.CounterVec // labels: grade
	SuperNutris     *prometheus.CounterVec // labels: grade

	// Profile cache metrics
	ProfileCache *prometheus.CounterVec // labels: result (hit, miss)
	ProfileBuild prometheus.Histogram
	Population   prometheus.Gauge

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec   // labels: method, route, status
	HTTPDuration *prometheus.HistogramVec // labels: method, route
}

// New registers every collector on a fresh registry, plus the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "ELECTRE TRI assignments by procedure, cut level and class.",
		}, []string{"procedure", "lambda", "class"}),
		NutriScores: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nutriscore_total",
			Help:      "Nutri-Score computations by grade.",
		}, []string{"grade"}),
		SuperNutris: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "supernutri_total",
			Help:      "SuperNutri compositions by grade.",
		}, []string{"grade"}),
		ProfileCache: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_cache_total",
			Help:      "Profile cache lookups by result.",
		}, []string{"result"}),
		ProfileBuild: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "profile_build_seconds",
			Help:      "Time spent deriving profiles from a population.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		Population: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "population_products",
			Help:      "Products in the active reference population.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveClassification counts both procedures of one result.
func (m *Metrics) ObserveClassification(r electre.Result) {
	l := strconv.FormatFloat(r.Lambda, 'f', -1, 64)
	m.Classifications.WithLabelValues(string(electre.Pessimistic), l, r.Pessimistic.String()).Inc()
	m.Classifications.WithLabelValues(string(electre.Optimistic), l, r.Optimistic.String()).Inc()
}

func (m *Metrics) ObserveNutriScore(g electre.Grade) {
	m.NutriScores.WithLabelValues(g.String()).Inc()
}

func (m *Metrics) ObserveSuperNutri(g electre.Grade) {
	m.SuperNutris.WithLabelValues(g.String()).Inc()
}

func (m *Metrics) SetPopulation(n int) {
	m.Population.Set(float64(n))
}

// ProfileCacheHit implements electre.CacheObserver.
func (m *Metrics) ProfileCacheHit() { m.ProfileCache.WithLabelValues("hit").Inc() }

// ProfileCacheMiss implements electre.CacheObserver.
func (m *Metrics) ProfileCacheMiss() { m.ProfileCache.WithLabelValues("miss").Inc() }

// ProfileBuilt implements electre.CacheObserver.
func (m *Metrics) ProfileBuilt(d time.Duration) { m.ProfileBuild.Observe(d.Seconds()) }

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var _ electre.CacheObserver = (*Metrics)(nil)
