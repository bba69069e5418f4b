package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vithai_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vithai_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Catalog metrics
	CatalogMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vithai_catalog_mutations_total",
			Help: "Total catalog writes",
		},
		[]string{"op"}, // "create", "update", "delete"
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vithai_login_attempts_total",
			Help: "Total admin login attempts",
		},
		[]string{"result"}, // "ok", "invalid", "limited"
	)

	// Provider metrics
	ProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vithai_provider_calls_total",
			Help: "Total verse/search provider calls",
		},
		[]string{"op", "outcome"}, // op "verse"/"search", outcome "ok"/"error"
	)

	ProviderLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vithai_provider_latency_seconds",
			Help:    "Provider call latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	VerseCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vithai_verse_cache_total",
			Help: "Daily verse cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// Infrastructure metrics
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vithai_store_latency_seconds",
			Help:    "Catalog backend latency",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1},
		},
		[]string{"backend", "op"},
	)
)
