// Package metrics provides Prometheus metrics for the search pipeline and the indexer
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "competeai"

// Metrics holds the collectors and the registry they are bound to
type Metrics struct {
	registry *prometheus.Registry

	// Search metrics
	SearchRequests    *prometheus.CounterVec
	SearchDuration    prometheus.Histogram
	SearchResultCount prometheus.Histogram

	// Indexer metrics
	IndexedItems *prometheus.CounterVec

	// Provider metrics
	ProviderCalls    *prometheus.CounterVec
	TokensProcessed  *prometheus.CounterVec
	EstimatedCostUSD prometheus.Counter
}

// New creates a Metrics instance with its own registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		SearchRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search requests by outcome",
		}, []string{"outcome"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent answering a search request",
			Buckets:   prometheus.DefBuckets,
		}),
		SearchResultCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_result_count",
			Help:      "Number of documents retrieved per search",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 20},
		}),
		IndexedItems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indexer_items_total",
			Help:      "Items visited by the batch indexer by content type and outcome",
		}, []string{"content_type", "outcome"}),
		ProviderCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Calls to hosted model providers",
		}, []string{"kind", "outcome"}),
		TokensProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_tokens_total",
			Help:      "Completion tokens consumed by direction",
		}, []string{"direction"}),
		EstimatedCostUSD: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "estimated_cost_usd_total",
			Help:      "Estimated completion cost in USD",
		}),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Outcome labels
const (
	OutcomeAnswered  = "answered"
	OutcomeNoResults = "no_results"
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
	OutcomeErrored   = "errored"
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
)

// Provider call kinds
const (
	KindEmbedding  = "embedding"
	KindCompletion = "completion"
)

// RecordSearch records one search request. A nil Metrics is a no-op.
func (m *Metrics) RecordSearch(outcome string, duration time.Duration, resultCount int) {
	if m == nil {
		return
	}
	m.SearchRequests.WithLabelValues(outcome).Inc()
	m.SearchDuration.Observe(duration.Seconds())
	m.SearchResultCount.Observe(float64(resultCount))
}

// RecordIndexed records the outcome of one indexer item
func (m *Metrics) RecordIndexed(contentType, outcome string) {
	if m == nil {
		return
	}
	m.IndexedItems.WithLabelValues(contentType, outcome).Inc()
}

// RecordProviderCall records a call to the embedding or completion provider
func (m *Metrics) RecordProviderCall(kind, outcome string) {
	if m == nil {
		return
	}
	m.ProviderCalls.WithLabelValues(kind, outcome).Inc()
}

// RecordCompletionUsage adds token usage and estimated cost of a completion call
func (m *Metrics) RecordCompletionUsage(inputTokens, outputTokens int, cost float64) {
	if m == nil {
		return
	}
	m.TokensProcessed.WithLabelValues("input").Add(float64(inputTokens))
	m.TokensProcessed.WithLabelValues("output").Add(float64(outputTokens))
	if cost > 0 {
		m.EstimatedCostUSD.Add(cost)
	}
}
