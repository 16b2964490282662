// Package observability exposes Prometheus metrics for the planner.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the process's Prometheus metrics on a private
// registry so tests can create collectors freely without duplicate
// registration panics.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Graph business metrics
	NodesCreated    prometheus.Counter
	NodesDeleted    prometheus.Counter
	EdgesCreated    prometheus.Counter
	EdgesDeleted    prometheus.Counter
	ObsoleteToggles prometheus.Counter

	// External collaborator metrics
	AutocompleteRequests *prometheus.CounterVec
	CalendarSyncs        *prometheus.CounterVec
}

// NewCollector creates and registers the metrics under the given
// namespace.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		NodesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_created_total",
			Help:      "Total nodes created",
		}),
		NodesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nodes_deleted_total",
			Help:      "Total nodes deleted",
		}),
		EdgesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_created_total",
			Help:      "Total edges created",
		}),
		EdgesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edges_deleted_total",
			Help:      "Total edges deleted",
		}),
		ObsoleteToggles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "obsolete_toggles_total",
			Help:      "Total obsolete propagation toggles",
		}),
		AutocompleteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "autocomplete_requests_total",
			Help:      "Autocomplete bridge requests by outcome",
		}, []string{"outcome"}),
		CalendarSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_syncs_total",
			Help:      "Calendar sync attempts by outcome",
		}, []string{"outcome"}),
	}

	registry.MustRegister(
		c.HTTPRequests, c.HTTPDuration,
		c.NodesCreated, c.NodesDeleted,
		c.EdgesCreated, c.EdgesDeleted,
		c.ObsoleteToggles,
		c.AutocompleteRequests, c.CalendarSyncs,
	)
	return c
}

// Handler returns the /metrics endpoint handler for this collector's
// registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
