// Package prom implements the observability hooks with Prometheus metrics.
//
// A [Collector] owns its own registry so tests and multiple servers in one
// process never collide on global registration:
//
//	c := prom.NewCollector("movegraph")
//	c.Register() // install as the global hooks
//	router.Handle("/metrics", c.Handler())
package prom

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/movegraph/pkg/observability"
)

// Collector holds all Prometheus metrics for movegraph.
type Collector struct {
	registry *prometheus.Registry

	// Pipeline metrics
	Loads          *prometheus.CounterVec
	LoadDuration   prometheus.Histogram
	GraphNodes     prometheus.Gauge
	Layouts        *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec
	Renders        *prometheus.CounterVec

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec

	// Outgoing HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPErrors   *prometheus.CounterVec

	// Served HTTP metrics
	ServedRequests *prometheus.CounterVec
	ServedDuration *prometheus.HistogramVec
}

// NewCollector creates a collector whose metrics live under namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moveset_loads_total",
			Help:      "Moveset loads by outcome.",
		}, []string{"status"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "moveset_load_duration_seconds",
			Help:      "Time spent loading a moveset.",
			Buckets:   prometheus.DefBuckets,
		}),
		GraphNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes in the most recently loaded graph.",
		}),
		Layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_runs_total",
			Help:      "Layout runs by mode and outcome.",
		}, []string{"mode", "status"}),
		LayoutDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout run duration by mode.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2, 3, 5},
		}, []string{"mode"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Render runs by outcome.",
		}, []string{"status"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache hits by key type.",
		}, []string{"type"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache misses by key type.",
		}, []string{"type"}),
		CacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type.",
		}, []string{"type"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outgoing HTTP requests by host and status.",
		}, []string{"host", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outgoing HTTP request duration by host.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		HTTPErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "Outgoing HTTP transport errors by host.",
		}, []string{"host"}),
		ServedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Served HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		ServedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Served HTTP request duration by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.Loads, c.LoadDuration, c.GraphNodes,
		c.Layouts, c.LayoutDuration, c.Renders,
		c.CacheHits, c.CacheMisses, c.CacheBytes,
		c.HTTPRequests, c.HTTPDuration, c.HTTPErrors,
		c.ServedRequests, c.ServedDuration,
	)
	return c
}

// Register installs the collector as the global pipeline, cache and HTTP hooks.
func (c *Collector) Register() {
	observability.SetPipelineHooks(pipelineHooks{c})
	observability.SetCacheHooks(cacheHooks{c})
	observability.SetHTTPHooks(httpHooks{c})
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.ServedRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.ServedDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

type pipelineHooks struct{ c *Collector }

func (h pipelineHooks) OnLoadStart(context.Context, string) {}

func (h pipelineHooks) OnLoadComplete(_ context.Context, _ string, nodes int, d time.Duration, err error) {
	h.c.Loads.WithLabelValues(status(err)).Inc()
	h.c.LoadDuration.Observe(d.Seconds())
	if err == nil {
		h.c.GraphNodes.Set(float64(nodes))
	}
}

func (h pipelineHooks) OnLayoutStart(context.Context, string, int) {}

func (h pipelineHooks) OnLayoutComplete(_ context.Context, mode string, d time.Duration, err error) {
	h.c.Layouts.WithLabelValues(mode, status(err)).Inc()
	h.c.LayoutDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (h pipelineHooks) OnRenderStart(context.Context, []string) {}

func (h pipelineHooks) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	h.c.Renders.WithLabelValues(status(err)).Inc()
}

type cacheHooks struct{ c *Collector }

func (h cacheHooks) OnCacheHit(_ context.Context, keyType string) {
	h.c.CacheHits.WithLabelValues(keyType).Inc()
}

func (h cacheHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.c.CacheMisses.WithLabelValues(keyType).Inc()
}

func (h cacheHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.c.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

type httpHooks struct{ c *Collector }

func (h httpHooks) OnRequest(context.Context, string, string, string) {}

func (h httpHooks) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	h.c.HTTPRequests.WithLabelValues(host, strconv.Itoa(code)).Inc()
	h.c.HTTPDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h httpHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.c.HTTPErrors.WithLabelValues(host).Inc()
}

var (
	_ observability.PipelineHooks = pipelineHooks{}
	_ observability.CacheHooks    = cacheHooks{}
	_ observability.HTTPHooks     = httpHooks{}
)
