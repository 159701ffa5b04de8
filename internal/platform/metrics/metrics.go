// Package metrics owns the prometheus registry and the collectors the service exports
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups every metric the service records
// a nil *Collector is valid and records nothing
type Collector struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	batches         *prometheus.CounterVec
	batchSize       prometheus.Histogram
	batchWindow     prometheus.Histogram
	backendDuration prometheus.Histogram
	backendFailures *prometheus.CounterVec
	replies         *prometheus.CounterVec
	queueDepth      prometheus.Gauge
	ledgerDropped   prometheus.Counter
}

// New registers all collectors on a fresh registry under namespace
func New(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		reg: reg,

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),

		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_total",
			Help:      "Dispatched batches by close reason",
		}, []string{"reason"}),

		batchSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Records per dispatched batch",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),

		batchWindow: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_window_seconds",
			Help:      "Time from first record to batch close",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}),

		backendDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_duration_seconds",
			Help:      "Backend call latency per batch",
			Buckets:   prometheus.DefBuckets,
		}),

		backendFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_failures_total",
			Help:      "Failed backend calls by kind",
		}, []string{"kind"}),

		replies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Per-record replies by outcome",
		}, []string{"outcome"}),

		queueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Records waiting in the queue after the last dispatch",
		}),

		ledgerDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_dropped_total",
			Help:      "Ledger records dropped because the write buffer was full",
		}),
	}
}

// Registry exposes the underlying registry (tests, extra collectors)
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

// Handler serves the registry in the prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{Registry: c.reg})
}

// ObserveBatch records one dispatched batch
func (c *Collector) ObserveBatch(reason string, size int, window, backend time.Duration) {
	if c == nil {
		return
	}
	c.batches.WithLabelValues(reason).Inc()
	c.batchSize.Observe(float64(size))
	c.batchWindow.Observe(window.Seconds())
	c.backendDuration.Observe(backend.Seconds())
}

// BackendFailure counts a failed backend call by kind (transport, parse)
func (c *Collector) BackendFailure(kind string) {
	if c == nil {
		return
	}
	c.backendFailures.WithLabelValues(kind).Inc()
}

// Replies counts n replies with the given outcome
func (c *Collector) Replies(outcome string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.replies.WithLabelValues(outcome).Add(float64(n))
}

// QueueDepth sets the queue depth gauge
func (c *Collector) QueueDepth(n int) {
	if c == nil {
		return
	}
	c.queueDepth.Set(float64(n))
}

// LedgerDropped counts a ledger record lost to backpressure
func (c *Collector) LedgerDropped() {
	if c == nil {
		return
	}
	c.ledgerDropped.Inc()
}

// Middleware records request counts and latency keyed by the chi route pattern
func (c *Collector) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if c == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, r)

			route := "unmatched"
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" {
					route = p
				}
			}
			c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
			c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
