// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream names used as label values.
const (
	UpstreamIdentity   = "identity"
	UpstreamStore      = "store"
	UpstreamCompletion = "completion"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	ObserveRequest(method, route string, status int, d time.Duration)
	UpstreamFailure(upstream string)
	ProfileCreated(source string)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	upstreamFail    *prometheus.CounterVec
	profilesCreated *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry, including Go
// runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jalrakshak_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jalrakshak_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jalrakshak_upstream_failures_total",
			Help: "Failed calls to external services.",
		}, []string{"upstream"}),
		profilesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jalrakshak_profiles_created_total",
			Help: "Profile documents created, by source.",
		}, []string{"source"}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.upstreamFail,
		c.profilesCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// ObserveRequest records one handled request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// UpstreamFailure counts a failed external call.
func (c *Collector) UpstreamFailure(upstream string) {
	c.upstreamFail.WithLabelValues(upstream).Inc()
}

// ProfileCreated counts a newly written profile document.
func (c *Collector) ProfileCreated(source string) {
	c.profilesCreated.WithLabelValues(source).Inc()
}

// Handler returns the /metrics HTTP handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Nop discards everything. Used when metrics are disabled.
type Nop struct{}

func (Nop) ObserveRequest(string, string, int, time.Duration) {}
func (Nop) UpstreamFailure(string)                             {}
func (Nop) ProfileCreated(string)                              {}
