package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	RecordActivity(activityType string)
	RecordEngagement(kind string)
	RecordMetadataFetch(provider, outcome string, duration time.Duration)
	RecordHTTPRequest(method string, status int, duration time.Duration)
}

type Collector struct {
	activities     *prometheus.CounterVec
	engagements    *prometheus.CounterVec
	metadataFetch  *prometheus.CounterVec
	metadataTiming *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpLatency    prometheus.Histogram
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		activities: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelf_activities_total",
			Help: "Activities appended to the ledger, by type.",
		}, []string{"type"}),
		engagements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelf_engagements_total",
			Help: "Likes, unlikes and comments on activities.",
		}, []string{"kind"}),
		metadataFetch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelf_metadata_fetch_total",
			Help: "Metadata provider calls, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		metadataTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shelf_metadata_fetch_seconds",
			Help:    "Metadata provider call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shelf_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shelf_http_request_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.activities,
		c.engagements,
		c.metadataFetch,
		c.metadataTiming,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

func (c *Collector) RecordActivity(activityType string) {
	c.activities.WithLabelValues(activityType).Inc()
}

func (c *Collector) RecordEngagement(kind string) {
	c.engagements.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordMetadataFetch(provider, outcome string, duration time.Duration) {
	c.metadataFetch.WithLabelValues(provider, outcome).Inc()
	c.metadataTiming.WithLabelValues(provider).Observe(duration.Seconds())
}

func (c *Collector) RecordHTTPRequest(method string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// Nop discards everything. Tests and tools use it in place of a Collector.
type Nop struct{}

func (Nop) RecordActivity(string)                             {}
func (Nop) RecordEngagement(string)                           {}
func (Nop) RecordMetadataFetch(string, string, time.Duration) {}
func (Nop) RecordHTTPRequest(string, int, time.Duration)      {}

// Handler serves the registry for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
