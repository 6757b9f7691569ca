// Package metrics exports Prometheus collectors for the HTTP server and the
// annotation session.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Namespace prefixes every metric name.
const Namespace = "mediastudio"

// Collector records server and canvas metrics.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec
	rateLimitedTotal    *prometheus.CounterVec

	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec

	canvasEventsTotal *prometheus.CounterVec

	annotationUpdates     prometheus.Counter
	annotationSubscribers prometheus.Gauge

	logger *zap.Logger
}

// NewCollector registers the collectors with reg. A nil reg uses the
// default registry.
func NewCollector(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	f := promauto.With(reg)
	c := &Collector{logger: logger.With(zap.String("component", "metrics"))}

	c.httpRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	c.httpRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	c.httpResponseSize = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
	c.rateLimitedTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)

	c.generationsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Generation requests by kind and outcome",
		},
		[]string{"kind", "status"},
	)
	c.generationDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Generation latency in seconds",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"kind"},
	)

	c.canvasEventsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "canvas_events_total",
			Help:      "Committed gestures and history navigation on the canvas",
		},
		[]string{"event"},
	)

	c.annotationUpdates = f.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "annotation_updates_total",
		Help:      "Region list updates published to the annotation hub",
	})
	c.annotationSubscribers = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "annotation_subscribers",
		Help:      "Open annotation stream connections",
	})

	return c
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration, responseSize int64) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusCode(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	c.httpResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// RecordRateLimited counts a rejected request.
func (c *Collector) RecordRateLimited(path string) {
	c.rateLimitedTotal.WithLabelValues(path).Inc()
	c.logger.Debug("rate limited", zap.String("path", path))
}

// RecordGeneration records one generation call.
func (c *Collector) RecordGeneration(kind string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.generationsTotal.WithLabelValues(kind, status).Inc()
	c.generationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// Observe counts a canvas event. It makes Collector a canvas.Observer.
func (c *Collector) Observe(event string) {
	c.canvasEventsTotal.WithLabelValues(event).Inc()
}

// RecordAnnotationUpdate counts a region list update.
func (c *Collector) RecordAnnotationUpdate() {
	c.annotationUpdates.Inc()
}

// SetAnnotationSubscribers sets the number of open streams.
func (c *Collector) SetAnnotationSubscribers(n int) {
	c.annotationSubscribers.Set(float64(n))
}

func statusCode(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	}
	return strconv.Itoa(code)
}
