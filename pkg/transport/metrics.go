package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors shared by every Transport of a process.
// Create it once and pass it to each per-context Transport with WithMetrics;
// registering twice on the same registry panics.
type Metrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	csrfBootstraps  prometheus.Counter
	sessionClears   prometheus.Counter
	tokenInvalidate prometheus.Counter
}

// MetricsOption configures NewMetrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace string
	registry  prometheus.Registerer
	buckets   []float64
}

// WithRegistry sets the registerer. Default: prometheus.DefaultRegisterer.
func WithRegistry(r prometheus.Registerer) MetricsOption {
	return func(c *metricsConfig) {
		if r != nil {
			c.registry = r
		}
	}
}

// WithNamespace sets the metrics namespace. Default: "authclient".
func WithNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) { c.namespace = ns }
}

// WithBuckets sets the request duration buckets.
func WithBuckets(b []float64) MetricsOption {
	return func(c *metricsConfig) {
		if len(b) > 0 {
			c.buckets = b
		}
	}
}

// NewMetrics registers the transport collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := metricsConfig{
		namespace: "authclient",
		registry:  prometheus.DefaultRegisterer,
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.registry)
	return &Metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "requests_total",
			Help:      "Outbound API requests by method and status code",
		}, []string{"method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "request_duration_seconds",
			Help:      "Outbound API request duration in seconds",
			Buckets:   cfg.buckets,
		}, []string{"method"}),
		csrfBootstraps: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "csrf_bootstraps_total",
			Help:      "Calls made to the CSRF token endpoint",
		}),
		sessionClears: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "session_clears_total",
			Help:      "Sessions cleared because the backend answered 401",
		}),
		tokenInvalidate: factory.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "csrf_invalidations_total",
			Help:      "CSRF tokens invalidated because the backend answered 419",
		}),
	}
}

func (m *Metrics) observeRequest(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status != 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) observeBootstrap() {
	if m == nil {
		return
	}
	m.csrfBootstraps.Inc()
}

func (m *Metrics) observeEffects(fx Effects) {
	if m == nil {
		return
	}
	if fx.ClearSession {
		m.sessionClears.Inc()
	}
	if fx.InvalidateToken {
		m.tokenInvalidate.Inc()
	}
}
