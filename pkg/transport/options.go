package transport

import (
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Transport.
type Option func(*Transport)

// WithHTTPClient sets the base client. It is copied: the transport installs
// its own redirect policy and never mutates the shared value.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.base = c
		}
	}
}

// WithCookieJar sets the ambient jar. Ignored without HasAmbientCookieJar.
func WithCookieJar(jar http.CookieJar) Option {
	return func(t *Transport) {
		t.jar = jar
	}
}

// WithTimeout bounds every call. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMetrics records requests and side effects on shared collectors.
func WithMetrics(m *Metrics) Option {
	return func(t *Transport) {
		t.metrics = m
	}
}

// WithTracer sets the tracer. Default: the global OpenTelemetry provider.
func WithTracer(tr trace.Tracer) Option {
	return func(t *Transport) {
		if tr != nil {
			t.tracer = tr
		}
	}
}

// WithCSRF overrides the token endpoint, cookie and header names.
// Empty values keep the defaults.
func WithCSRF(path, cookie, header string) Option {
	return func(t *Transport) {
		if path != "" {
			t.csrfPath = path
		}
		if cookie != "" {
			t.csrfCookie = cookie
		}
		if header != "" {
			t.csrfHeader = header
		}
	}
}

// WithHeader adds a static header to every request. Per-request headers win.
func WithHeader(key, value string) Option {
	return func(t *Transport) {
		t.headers.Set(key, value)
	}
}

// WithStage appends a request stage after the built-in ones.
func WithStage(s Stage) Option {
	return func(t *Transport) {
		if s.Apply != nil {
			t.extraStages = append(t.extraStages, s)
		}
	}
}

// WithInterceptor appends a response interceptor after the built-in ones.
func WithInterceptor(ic Interceptor) Option {
	return func(t *Transport) {
		if ic != nil {
			t.interceptors = append(t.interceptors, ic)
		}
	}
}
