package authclient

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/dmitrymomot/authclient/pkg/transport"
)

// Option configures a Client or a Factory.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	metrics       *transport.Metrics
	tracer        trace.Tracer
	httpClient    *http.Client
	jar           http.CookieJar
	transportOpts []transport.Option
	restore       bool
}

func defaultOptions() options {
	return options{
		logger:  slog.Default(),
		restore: true,
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics shares process-wide collectors with every Client.
func WithMetrics(m *transport.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithHTTPClient sets the base HTTP client. It holds no per-context state
// and may be shared.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithCookieJar sets the ambient jar of a standalone Client, e.g. a
// persisted one. Never pass it to a Factory: the jar is per-context state.
func WithCookieJar(jar http.CookieJar) Option {
	return func(o *options) { o.jar = jar }
}

// WithTransportOptions appends raw transport options.
func WithTransportOptions(opts ...transport.Option) Option {
	return func(o *options) { o.transportOpts = append(o.transportOpts, opts...) }
}

// WithRestore controls whether Factory.Middleware restores the session of
// every inbound request before calling the next handler. Default: true.
func WithRestore(enabled bool) Option {
	return func(o *options) { o.restore = enabled }
}
