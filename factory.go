package authclient

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/authclient/pkg/auth"
	"github.com/dmitrymomot/authclient/pkg/config"
	"github.com/dmitrymomot/authclient/pkg/logger"
	"github.com/dmitrymomot/authclient/pkg/session"
	"github.com/dmitrymomot/authclient/pkg/transport"
)

// Factory builds Clients from shared, stateless collaborators: config,
// logger, metrics, tracer and HTTP client. It holds no session state.
type Factory struct {
	cfg  config.Config
	opts options
}

// NewFactory validates cfg once for every Client the factory will build.
func NewFactory(cfg config.Config, opts ...Option) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	// A jar is per-context state and must not leak into forwarding clients.
	o.jar = nil
	return &Factory{cfg: cfg, opts: o}, nil
}

// New builds a fresh Client.
func (f *Factory) New(caps transport.Capabilities, nav auth.Navigator) (*Client, error) {
	return newClient(f.cfg, caps, nav, f.opts)
}

// Middleware gives every inbound request its own Client acting on behalf of
// that request. The Client, its session store and its navigator are stored
// in the request context. Cookies the backend sets while the request is
// served are passed on to the response.
func (f *Factory) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nav := NewRedirectNavigator()
		c, err := f.New(transport.Forwarding(r), nav)
		if err != nil {
			f.opts.logger.ErrorContext(r.Context(), "failed to build request client",
				logger.Component("authclient"),
				logger.Error(err),
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		ctx := withClient(r.Context(), c, nav)
		ctx = session.WithStore(ctx, c.Session)
		if f.opts.restore {
			c.Restore(ctx)
		}

		cw := &cookieWriter{ResponseWriter: w, client: c}
		next.ServeHTTP(cw, r.WithContext(ctx))
		// A handler that wrote nothing gets an implicit 200 from net/http
		// after this returns; the cookies still have to go with it.
		cw.flushCookies()
	})
}

type clientKey struct{}

type clientEntry struct {
	client *Client
	nav    *RedirectNavigator
}

func withClient(ctx context.Context, c *Client, nav *RedirectNavigator) context.Context {
	return context.WithValue(ctx, clientKey{}, clientEntry{client: c, nav: nav})
}

// WithClient stores c in ctx.
func WithClient(ctx context.Context, c *Client) context.Context {
	return withClient(ctx, c, nil)
}

// FromContext returns the Client of the request being served.
func FromContext(ctx context.Context) (*Client, bool) {
	e, ok := ctx.Value(clientKey{}).(clientEntry)
	return e.client, ok && e.client != nil
}

// NavigatorFromContext returns the navigator Middleware installed.
func NavigatorFromContext(ctx context.Context) (*RedirectNavigator, bool) {
	e, ok := ctx.Value(clientKey{}).(clientEntry)
	return e.nav, ok && e.nav != nil
}

// cookieWriter copies cookies the backend set during the request onto the
// inbound response just before the headers go out.
type cookieWriter struct {
	http.ResponseWriter
	client  *Client
	flushed bool
}

func (w *cookieWriter) flushCookies() {
	if w.flushed {
		return
	}
	w.flushed = true
	for _, c := range w.client.Transport.ForwardedCookies() {
		cp := *c
		// The backend domain means nothing on this host.
		cp.Domain = ""
		http.SetCookie(w.ResponseWriter, &cp)
	}
}

func (w *cookieWriter) WriteHeader(code int) {
	w.flushCookies()
	w.ResponseWriter.WriteHeader(code)
}

func (w *cookieWriter) Write(b []byte) (int, error) {
	w.flushCookies()
	return w.ResponseWriter.Write(b)
}

func (w *cookieWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
