package authclient

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/authclient/pkg/auth"
	"github.com/dmitrymomot/authclient/pkg/config"
	"github.com/dmitrymomot/authclient/pkg/csrf"
	"github.com/dmitrymomot/authclient/pkg/logger"
	"github.com/dmitrymomot/authclient/pkg/session"
	"github.com/dmitrymomot/authclient/pkg/transport"
)

// Client is one execution context: its own session store, CSRF token and
// cookie state. Build one per process for a standalone client and one per
// inbound request on a server.
type Client struct {
	Session   *session.Store
	Transport *transport.Transport
	Tokens    *csrf.Manager
	Auth      *auth.Service

	cfg    config.Config
	logger *slog.Logger
}

// New builds a Client. Nothing it creates is shared with other Clients.
func New(cfg config.Config, caps transport.Capabilities, nav auth.Navigator, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newClient(cfg, caps, nav, o)
}

func newClient(cfg config.Config, caps transport.Capabilities, nav auth.Navigator, o options) (*Client, error) {
	store := session.New()

	topts := []transport.Option{
		transport.WithCSRF(cfg.CSRFPath, cfg.CSRFCookie, cfg.CSRFHeader),
		transport.WithTimeout(cfg.Timeout),
		transport.WithLogger(o.logger),
		transport.WithMetrics(o.metrics),
	}
	if o.tracer != nil {
		topts = append(topts, transport.WithTracer(o.tracer))
	}
	if o.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(o.httpClient))
	}
	if o.jar != nil {
		topts = append(topts, transport.WithCookieJar(o.jar))
	}
	topts = append(topts, o.transportOpts...)

	tr, err := transport.New(cfg.BaseURL, caps, store, topts...)
	if err != nil {
		return nil, err
	}

	svc := auth.New(tr, store, nav,
		auth.WithLogger(o.logger),
		auth.WithPaths(auth.Paths{Login: cfg.LoginPath, Logout: cfg.LogoutPath, User: cfg.UserPath}),
		auth.WithHomePath(cfg.HomePath),
	)

	return &Client{
		Session:   store,
		Transport: tr,
		Tokens:    tr.Tokens(),
		Auth:      svc,
		cfg:       cfg,
		logger:    o.logger,
	}, nil
}

// Restore runs the cold-start sequence: an optional CSRF prefetch, then a
// session restore. It never fails; problems are logged.
func (c *Client) Restore(ctx context.Context) {
	if c.cfg.PrefetchCSRF {
		if _, err := c.Tokens.Ensure(ctx, false); err != nil {
			c.logger.WarnContext(ctx, "csrf prefetch failed",
				logger.Component("authclient"),
				logger.Error(err),
			)
		}
	}
	c.Auth.BootstrapSession(ctx)
}

// Config returns the configuration the client was built with.
func (c *Client) Config() config.Config {
	return c.cfg
}
