// Package authclient is a client for cookie-session backends protected by a
// double-submit CSRF cookie, such as Laravel Sanctum SPA authentication.
//
// It keeps one answer to "who is the current user" per execution context,
// attaches the anti-forgery token to state-changing requests and reacts to
// server-signalled session expiry (401) and token mismatch (419) in one
// place.
//
// # Execution contexts
//
// A Client bundles everything that belongs to one execution context: a
// session.Store, a transport.Transport with its csrf.Manager and cookie
// state, and the auth.Service driving login, logout and restore. Clients
// share nothing.
//
// A standalone program (a CLI, a worker) builds one Client with its own
// cookie jar:
//
//	cfg := config.MustLoad()
//	c, err := authclient.New(cfg, transport.Browser(), nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c.Restore(ctx)
//	if _, err := c.Auth.Login(ctx, auth.Credentials{Identifier: email, Secret: pw}, nil); err != nil {
//	    log.Fatal(transport.Message(err))
//	}
//
// A server acting on behalf of browser requests builds one Client per inbound
// request with Factory.Middleware. The Client forwards the inbound Origin and
// cookies to the backend and passes backend cookies back to the browser:
//
//	f, _ := authclient.NewFactory(cfg, authclient.WithLogger(log))
//	r := chi.NewRouter()
//	r.Use(f.Middleware)
//	r.With(auth.RequireAuth(cfg.LoginPage)).Get("/dashboard", dashboard)
//
// Inside a handler, FromContext returns the Client and NavigatorFromContext
// the RedirectNavigator that turns navigations into a 303 or an HX-Redirect.
package authclient
