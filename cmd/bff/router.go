package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/authclient"
	"github.com/dmitrymomot/authclient/pkg/auth"
	"github.com/dmitrymomot/authclient/pkg/clientip"
	"github.com/dmitrymomot/authclient/pkg/config"
	"github.com/dmitrymomot/authclient/pkg/httpserver"
	"github.com/dmitrymomot/authclient/pkg/logger"
	"github.com/dmitrymomot/authclient/pkg/requestid"
	"github.com/dmitrymomot/authclient/pkg/session"
	"github.com/dmitrymomot/authclient/pkg/transport"
)

func newRouter(cfg config.Config, f *authclient.Factory, reg *prometheus.Registry, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware, clientip.Middleware, accessLog(log))

	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, 2*time.Second, map[string]httpserver.Check{
		"backend": backendCheck(f),
	}))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	r.Group(func(r chi.Router) {
		r.Use(f.RequireSameOrigin, f.Middleware)

		r.Get("/", home)
		r.Post("/logout", logout)
		r.With(auth.RequireAuth(cfg.LoginPage)).Get("/dashboard", dashboard)

		guest := r.With(auth.GuestOnly(cfg.HomePath))
		guest.Get(cfg.LoginPage, loginPage)
		guest.Post(cfg.LoginPage, loginSubmit)
	})

	return r
}

// backendCheck bootstraps a CSRF token with a throwaway client: the backend
// is up and issuing tokens.
func backendCheck(f *authclient.Factory) httpserver.Check {
	return func(ctx context.Context) error {
		c, err := f.New(transport.Browser(), nil)
		if err != nil {
			return err
		}
		_, err = c.Tokens.Bootstrap(ctx)
		return err
	}
}

func home(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"logged_in": false}
	if u, ok := session.UserFromContext(r.Context()); ok {
		body["logged_in"] = true
		body["user"] = u
	}
	writeJSON(w, http.StatusOK, body)
}

func dashboard(w http.ResponseWriter, r *http.Request) {
	u, _ := session.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func loginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"fields":   []string{"email", "password", "remember"},
		"redirect": auth.RedirectTarget(r.URL.Query()),
	})
}

func loginSubmit(w http.ResponseWriter, r *http.Request) {
	c, _ := authclient.FromContext(r.Context())
	nav, _ := authclient.NavigatorFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid form"})
		return
	}
	creds := auth.Credentials{
		Identifier: r.PostForm.Get("email"),
		Secret:     r.PostForm.Get("password"),
		Remember:   r.PostForm.Get("remember") == "on",
	}

	if _, err := c.Auth.Login(r.Context(), creds, r.URL.Query()); err != nil {
		writeLoginError(w, err)
		return
	}
	if !nav.Redirect(w, r) {
		w.WriteHeader(http.StatusNoContent)
	}
}

func logout(w http.ResponseWriter, r *http.Request) {
	c, _ := authclient.FromContext(r.Context())
	nav, _ := authclient.NavigatorFromContext(r.Context())

	c.Auth.Logout(r.Context())
	if !nav.Redirect(w, r) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// writeLoginError answers in the shape the backend uses for 422s so a form
// layer can show field errors.
func writeLoginError(w http.ResponseWriter, err error) {
	fields := map[string][]string{}
	for _, fe := range transport.FieldErrors(err) {
		fields[fe.Field] = append(fields[fe.Field], fe.Message)
	}

	status := transport.StatusCode(err)
	switch {
	case len(fields) > 0:
		status = http.StatusUnprocessableEntity
	case status == 0 || status >= http.StatusInternalServerError:
		status = http.StatusBadGateway
	}

	body := map[string]any{"message": transport.Message(err)}
	if len(fields) > 0 {
		body["errors"] = fields
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.InfoContext(r.Context(), "request",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Status(status),
				logger.Duration(time.Since(start)),
				slog.String("ip", clientip.FromContext(r.Context())),
			)
		})
	}
}
