package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/dmitrymomot/authclient/pkg/logger"
	"github.com/dmitrymomot/authclient/pkg/session"
	"github.com/dmitrymomot/authclient/pkg/transport"
)

// API is the part of the transport the orchestrator needs.
// *transport.Transport implements it.
type API interface {
	Get(ctx context.Context, path string, out any) (*transport.Response, error)
	Post(ctx context.Context, path string, body, out any) (*transport.Response, error)
}

// Service drives login, logout and session restore for one execution context.
type Service struct {
	api    API
	store  *session.Store
	nav    Navigator
	paths  Paths
	home   string
	logger *slog.Logger
}

// New creates the orchestrator. A nil navigator discards navigations.
func New(api API, store *session.Store, nav Navigator, opts ...Option) *Service {
	if nav == nil {
		nav = noopNavigator{}
	}
	s := &Service{
		api:    api,
		store:  store,
		nav:    nav,
		paths:  DefaultPaths(),
		home:   "/",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login authenticates creds, loads the current user into the store and
// navigates to the redirect target taken from query, which it also returns.
//
// When a user is already present no request is made. Any failure is returned
// unchanged and leaves the store as it was. The flow runs to completion even
// if ctx is cancelled; the transport timeout still bounds each call.
func (s *Service) Login(ctx context.Context, creds Credentials, query url.Values) (string, error) {
	target := redirectTarget(query, s.home)

	if s.store.IsLoggedIn() {
		s.nav.Navigate(ctx, target)
		return target, nil
	}

	ctx = context.WithoutCancel(ctx)

	if _, err := s.api.Post(ctx, s.paths.Login, creds, nil); err != nil {
		s.logger.InfoContext(ctx, "login rejected",
			logger.Component("auth"),
			slog.Int("status", transport.StatusCode(err)),
			logger.Error(err),
		)
		return "", err
	}

	user, err := s.fetchUser(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "user fetch after login failed",
			logger.Component("auth"),
			logger.Error(err),
		)
		return "", err
	}

	s.store.Apply(session.EventLogin, &user)
	s.logger.InfoContext(ctx, "logged in",
		logger.Component("auth"),
		logger.UserID(user.ID),
		logger.Redirect(target),
	)

	s.nav.Navigate(ctx, target)
	return target, nil
}

// Logout clears the store on every exit path, tells the backend on a best
// effort basis and navigates home. Backend errors are logged and dropped.
func (s *Service) Logout(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	defer s.nav.Navigate(ctx, s.home)
	defer s.store.Apply(session.EventLogout, nil)

	if _, err := s.api.Post(ctx, s.paths.Logout, nil, nil); err != nil {
		s.logger.WarnContext(ctx, "logout request failed",
			logger.Component("auth"),
			logger.Error(err),
		)
	}
}

// BootstrapSession restores the session on a cold start. The store holds the
// server's user on success and no user on any failure. Errors are logged,
// never returned.
func (s *Service) BootstrapSession(ctx context.Context) {
	user, err := s.fetchUser(ctx)
	if err != nil {
		s.store.Apply(session.EventRestore, nil)

		level := slog.LevelWarn
		if errors.Is(err, transport.ErrUnauthenticated) {
			level = slog.LevelDebug
		}
		s.logger.Log(ctx, level, "session restore failed",
			logger.Component("auth"),
			logger.Error(err),
		)
		return
	}

	s.store.Apply(session.EventRestore, &user)
	s.logger.DebugContext(ctx, "session restored",
		logger.Component("auth"),
		logger.UserID(user.ID),
	)
}

// RedirectTarget is the package RedirectTarget with the configured home as
// fallback.
func (s *Service) RedirectTarget(query url.Values) string {
	return redirectTarget(query, s.home)
}

// Store returns the session store the service writes to.
func (s *Service) Store() *session.Store {
	return s.store
}

func (s *Service) fetchUser(ctx context.Context) (session.User, error) {
	var user session.User
	if _, err := s.api.Get(ctx, s.paths.User, &user); err != nil {
		return session.User{}, err
	}
	if user.ID == "" {
		return session.User{}, ErrNoUser
	}
	return user, nil
}
