package csrf

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/authclient/pkg/logger"
)

// DefaultCookieName is the cookie Laravel Sanctum issues the token in.
const DefaultCookieName = "XSRF-TOKEN"

// FetchFunc calls the token-issuing endpoint. Its only required effect is
// that the token cookie becomes visible through the CookieSource.
type FetchFunc func(ctx context.Context) error

// Manager caches the anti-forgery token of one execution context.
type Manager struct {
	source      CookieSource
	fetch       FetchFunc
	cookieName  string
	logger      *slog.Logger
	onBootstrap func()

	mu          sync.Mutex
	cached      string
	invalidated bool

	group singleflight.Group
}

// New creates a token manager reading the token from source and refreshing
// it through fetch.
func New(source CookieSource, fetch FetchFunc, opts ...Option) *Manager {
	m := &Manager{
		source:     source,
		fetch:      fetch,
		cookieName: DefaultCookieName,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.source == nil {
		m.source = CookieSourceFunc(func(string) (string, bool) { return "", false })
	}
	return m
}

// CookieName returns the name of the token cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// ReadCached returns the token mirrored from the cookie. After Invalidate it
// reports none until the next successful Bootstrap, even if a stale cookie is
// still around.
func (m *Manager) ReadCached() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readLocked()
}

func (m *Manager) readLocked() (string, bool) {
	if m.invalidated {
		return "", false
	}
	if v, ok := m.source.Cookie(m.cookieName); ok {
		if d := decodeValue(v); d != "" {
			m.cached = d
		}
	}
	if m.cached == "" {
		return "", false
	}
	return m.cached, true
}

// Ensure returns the cached token, bootstrapping when it is absent or when
// forceRefresh is set.
func (m *Manager) Ensure(ctx context.Context, forceRefresh bool) (string, error) {
	if !forceRefresh {
		if token, ok := m.ReadCached(); ok {
			return token, nil
		}
	}
	return m.Bootstrap(ctx)
}

// Bootstrap calls the token endpoint and re-reads the cookie.
// Concurrent callers share one in-flight call.
func (m *Manager) Bootstrap(ctx context.Context) (string, error) {
	// The shared call must not fail for everyone when the first caller goes away.
	ch := m.group.DoChan("bootstrap", func() (any, error) {
		return m.bootstrap(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", errors.Join(ErrUnavailable, ctx.Err())
	}
}

func (m *Manager) bootstrap(ctx context.Context) (string, error) {
	if m.fetch == nil {
		return "", errors.Join(ErrUnavailable, ErrNoFetcher)
	}
	if m.onBootstrap != nil {
		m.onBootstrap()
	}

	if err := m.fetch(ctx); err != nil {
		m.logger.WarnContext(ctx, "csrf token bootstrap failed",
			logger.Component("csrf"),
			logger.Error(err),
		)
		return "", errors.Join(ErrUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.source.Cookie(m.cookieName)
	token := decodeValue(v)
	if !ok || token == "" {
		m.logger.WarnContext(ctx, "csrf cookie missing after bootstrap",
			logger.Component("csrf"),
			logger.Cookie(m.cookieName),
		)
		return "", ErrUnavailable
	}

	m.cached = token
	m.invalidated = false
	return token, nil
}

// Invalidate drops the cached token without contacting the server.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cached = ""
	m.invalidated = true
}
