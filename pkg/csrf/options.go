package csrf

import "log/slog"

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName sets the token cookie name. Empty names are ignored.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.cookieName = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithBootstrapHook registers a callback invoked once per network bootstrap.
func WithBootstrapHook(fn func()) Option {
	return func(m *Manager) {
		m.onBootstrap = fn
	}
}
