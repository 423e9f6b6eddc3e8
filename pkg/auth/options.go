package auth

import "log/slog"

// Paths are the backend endpoints used by the orchestrator.
type Paths struct {
	Login  string
	Logout string
	User   string
}

// DefaultPaths returns the Laravel Sanctum SPA endpoints.
func DefaultPaths() Paths {
	return Paths{
		Login:  "/auth/login",
		Logout: "/auth/logout",
		User:   "/api/user",
	}
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPaths overrides the endpoints. Empty fields keep the defaults.
func WithPaths(p Paths) Option {
	return func(s *Service) {
		if p.Login != "" {
			s.paths.Login = p.Login
		}
		if p.Logout != "" {
			s.paths.Logout = p.Logout
		}
		if p.User != "" {
			s.paths.User = p.User
		}
	}
}

// WithHomePath sets where logout lands and the fallback redirect target.
// Default: "/". Non-local paths are ignored.
func WithHomePath(path string) Option {
	return func(s *Service) {
		if IsLocalPath(path) {
			s.home = path
		}
	}
}
