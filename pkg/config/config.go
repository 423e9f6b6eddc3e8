package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config describes the backend contract and the client's ambient settings.
type Config struct {
	// BaseURL is the backend origin every path below is resolved against.
	BaseURL string `env:"AUTHCLIENT_BASE_URL,required" yaml:"base_url"`

	CSRFPath   string `env:"AUTHCLIENT_CSRF_PATH" envDefault:"/sanctum/csrf-cookie" yaml:"csrf_path"`
	CSRFCookie string `env:"AUTHCLIENT_CSRF_COOKIE" envDefault:"XSRF-TOKEN" yaml:"csrf_cookie"`
	CSRFHeader string `env:"AUTHCLIENT_CSRF_HEADER" envDefault:"X-XSRF-TOKEN" yaml:"csrf_header"`

	LoginPath  string `env:"AUTHCLIENT_LOGIN_PATH" envDefault:"/auth/login" yaml:"login_path"`
	LogoutPath string `env:"AUTHCLIENT_LOGOUT_PATH" envDefault:"/auth/logout" yaml:"logout_path"`
	UserPath   string `env:"AUTHCLIENT_USER_PATH" envDefault:"/api/user" yaml:"user_path"`

	// HomePath and LoginPage are navigation targets, not API endpoints.
	HomePath  string `env:"AUTHCLIENT_HOME_PATH" envDefault:"/" yaml:"home_path"`
	LoginPage string `env:"AUTHCLIENT_LOGIN_PAGE" envDefault:"/login" yaml:"login_page"`

	Timeout time.Duration `env:"AUTHCLIENT_TIMEOUT" envDefault:"10s" yaml:"timeout"`

	// PrefetchCSRF bootstraps the token when an execution context is restored,
	// before any mutating request needs it.
	PrefetchCSRF bool `env:"AUTHCLIENT_PREFETCH_CSRF" envDefault:"false" yaml:"prefetch_csrf"`

	LogLevel  string `env:"AUTHCLIENT_LOG_LEVEL" envDefault:"info" yaml:"log_level"`
	LogFormat string `env:"AUTHCLIENT_LOG_FORMAT" envDefault:"json" yaml:"log_format"`
}

// Default returns the Sanctum defaults without a base URL.
func Default() Config {
	return Config{
		CSRFPath:   "/sanctum/csrf-cookie",
		CSRFCookie: "XSRF-TOKEN",
		CSRFHeader: "X-XSRF-TOKEN",
		LoginPath:  "/auth/login",
		LogoutPath: "/auth/logout",
		UserPath:   "/api/user",
		HomePath:   "/",
		LoginPage:  "/login",
		Timeout:    10 * time.Second,
		LogLevel:   "info",
		LogFormat:  "json",
	}
}

// Validate reports the first problem found.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: base url %q must be an absolute http(s) URL", ErrInvalidConfig, c.BaseURL)
	}

	paths := map[string]string{
		"csrf path":   c.CSRFPath,
		"login path":  c.LoginPath,
		"logout path": c.LogoutPath,
		"user path":   c.UserPath,
		"home path":   c.HomePath,
		"login page":  c.LoginPage,
	}
	for name, p := range paths {
		if !strings.HasPrefix(p, "/") {
			return fmt.Errorf("%w: %s %q must start with /", ErrInvalidConfig, name, p)
		}
	}

	if c.CSRFCookie == "" || c.CSRFHeader == "" {
		return fmt.Errorf("%w: csrf cookie and header names are required", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// URL returns the parsed base URL. Call after Validate.
func (c Config) URL() *url.URL {
	u, _ := url.Parse(c.BaseURL)
	return u
}
