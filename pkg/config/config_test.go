package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authclient/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("AUTHCLIENT_BASE_URL", "https://api.example.com")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "https://api.example.com", cfg.BaseURL)
		assert.Equal(t, "/sanctum/csrf-cookie", cfg.CSRFPath)
		assert.Equal(t, "XSRF-TOKEN", cfg.CSRFCookie)
		assert.Equal(t, "X-XSRF-TOKEN", cfg.CSRFHeader)
		assert.Equal(t, "/auth/login", cfg.LoginPath)
		assert.Equal(t, "/auth/logout", cfg.LogoutPath)
		assert.Equal(t, "/api/user", cfg.UserPath)
		assert.Equal(t, "/", cfg.HomePath)
		assert.Equal(t, "/login", cfg.LoginPage)
		assert.Equal(t, 10*time.Second, cfg.Timeout)
		assert.False(t, cfg.PrefetchCSRF)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("AUTHCLIENT_BASE_URL", "http://localhost:8000")
		t.Setenv("AUTHCLIENT_LOGIN_PATH", "/login")
		t.Setenv("AUTHCLIENT_TIMEOUT", "3s")
		t.Setenv("AUTHCLIENT_PREFETCH_CSRF", "true")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "/login", cfg.LoginPath)
		assert.Equal(t, 3*time.Second, cfg.Timeout)
		assert.True(t, cfg.PrefetchCSRF)
		assert.Equal(t, "localhost:8000", cfg.URL().Host)
	})

	t.Run("env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.env")
		require.NoError(t, os.WriteFile(path, []byte("AUTHCLIENT_USER_PATH=/api/me\n"), 0o600))
		t.Setenv("AUTHCLIENT_BASE_URL", "https://api.example.com")
		t.Cleanup(func() { os.Unsetenv("AUTHCLIENT_USER_PATH") })

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/api/me", cfg.UserPath)
	})

	t.Run("missing named env file", func(t *testing.T) {
		t.Setenv("AUTHCLIENT_BASE_URL", "https://api.example.com")

		_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})

	t.Run("required base url", func(t *testing.T) {
		t.Setenv("AUTHCLIENT_BASE_URL", "")
		os.Unsetenv("AUTHCLIENT_BASE_URL")

		_, err := config.Load()
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Setenv("AUTHCLIENT_BASE_URL", "api.example.com")

		_, err := config.Load()
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})

	t.Run("must load panics", func(t *testing.T) {
		t.Setenv("AUTHCLIENT_BASE_URL", "ftp://example.com")

		assert.Panics(t, func() { config.MustLoad() })
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("yaml over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "authclient.yaml")
		content := "base_url: https://api.example.com\nlogin_path: /api/login\ntimeout: 2s\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := config.LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "/api/login", cfg.LoginPath)
		assert.Equal(t, "/api/user", cfg.UserPath)
		assert.Equal(t, 2*time.Second, cfg.Timeout)
	})

	t.Run("environment beats the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "authclient.yaml")
		content := "base_url: https://api.example.com\nlogin_path: /api/login\nuser_path: /api/me\nprefetch_csrf: true\ntimeout: 2s\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("AUTHCLIENT_BASE_URL", "http://localhost:8000")
		t.Setenv("AUTHCLIENT_USER_PATH", "/api/whoami")
		t.Setenv("AUTHCLIENT_TIMEOUT", "5s")

		cfg, err := config.LoadFile(path)
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
		assert.Equal(t, "/api/whoami", cfg.UserPath)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, "/api/login", cfg.LoginPath, "file value kept when no variable is set")
		assert.True(t, cfg.PrefetchCSRF)
		assert.Equal(t, "/auth/logout", cfg.LogoutPath)
	})

	t.Run("invalid environment value", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "authclient.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base_url: https://api.example.com\n"), 0o600))
		t.Setenv("AUTHCLIENT_TIMEOUT", "soon")

		_, err := config.LoadFile(path)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, config.ErrReadingFile)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("base_url: [\n"), 0o600))

		_, err := config.LoadFile(path)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := config.Default()
	valid.BaseURL = "https://api.example.com"
	require.NoError(t, valid.Validate())

	cases := map[string]func(c *config.Config){
		"relative base url": func(c *config.Config) { c.BaseURL = "/api" },
		"path without slash": func(c *config.Config) { c.UserPath = "api/user" },
		"empty cookie":       func(c *config.Config) { c.CSRFCookie = "" },
		"zero timeout":       func(c *config.Config) { c.Timeout = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			c := valid
			mutate(&c)
			assert.ErrorIs(t, c.Validate(), config.ErrInvalidConfig)
		})
	}
}
