// Package config loads the client configuration: the backend base URL, the
// CSRF and auth endpoint paths, navigation targets and logging settings.
//
// Two sources are supported. Load reads `.env` files with
// `github.com/joho/godotenv` and parses the environment with
// `github.com/caarlos0/env/v11`; LoadFile reads a YAML document with
// `gopkg.in/yaml.v3` on top of Default, with AUTHCLIENT_* variables applied
// over the file. Both validate the result.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Environment keys:
//
//	AUTHCLIENT_BASE_URL       required, e.g. https://api.example.com
//	AUTHCLIENT_CSRF_PATH      /sanctum/csrf-cookie
//	AUTHCLIENT_CSRF_COOKIE    XSRF-TOKEN
//	AUTHCLIENT_CSRF_HEADER    X-XSRF-TOKEN
//	AUTHCLIENT_LOGIN_PATH     /auth/login
//	AUTHCLIENT_LOGOUT_PATH    /auth/logout
//	AUTHCLIENT_USER_PATH      /api/user
//	AUTHCLIENT_HOME_PATH      /
//	AUTHCLIENT_LOGIN_PAGE     /login
//	AUTHCLIENT_TIMEOUT        10s
//	AUTHCLIENT_PREFETCH_CSRF  false
//	AUTHCLIENT_LOG_LEVEL      info
//	AUTHCLIENT_LOG_FORMAT     json
//
// Unlike a process-wide cache, every call returns a fresh value; callers own
// the Config and pass it down explicitly.
package config
