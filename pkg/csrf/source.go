package csrf

import (
	"net/http"
	"net/url"
)

// CookieSource exposes the cookies visible to the current execution context.
type CookieSource interface {
	Cookie(name string) (string, bool)
}

// CookieSourceFunc adapts a function to CookieSource.
type CookieSourceFunc func(name string) (string, bool)

func (f CookieSourceFunc) Cookie(name string) (string, bool) {
	return f(name)
}

// JarSource reads cookies the jar would send to URL.
type JarSource struct {
	Jar http.CookieJar
	URL *url.URL
}

// NewJarSource returns a source over jar for requests to u.
func NewJarSource(jar http.CookieJar, u *url.URL) JarSource {
	return JarSource{Jar: jar, URL: u}
}

func (s JarSource) Cookie(name string) (string, bool) {
	if s.Jar == nil || s.URL == nil {
		return "", false
	}
	for _, c := range s.Jar.Cookies(s.URL) {
		if c.Name == name && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// decodeValue mirrors what a browser-side cookie reader returns: backends
// URL-encode the token (Laravel encodes "=" as %3D), the header needs it raw.
func decodeValue(v string) string {
	if d, err := url.PathUnescape(v); err == nil {
		return d
	}
	return v
}
