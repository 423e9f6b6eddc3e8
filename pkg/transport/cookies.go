package transport

import (
	"net/http"
	"strings"
	"sync"
)

// forwardedCookies is the cookie view of a forwarding context: the inbound
// Cookie header, plus whatever the backend set during this context (a fresh
// CSRF cookie after a bootstrap, a rotated session cookie).
type forwardedCookies struct {
	mu      sync.Mutex
	inbound string
	updates map[string]cookieUpdate
	order   []string
	raw     map[string]*http.Cookie
}

type cookieUpdate struct {
	value   string
	removed bool
}

func newForwardedCookies(header string) *forwardedCookies {
	return &forwardedCookies{
		inbound: header,
		updates: make(map[string]cookieUpdate),
		raw:     make(map[string]*http.Cookie),
	}
}

// Cookie implements csrf.CookieSource.
func (f *forwardedCookies) Cookie(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if u, ok := f.updates[name]; ok {
		if u.removed || u.value == "" {
			return "", false
		}
		return u.value, true
	}
	for _, c := range parseCookieHeader(f.inbound) {
		if c.Name == name && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// Header returns the Cookie header to forward. Without updates it is the
// inbound header verbatim.
func (f *forwardedCookies) Header() string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.updates) == 0 {
		return f.inbound
	}

	seen := make(map[string]bool, len(f.updates))
	parts := make([]string, 0, len(f.updates)+4)
	for _, c := range parseCookieHeader(f.inbound) {
		if u, ok := f.updates[c.Name]; ok {
			seen[c.Name] = true
			if u.removed {
				continue
			}
			c.Value = u.value
		}
		parts = append(parts, c.Name+"="+c.Value)
	}
	for _, name := range f.order {
		if seen[name] {
			continue
		}
		if u := f.updates[name]; !u.removed {
			parts = append(parts, name+"="+u.value)
		}
	}
	return strings.Join(parts, "; ")
}

// Capture records cookies set by a backend response.
func (f *forwardedCookies) Capture(cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range cookies {
		if _, ok := f.updates[c.Name]; !ok {
			f.order = append(f.order, c.Name)
		}
		f.updates[c.Name] = cookieUpdate{
			value:   c.Value,
			removed: c.MaxAge < 0 || c.Value == "",
		}
		cp := *c
		f.raw[c.Name] = &cp
	}
}

// setCookies returns the captured cookies in the order they were first set.
func (f *forwardedCookies) setCookies() []*http.Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*http.Cookie, 0, len(f.order))
	for _, name := range f.order {
		cp := *f.raw[name]
		out = append(out, &cp)
	}
	return out
}

func parseCookieHeader(header string) []*http.Cookie {
	if header == "" {
		return nil
	}
	// http.ParseCookie rejects the whole line on one bad pair; a browser
	// would still send the rest, so parse pair by pair.
	var out []*http.Cookie
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, "=")
		if !ok || name == "" {
			continue
		}
		out = append(out, &http.Cookie{Name: strings.TrimSpace(name), Value: strings.TrimSpace(value)})
	}
	return out
}
