package authclient

import (
	"context"
	"net/http"
	"sync"
)

// RedirectNavigator records navigations requested while serving one inbound
// request so the handler can answer with a redirect afterwards.
type RedirectNavigator struct {
	mu     sync.Mutex
	target string
}

// NewRedirectNavigator creates a navigator with no pending target.
func NewRedirectNavigator() *RedirectNavigator {
	return &RedirectNavigator{}
}

// Navigate records path. The last call wins.
func (n *RedirectNavigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.target = path
}

// Target returns the pending navigation, if any.
func (n *RedirectNavigator) Target() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target, n.target != ""
}

// Redirect answers r with the pending navigation and reports whether it did.
// HTMX requests (not boosted ones, which follow redirects) get an HX-Redirect
// header, others a 303 See Other.
func (n *RedirectNavigator) Redirect(w http.ResponseWriter, r *http.Request) bool {
	target, ok := n.Target()
	if !ok {
		return false
	}
	if IsHTMX(r) && !IsHTMXBoosted(r) {
		w.Header().Set(HXRedirect, target)
		w.WriteHeader(http.StatusOK)
		return true
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
	return true
}
