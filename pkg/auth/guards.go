package auth

import (
	"net/http"
	"net/url"

	"github.com/dmitrymomot/authclient/pkg/session"
)

// RequireAuth lets authenticated requests through and sends anonymous ones to
// loginPath with the requested URI in the redirect parameter. The store is
// read from the request context; a request without one is anonymous.
func RequireAuth(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if loggedIn(r) {
				next.ServeHTTP(w, r)
				return
			}
			target := loginPath + "?" + url.Values{RedirectParam: {r.URL.RequestURI()}}.Encode()
			http.Redirect(w, r, target, http.StatusFound)
		})
	}
}

// GuestOnly lets anonymous requests through. Authenticated ones go to the
// redirect parameter when it is local and differs from the current path,
// to home otherwise.
func GuestOnly(home string) func(http.Handler) http.Handler {
	if !IsLocalPath(home) {
		home = "/"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !loggedIn(r) {
				next.ServeHTTP(w, r)
				return
			}
			target := home
			if to := r.URL.Query().Get(RedirectParam); IsLocalPath(to) && to != r.URL.Path {
				target = to
			}
			http.Redirect(w, r, target, http.StatusFound)
		})
	}
}

func loggedIn(r *http.Request) bool {
	store, ok := session.FromContext(r.Context())
	return ok && store.IsLoggedIn()
}
