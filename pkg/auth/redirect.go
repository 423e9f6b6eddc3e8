package auth

import (
	"net/url"
	"strings"
)

// RedirectParam is the query parameter carrying the page to return to.
const RedirectParam = "redirect"

// RedirectTarget returns the redirect parameter of query when it is a local
// path, "/" otherwise.
func RedirectTarget(query url.Values) string {
	return redirectTarget(query, "/")
}

func redirectTarget(query url.Values, fallback string) string {
	if target := query.Get(RedirectParam); IsLocalPath(target) {
		return target
	}
	return fallback
}

// IsLocalPath reports whether p stays on the current origin: it starts with
// a single slash and carries no scheme or host.
func IsLocalPath(p string) bool {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	u, err := url.Parse(p)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
