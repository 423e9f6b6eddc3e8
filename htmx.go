package authclient

import "net/http"

// HTMX headers used when answering a navigation.
const (
	HXRequest  = "HX-Request"
	HXBoosted  = "HX-Boosted"
	HXRedirect = "HX-Redirect"
)

// IsHTMX checks if the request is an HTMX request
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HXRequest) == "true"
}

// IsHTMXBoosted checks if the request is an HTMX boosted request
func IsHTMXBoosted(r *http.Request) bool {
	return r.Header.Get(HXBoosted) == "true"
}
