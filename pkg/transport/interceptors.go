package transport

import "net/http"

// StatusCSRFMismatch is the non-standard status Laravel uses for an expired
// or mismatched CSRF token ("Page Expired").
const StatusCSRFMismatch = 419

// Effects are the state mutations a response asks for.
type Effects struct {
	ClearSession    bool
	InvalidateToken bool
}

func (e Effects) merge(o Effects) Effects {
	return Effects{
		ClearSession:    e.ClearSession || o.ClearSession,
		InvalidateToken: e.InvalidateToken || o.InvalidateToken,
	}
}

// Interceptor inspects a response and returns the effects to apply.
// Interceptors are pure; the transport applies their combined effects before
// the result reaches the caller.
type Interceptor func(req *http.Request, resp *http.Response) Effects

// ClearOnUnauthorized clears the session on any 401, whatever the endpoint.
func ClearOnUnauthorized(_ *http.Request, resp *http.Response) Effects {
	return Effects{ClearSession: resp.StatusCode == http.StatusUnauthorized}
}

// InvalidateOnMismatch drops the cached token on a 419 so the next mutating
// call bootstraps a new one.
func InvalidateOnMismatch(_ *http.Request, resp *http.Response) Effects {
	return Effects{InvalidateToken: resp.StatusCode == StatusCSRFMismatch}
}

// DefaultInterceptors returns the built-in chain.
func DefaultInterceptors() []Interceptor {
	return []Interceptor{ClearOnUnauthorized, InvalidateOnMismatch}
}

func intercept(chain []Interceptor, req *http.Request, resp *http.Response) Effects {
	var fx Effects
	for _, ic := range chain {
		fx = fx.merge(ic(req, resp))
	}
	return fx
}
