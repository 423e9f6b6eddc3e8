// Package csrf manages the anti-forgery token of a double-submit cookie
// scheme from the client side.
//
// The backend issues the token in a client-readable cookie (XSRF-TOKEN for
// Laravel Sanctum) and expects it to be mirrored into a request header on
// every state-changing request. The Manager reads the cookie through a
// CookieSource, caches it, and refreshes it by calling a FetchFunc that hits
// the token endpoint.
//
// # Lifecycle
//
// A token is either present or absent. It becomes absent when it was never
// fetched or after Invalidate, which the transport calls when the server
// answers 419. Ensure returns the present token or bootstraps a new one;
// Bootstrap fails with ErrUnavailable when the cookie is still missing after
// the endpoint was called.
//
//	tokens := csrf.New(csrf.NewJarSource(jar, baseURL), fetchToken)
//	token, err := tokens.Ensure(ctx, false)
//	if errors.Is(err, csrf.ErrUnavailable) {
//	    // the request cannot be sent
//	}
//
// No expiry is tracked locally; staleness is only discovered through a 419.
//
// # Concurrency
//
// Concurrent bootstraps are collapsed into a single network call with
// golang.org/x/sync/singleflight. Every caller gets the shared result; a
// caller whose context is cancelled stops waiting without cancelling the
// shared call.
package csrf
