// Package transport sends JSON API requests to a cookie-session backend on
// behalf of one execution context.
//
// A Transport is built with the Capabilities of the context it runs in,
// declared once at construction:
//
//   - Browser(): the context owns a cookie jar (a CLI process, a long-lived
//     client). Jar cookies are attached to every request and updated from
//     every response.
//   - Forwarding(r): the context serves an inbound request. Its Origin and
//     Cookie header are forwarded verbatim; cookies the backend sets during
//     the context are merged in and exposed through ForwardedCookies.
//
// # Pipeline
//
// Every call runs the same ordered stages: headers (Accept,
// X-Requested-With, X-Request-ID, trace context), csrf, which mirrors the
// token into X-XSRF-TOKEN on POST, PUT, PATCH and DELETE, then credentials
// and forwarding. Cookies are attached last, as a browser does when it sends
// the request, so a call that triggers a bootstrap carries the cookies the
// bootstrap set. The request is then dispatched without following
// redirects; 3xx responses are returned as data.
//
// Responses pass through interceptors before the caller sees them. A 401
// clears the session store and a 419 invalidates the CSRF token, whatever the
// endpoint and whatever the caller does with the error. Nothing is retried.
//
//	store := session.New()
//	tr, err := transport.New("https://api.example.com", transport.Browser(), store)
//	if err != nil {
//	    return err
//	}
//	var user session.User
//	if _, err := tr.Get(ctx, "/api/user", &user); err != nil {
//	    return err
//	}
//
// # Errors
//
// Failed calls return *Error with Kind set to one of ErrValidation,
// ErrUnauthenticated, ErrCSRFMismatch, ErrNetwork or ErrUnexpected, so
// errors.Is works on both the kind and the cause. FieldErrors flattens 422
// field errors and Message returns the server message or DefaultMessage.
// A mutating call that cannot obtain a token fails with ErrCSRFUnavailable
// before anything is sent.
//
// # Observability
//
// NewMetrics registers Prometheus collectors once per process; pass them to
// each Transport with WithMetrics. Spans are created with the global
// OpenTelemetry tracer unless WithTracer is given.
package transport
