package transport

import (
	"net/http"
	"strings"

	"github.com/dmitrymomot/authclient/pkg/clientip"
)

// Capabilities describes the execution context a Transport runs in.
// It is fixed at construction; the transport never sniffs its environment.
type Capabilities struct {
	// HasAmbientCookieJar is true when the context owns a cookie jar that is
	// attached to every request (a CLI process, a long-lived client). When
	// false, no jar cookies are sent.
	HasAmbientCookieJar bool

	// Inbound is set when the transport acts on behalf of another request;
	// its origin and cookies are forwarded on every outbound call.
	Inbound *InboundContext
}

// InboundContext is the identity of the request being served.
type InboundContext struct {
	Origin string
	Cookie string

	// ClientIP is the browser address, passed on in X-Forwarded-For.
	ClientIP string
}

// Browser returns the capabilities of a standalone client with its own jar.
func Browser() Capabilities {
	return Capabilities{HasAmbientCookieJar: true}
}

// Forwarding returns the capabilities of a context serving r.
func Forwarding(r *http.Request) Capabilities {
	return Capabilities{Inbound: InboundFromRequest(r)}
}

// InboundFromRequest captures the origin and cookies of r. The scheme honours
// X-Forwarded-Proto so a TLS-terminating proxy does not downgrade the origin.
func InboundFromRequest(r *http.Request) *InboundContext {
	if r == nil {
		return nil
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}

	return &InboundContext{
		Origin:   scheme + "://" + r.Host,
		Cookie:   strings.Join(r.Header.Values("Cookie"), "; "),
		ClientIP: clientip.FromRequest(r),
	}
}
