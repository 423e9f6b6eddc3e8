package clientip

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// Headers consulted by FromRequest, most specific first.
const (
	HeaderCFConnectingIP = "CF-Connecting-IP"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderRealIP         = "X-Real-IP"
)

// FromRequest returns the address of the browser behind r. Proxy headers
// win over RemoteAddr; X-Forwarded-For contributes its first valid entry.
// It returns "" when nothing parses.
func FromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	if ip := normalize(r.Header.Get(HeaderCFConnectingIP)); ip != "" {
		return ip
	}
	for entry := range strings.SplitSeq(r.Header.Get(HeaderForwardedFor), ",") {
		if ip := normalize(entry); ip != "" {
			return ip
		}
	}
	if ip := normalize(r.Header.Get(HeaderRealIP)); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// AppendForwardedFor adds ip to the X-Forwarded-For chain of h.
func AppendForwardedFor(h http.Header, ip string) {
	if ip = normalize(ip); ip == "" {
		return
	}
	if prev := h.Get(HeaderForwardedFor); prev != "" {
		ip = prev + ", " + ip
	}
	h.Set(HeaderForwardedFor, ip)
}

func normalize(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

type contextKey struct{}

// WithContext stores ip in ctx.
func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// FromContext returns the ip stored by WithContext or Middleware.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}

// Middleware resolves the client address once per request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), FromRequest(r))))
	})
}
