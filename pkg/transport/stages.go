package transport

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/dmitrymomot/authclient/pkg/clientip"
	"github.com/dmitrymomot/authclient/pkg/requestid"
)

// Stage prepares an outbound request. Stages run in order; the first error
// aborts the call before anything is sent.
type Stage struct {
	Name  string
	Apply func(ctx context.Context, req *http.Request) error
}

// IsMutating reports whether method changes server state and therefore
// carries the anti-forgery header.
func IsMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// credentialsStage attaches the ambient jar. Without a jar no cookies leave
// the process, which is the "omit" credential mode.
func (t *Transport) credentialsStage() Stage {
	return Stage{Name: "credentials", Apply: func(_ context.Context, req *http.Request) error {
		if t.jar == nil {
			return nil
		}
		for _, c := range t.jar.Cookies(req.URL) {
			req.AddCookie(c)
		}
		return nil
	}}
}

// forwardingStage makes the call carry the identity of the inbound request.
func (t *Transport) forwardingStage() Stage {
	return Stage{Name: "forwarding", Apply: func(_ context.Context, req *http.Request) error {
		if t.forwarded == nil {
			return nil
		}
		if t.caps.Inbound.Origin != "" {
			req.Header.Set("Origin", t.caps.Inbound.Origin)
		}
		clientip.AppendForwardedFor(req.Header, t.caps.Inbound.ClientIP)
		if cookie := t.forwarded.Header(); cookie != "" {
			if prev := req.Header.Get("Cookie"); prev != "" {
				cookie = prev + "; " + cookie
			}
			req.Header.Set("Cookie", cookie)
		}
		return nil
	}}
}

func (t *Transport) headersStage() Stage {
	return Stage{Name: "headers", Apply: func(ctx context.Context, req *http.Request) error {
		req.Header.Set("Accept", "application/json")
		for k, vs := range t.headers {
			if req.Header.Get(k) != "" {
				continue
			}
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		requestid.Inject(ctx, req.Header)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
		return nil
	}}
}

// csrfStage mirrors the token into the anti-forgery header on mutating calls.
// A token that cannot be obtained fails the call.
func (t *Transport) csrfStage() Stage {
	return Stage{Name: "csrf", Apply: func(ctx context.Context, req *http.Request) error {
		if !IsMutating(req.Method) {
			return nil
		}
		token, err := t.tokens.Ensure(ctx, false)
		if err != nil {
			return err
		}
		req.Header.Set(t.csrfHeader, token)
		return nil
	}}
}
