package transport

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// Request is one API call relative to the transport base URL.
type Request struct {
	Method string
	// Path is resolved against the base URL and may carry a query string.
	Path  string
	Query url.Values
	// Body is encoded as JSON when non-nil.
	Body   any
	Header http.Header
}

// Response is a completed exchange. 3xx responses are returned as data;
// redirects are never followed.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals a JSON body into v. Empty bodies leave v untouched.
func (r *Response) Decode(v any) error {
	if r == nil || v == nil || len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// IsRedirect reports a 3xx status.
func (r *Response) IsRedirect() bool {
	return r != nil && r.Status >= 300 && r.Status < 400
}

// Location returns the redirect target, if any.
func (r *Response) Location() string {
	if r == nil {
		return ""
	}
	return r.Header.Get("Location")
}
