package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/dmitrymomot/authclient/pkg/csrf"
)

var (
	// ErrValidation is a 422 carrying field errors
	ErrValidation = errors.New("transport.validation_failed")

	// ErrUnauthenticated is a 401; the session store was cleared before it surfaced
	ErrUnauthenticated = errors.New("transport.unauthenticated")

	// ErrCSRFMismatch is a 419; the token was invalidated before it surfaced.
	// Callers may resubmit once.
	ErrCSRFMismatch = errors.New("transport.csrf_mismatch")

	// ErrCSRFUnavailable means no token could be obtained for a mutating request
	ErrCSRFUnavailable = csrf.ErrUnavailable

	// ErrNetwork is a transport failure without a response
	ErrNetwork = errors.New("transport.network")

	// ErrUnexpected is any other status or an unusable response shape
	ErrUnexpected = errors.New("transport.unexpected")

	// ErrInvalidRequest is a request the transport refuses to build
	ErrInvalidRequest = errors.New("transport.invalid_request")
)

// DefaultMessage is shown when the server did not provide a usable message.
const DefaultMessage = "An unexpected error occurred. Please try again."

// Error is returned for every failed call that reached the dispatch step.
type Error struct {
	// Kind is one of the sentinel errors above.
	Kind error

	Method string
	Path   string

	// Status is zero for network errors.
	Status int

	// Message is the server's "message" field, if any.
	Message string

	// Fields holds 422 field errors keyed by field name.
	Fields map[string][]string

	Body []byte

	// Err is the underlying cause for network and decoding failures.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s %s", e.Method, e.Path)
	if e.Status != 0 {
		msg += fmt.Sprintf(": %d", e.Status)
	}
	msg += ": " + e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Retryable reports whether resubmitting the request may succeed.
func (e *Error) Retryable() bool {
	return e.Kind == ErrCSRFMismatch
}

// errorFromResponse maps a >= 400 response to a typed error.
func errorFromResponse(req *http.Request, status int, body []byte) *Error {
	e := &Error{
		Method: req.Method,
		Path:   req.URL.Path,
		Status: status,
		Body:   body,
	}

	var payload struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	_ = json.Unmarshal(body, &payload)
	e.Message = payload.Message

	switch status {
	case http.StatusUnauthorized:
		e.Kind = ErrUnauthenticated
	case StatusCSRFMismatch:
		e.Kind = ErrCSRFMismatch
	case http.StatusUnprocessableEntity:
		e.Kind = ErrValidation
		e.Fields = payload.Errors
	default:
		e.Kind = ErrUnexpected
	}
	return e
}

// IsRetryable reports whether err is a retryable transport error.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable()
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// FieldError is one message for one field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors flattens the field errors of a 422, ordered by field name.
// It returns nil for any other error.
func FieldErrors(err error) []FieldError {
	var e *Error
	if !errors.As(err, &e) || e.Kind != ErrValidation || len(e.Fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []FieldError
	for _, name := range names {
		for _, msg := range e.Fields[name] {
			out = append(out, FieldError{Field: name, Message: msg})
		}
	}
	return out
}

// Message returns the server-provided message of err, or DefaultMessage.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return DefaultMessage
}
