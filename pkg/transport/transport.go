package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/publicsuffix"

	"github.com/dmitrymomot/authclient/pkg/csrf"
	"github.com/dmitrymomot/authclient/pkg/logger"
	"github.com/dmitrymomot/authclient/pkg/session"
)

const (
	DefaultCSRFPath   = "/sanctum/csrf-cookie"
	DefaultCSRFHeader = "X-XSRF-TOKEN"
	DefaultTimeout    = 10 * time.Second

	maxBodySize = 4 << 20
)

// SessionClearer receives the session effects of responses.
// *session.Store implements it.
type SessionClearer interface {
	Apply(event session.Event, u *session.User)
}

// Transport sends API requests for one execution context. It owns the CSRF
// token manager and, in an ambient context, the cookie jar; nothing in it is
// shared with other contexts.
type Transport struct {
	baseURL *url.URL
	caps    Capabilities

	base      *http.Client
	client    *http.Client
	jar       http.CookieJar
	forwarded *forwardedCookies

	session SessionClearer
	tokens  *csrf.Manager

	csrfPath   string
	csrfCookie string
	csrfHeader string
	headers    http.Header
	timeout    time.Duration

	stages       []Stage
	extraStages  []Stage
	interceptors []Interceptor

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// New creates a transport for baseURL. store may be nil when no store
// should be cleared on 401.
func New(baseURL string, caps Capabilities, store SessionClearer, opts ...Option) (*Transport, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: base url must be absolute http(s): %q", ErrInvalidRequest, baseURL)
	}

	t := &Transport{
		baseURL:      u,
		caps:         caps,
		base:         http.DefaultClient,
		session:      store,
		csrfPath:     DefaultCSRFPath,
		csrfCookie:   csrf.DefaultCookieName,
		csrfHeader:   DefaultCSRFHeader,
		headers:      http.Header{"X-Requested-With": []string{"XMLHttpRequest"}},
		timeout:      DefaultTimeout,
		interceptors: DefaultInterceptors(),
		logger:       slog.Default(),
		tracer:       otel.Tracer("github.com/dmitrymomot/authclient/pkg/transport"),
	}
	for _, opt := range opts {
		opt(t)
	}

	if caps.HasAmbientCookieJar {
		if t.jar == nil {
			jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
			if err != nil {
				return nil, err
			}
			t.jar = jar
		}
	} else {
		t.jar = nil
	}
	if caps.Inbound != nil {
		t.forwarded = newForwardedCookies(caps.Inbound.Cookie)
	}

	// Cookies are attached by the credentials stage, so the client itself
	// carries no jar.
	client := *t.base
	client.Jar = nil
	client.Timeout = t.timeout
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	t.client = &client

	var source csrf.CookieSource
	switch {
	case t.jar != nil:
		source = csrf.NewJarSource(t.jar, t.baseURL)
	case t.forwarded != nil:
		source = t.forwarded
	}
	t.tokens = csrf.New(source, t.fetchToken,
		csrf.WithCookieName(t.csrfCookie),
		csrf.WithLogger(t.logger),
		csrf.WithBootstrapHook(t.metrics.observeBootstrap),
	)

	// Cookies are read after the csrf stage: a bootstrap it triggers sets
	// the session and token cookies this request has to carry.
	t.stages = append([]Stage{
		t.headersStage(),
		t.csrfStage(),
		t.credentialsStage(),
		t.forwardingStage(),
	}, t.extraStages...)

	return t, nil
}

// Tokens returns the CSRF token manager of this context.
func (t *Transport) Tokens() *csrf.Manager {
	return t.tokens
}

// Jar returns the ambient cookie jar, or nil in a forwarding context.
func (t *Transport) Jar() http.CookieJar {
	return t.jar
}

// BaseURL returns a copy of the API base URL.
func (t *Transport) BaseURL() *url.URL {
	u := *t.baseURL
	return &u
}

// ForwardedCookies returns the cookies to hand back to the inbound caller:
// every cookie the backend set during this context.
func (t *Transport) ForwardedCookies() []*http.Cookie {
	if t.forwarded == nil {
		return nil
	}
	return t.forwarded.setCookies()
}

// Do runs req through the pipeline. Responses with status >= 400 return
// both the response and an *Error; state effects have already been applied.
func (t *Transport) Do(ctx context.Context, r Request) (*Response, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := t.tracer.Start(ctx, "authclient "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", r.Path),
		),
	)
	defer span.End()

	req, err := t.newRequest(ctx, method, r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	for _, st := range t.stages {
		if err := st.Apply(ctx, req); err != nil {
			t.logger.WarnContext(ctx, "request stage failed",
				logger.Component("transport"),
				slog.String("stage", st.Name),
				logger.Method(method),
				logger.Path(req.URL.Path),
				logger.Error(err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		t.metrics.observeRequest(method, 0, time.Since(start))
		t.logger.WarnContext(ctx, "request failed",
			logger.Component("transport"),
			logger.Method(method),
			logger.Path(req.URL.Path),
			logger.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &Error{Kind: ErrNetwork, Method: method, Path: req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	elapsed := time.Since(start)
	t.metrics.observeRequest(method, resp.StatusCode, elapsed)
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	t.storeCookies(req.URL, resp.Cookies())
	t.applyEffects(ctx, intercept(t.interceptors, req, resp))

	t.logger.DebugContext(ctx, "request completed",
		logger.Component("transport"),
		logger.Method(method),
		logger.Path(req.URL.Path),
		logger.Status(resp.StatusCode),
		logger.Duration(elapsed),
	)

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Body: body}
	if readErr != nil {
		span.SetStatus(codes.Error, readErr.Error())
		return out, &Error{Kind: ErrNetwork, Method: method, Path: req.URL.Path, Status: resp.StatusCode, Err: readErr}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		e := errorFromResponse(req, resp.StatusCode, body)
		span.SetStatus(codes.Error, e.Kind.Error())
		return out, e
	}
	return out, nil
}

// Get sends a GET and decodes the JSON response into out.
func (t *Transport) Get(ctx context.Context, path string, out any) (*Response, error) {
	return t.call(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON and decodes the response into out.
func (t *Transport) Post(ctx context.Context, path string, body, out any) (*Response, error) {
	return t.call(ctx, http.MethodPost, path, body, out)
}

func (t *Transport) Put(ctx context.Context, path string, body, out any) (*Response, error) {
	return t.call(ctx, http.MethodPut, path, body, out)
}

func (t *Transport) Patch(ctx context.Context, path string, body, out any) (*Response, error) {
	return t.call(ctx, http.MethodPatch, path, body, out)
}

func (t *Transport) Delete(ctx context.Context, path string, out any) (*Response, error) {
	return t.call(ctx, http.MethodDelete, path, nil, out)
}

func (t *Transport) call(ctx context.Context, method, path string, body, out any) (*Response, error) {
	resp, err := t.Do(ctx, Request{Method: method, Path: path, Body: body})
	if err != nil {
		return resp, err
	}
	if out == nil || resp.IsRedirect() {
		return resp, nil
	}
	if err := resp.Decode(out); err != nil {
		return resp, &Error{
			Kind:   ErrUnexpected,
			Method: method,
			Path:   path,
			Status: resp.Status,
			Body:   resp.Body,
			Err:    err,
		}
	}
	return resp, nil
}

// fetchToken calls the token endpoint. The cookie it sets is stored by Do.
func (t *Transport) fetchToken(ctx context.Context) error {
	_, err := t.Do(ctx, Request{Method: http.MethodGet, Path: t.csrfPath})
	return err
}

func (t *Transport) newRequest(ctx context.Context, method string, r Request) (*http.Request, error) {
	u, err := t.resolve(r.Path)
	if err != nil {
		return nil, err
	}
	if len(r.Query) > 0 {
		q := u.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, errors.Join(ErrInvalidRequest, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// resolve joins path onto the base URL. Absolute URLs are refused so
// credentials never leave for another host.
func (t *Transport) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.Join(ErrInvalidRequest, err)
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, fmt.Errorf("%w: absolute url %q", ErrInvalidRequest, path)
	}

	u := *t.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.TrimPrefix(ref.Path, "/")
	u.RawPath = ""
	u.RawQuery = ref.RawQuery
	u.Fragment = ""
	return &u, nil
}

func (t *Transport) storeCookies(u *url.URL, cookies []*http.Cookie) {
	if len(cookies) == 0 {
		return
	}
	if t.jar != nil {
		t.jar.SetCookies(u, cookies)
	}
	if t.forwarded != nil {
		t.forwarded.Capture(cookies)
	}
}

func (t *Transport) applyEffects(ctx context.Context, fx Effects) {
	if fx.ClearSession && t.session != nil {
		t.session.Apply(session.EventUnauthorized, nil)
		t.logger.WarnContext(ctx, "session cleared by server",
			logger.Component("transport"),
			logger.Status(http.StatusUnauthorized),
		)
	}
	if fx.InvalidateToken {
		t.tokens.Invalidate()
		t.logger.WarnContext(ctx, "csrf token invalidated by server",
			logger.Component("transport"),
			logger.Status(StatusCSRFMismatch),
		)
	}
	t.metrics.observeEffects(fx)
}
