// Package sanctumtest provides an in-process fake of a Laravel Sanctum SPA
// backend for tests: a session cookie, a double-submit XSRF-TOKEN cookie,
// login, logout and the current-user endpoint.
package sanctumtest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	SessionCookie = "authclient_session"
	TokenCookie   = "XSRF-TOKEN"
	TokenHeader   = "X-XSRF-TOKEN"

	CSRFPath   = "/sanctum/csrf-cookie"
	LoginPath  = "/auth/login"
	LogoutPath = "/auth/logout"
	UserPath   = "/api/user"
)

// Account is a user that can log in.
type Account struct {
	ID       any
	Name     string
	Email    string
	Password string
}

// Recorded is one request as the server saw it.
type Recorded struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

type failure struct {
	status int
	body   any
}

type sess struct {
	token  string
	userID string
}

// Server is a running fake backend. All methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	accounts map[string]Account
	sessions map[string]*sess
	requests []Recorded
	failures map[string][]failure
}

// New starts a server knowing the given accounts. Close it when done.
func New(accounts ...Account) *Server {
	s := &Server{
		accounts: make(map[string]Account),
		sessions: make(map[string]*sess),
		failures: make(map[string][]failure),
	}
	for _, a := range accounts {
		s.accounts[a.Email] = a
	}

	r := chi.NewRouter()
	r.Use(s.record, s.injectFailures, s.verifyToken)
	r.Get(CSRFPath, s.csrfCookie)
	r.Post(LoginPath, s.login)
	r.Post(LogoutPath, s.logout)
	r.Get(UserPath, s.user)
	r.Post("/api/echo", s.echo)
	r.Get("/api/echo", s.echo)
	r.Get("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// Fail makes the next request to method and path answer status with body
// (JSON-encoded when not nil). Calls queue up.
func (s *Server) Fail(method, path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// ExpireTokens rotates the server-side token of every session, so the next
// mutating request answers 419.
func (s *Server) ExpireTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ss := range s.sessions {
		ss.token = uuid.NewString()
	}
}

// ExpireSessions forgets every session, so authenticated calls answer 401.
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*sess)
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.requests))
	copy(out, s.requests)
	return out
}

// Count returns how many requests hit method and path.
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

// Reset forgets recorded requests.
func (s *Server) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		queue := s.failures[key]
		var f *failure
		if len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if f != nil {
			writeJSON(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// verifyToken rejects mutating requests whose header does not match the
// token of their session.
func (s *Server) verifyToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		ss := s.session(r)
		header := r.Header.Get(TokenHeader)
		s.mu.Lock()
		ok := ss != nil && header != "" && header == ss.token
		s.mu.Unlock()
		if !ok {
			writeJSON(w, 419, map[string]string{"message": "CSRF token mismatch."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) csrfCookie(w http.ResponseWriter, r *http.Request) {
	ss, id := s.session(r), ""
	s.mu.Lock()
	if ss == nil {
		id = uuid.NewString()
		ss = &sess{}
		s.sessions[id] = ss
	}
	ss.token = uuid.NewString() + "=="
	token := ss.token
	s.mu.Unlock()

	if id != "" {
		http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: id, Path: "/", HttpOnly: true})
	}
	setToken(w, token)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.Unmarshal(bodyOf(r), &in)

	errs := map[string][]string{}
	if in.Email == "" {
		errs["email"] = append(errs["email"], "The email field is required.")
	}
	if in.Password == "" {
		errs["password"] = append(errs["password"], "The password field is required.")
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The given data was invalid.",
			"errors":  errs,
		})
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[in.Email]
	s.mu.Unlock()
	if !ok || acc.Password != in.Password {
		msg := "These credentials do not match our records."
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": msg,
			"errors":  map[string][]string{"email": {msg}},
		})
		return
	}

	ss := s.session(r)
	s.mu.Lock()
	ss.userID = in.Email
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	ss := s.session(r)
	s.mu.Lock()
	ss.userID = ""
	ss.token = uuid.NewString() + "=="
	token := ss.token
	s.mu.Unlock()

	setToken(w, token)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) user(w http.ResponseWriter, r *http.Request) {
	ss := s.session(r)
	s.mu.Lock()
	var acc Account
	ok := false
	if ss != nil && ss.userID != "" {
		acc, ok = s.accounts[ss.userID]
	}
	s.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Unauthenticated."})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    acc.ID,
		"name":  acc.Name,
		"email": acc.Email,
	})
}

func (s *Server) echo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"method": r.Method,
		"body":   json.RawMessage(orNull(bodyOf(r))),
	})
}

func (s *Server) session(r *http.Request) *sess {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[c.Value]
}

func setToken(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: url.QueryEscape(token), Path: "/"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	if v == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func bodyOf(r *http.Request) []byte {
	b, _ := io.ReadAll(r.Body)
	return b
}

func orNull(b []byte) []byte {
	if len(b) == 0 {
		return []byte("null")
	}
	return b
}
