package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authclient/pkg/auth"
	"github.com/dmitrymomot/authclient/pkg/session"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, target string, loggedIn bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	store := session.New()
	if loggedIn {
		store.SetUser(userA)
	}
	req = req.WithContext(session.WithStore(req.Context(), store))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	h := auth.RequireAuth("/login")(okHandler)

	rec := serve(h, "/dashboard", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(h, "/dashboard/reports?year=2024", false)
	assert.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	assert.NoError(t, err)
	assert.Equal(t, "/login", loc.Path)
	assert.Equal(t, "/dashboard/reports?year=2024", loc.Query().Get("redirect"))

	// no store in context counts as anonymous
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestGuestOnly(t *testing.T) {
	t.Parallel()

	h := auth.GuestOnly("/home")(okHandler)

	tests := []struct {
		name     string
		target   string
		loggedIn bool
		code     int
		location string
	}{
		{"anonymous passes", "/login", false, http.StatusOK, ""},
		{"authenticated goes home", "/login", true, http.StatusFound, "/home"},
		{"authenticated follows redirect", "/login?redirect=%2Fsettings", true, http.StatusFound, "/settings"},
		{"redirect to current path goes home", "/login?redirect=%2Flogin", true, http.StatusFound, "/home"},
		{"external redirect goes home", "/login?redirect=https%3A%2F%2Fevil.example.com", true, http.StatusFound, "/home"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.target, tt.loggedIn)
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
		})
	}
}

func TestRedirectTarget(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                     "/",
		"/dashboard":           "/dashboard",
		"/a?b=c":               "/a?b=c",
		"//evil.example.com":   "/",
		"/\\evil.example.com":  "/",
		"https://evil.example": "/",
		"dashboard":            "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, auth.RedirectTarget(url.Values{"redirect": {in}}), in)
	}
	assert.Equal(t, "/", auth.RedirectTarget(nil))
}
