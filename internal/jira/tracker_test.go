package jira

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testToken        = "YWxpY2U6c2VjcmV0" // alice:secret
	testCookieName   = "JSESSIONID"
	testCookieValue  = "abc123"
	testLoginSuccess = `{"session": {"name": "JSESSIONID", "value": "abc123"}, "loginInfo": {"loginCount": 3}}`
)

// fakeTracker is an httptest server speaking a small subset of the tracker API.
// Handlers registered with handle receive only requests carrying the session cookie.
type fakeTracker struct {
	*httptest.Server
	t   *testing.T
	mux *http.ServeMux

	mu   sync.Mutex
	hits map[string]int
}

func newFakeTracker(t *testing.T) *fakeTracker {
	t.Helper()

	ft := &fakeTracker{t: t, mux: http.NewServeMux(), hits: make(map[string]int)}
	ft.mux.HandleFunc("/rest/auth/1/session", func(w http.ResponseWriter, r *http.Request) {
		ft.count(r)
		assert.Equal(t, http.MethodPost, r.Method)

		var body AuthRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, AuthRequest{Username: "alice", Password: "secret"}, body)

		w.Write([]byte(testLoginSuccess)) // nolint:errcheck
	})
	ft.Server = httptest.NewServer(ft.mux)
	t.Cleanup(ft.Close)
	return ft
}

func (ft *fakeTracker) count(r *http.Request) {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.hits[r.Method+" "+r.URL.Path]++
}

// Hits returns how often method and path were requested.
func (ft *fakeTracker) Hits(method, path string) int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.hits[method+" "+path]
}

// Total returns the number of requests served.
func (ft *fakeTracker) Total() int {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	n := 0
	for _, c := range ft.hits {
		n += c
	}
	return n
}

// handle registers an authenticated handler for pattern.
func (ft *fakeTracker) handle(pattern string, h http.HandlerFunc) {
	ft.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		ft.count(r)
		cookie, err := r.Cookie(testCookieName)
		if !assert.NoError(ft.t, err, "request without session cookie") || cookie.Value != testCookieValue {
			http.Error(w, `{"errorMessages": ["You are not authenticated"]}`, http.StatusUnauthorized)
			return
		}
		assert.Equal(ft.t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))
		h(w, r)
	})
}

// reply returns a handler writing status and body.
func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body)) // nolint:errcheck
	}
}

func newTestSession(t *testing.T, ft *fakeTracker) *Session {
	t.Helper()

	s, err := NewSession(context.Background(), testToken, ft.URL, WithHTTPClient(ft.Client()))
	require.NoError(t, err)
	return s
}
