package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/atlanticproxy/atlantic/internal/sessions"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method string
	Path   string
	Query  map[string][]string
	Header http.Header
	Body   string
}

// testBackend records every request it serves.
type testBackend struct {
	*httptest.Server
	mux *http.ServeMux

	mu       sync.Mutex
	requests []capturedRequest
}

func newTestBackend(t *testing.T) *testBackend {
	t.Helper()

	b := &testBackend{mux: http.NewServeMux()}
	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.requests = append(b.requests, capturedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   string(body),
		})
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.Close)

	return b
}

func (b *testBackend) handle(pattern string, status int, body any) {
	b.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	})
}

func (b *testBackend) last(t *testing.T) capturedRequest {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.requests)
	return b.requests[len(b.requests)-1]
}

func (b *testBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if raw, ok := body.(string); ok {
		io.WriteString(w, raw)
		return
	}
	json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, backend *testBackend, opts ...Option) (*Client, *sessions.MemoryStore) {
	t.Helper()
	store := sessions.NewMemoryStore()
	session := sessions.NewSession(store)
	c := NewClient(backend.URL, append([]Option{WithSession(session)}, opts...)...)
	return c, store
}
