package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/atlanticproxy/atlantic/internal/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestHeaders(t *testing.T) {
	backend := newTestBackend(t)
	backend.handle("/echo", http.StatusOK, `{}`)

	c, _ := newTestClient(t, backend)
	ctx := context.Background()

	t.Run("anonymous", func(t *testing.T) {
		_, err := c.Request(ctx, http.MethodGet, "/echo", nil, nil)
		require.NoError(t, err)

		req := backend.last(t)
		assert.Empty(t, req.Header.Get("Authorization"))
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.NotEmpty(t, req.Header.Get("X-Client"))
		assert.Contains(t, req.Header.Get("User-Agent"), "atlantic-cli/")
	})

	t.Run("bearer token", func(t *testing.T) {
		require.NoError(t, c.SetToken("tok-123"))

		_, err := c.Request(ctx, http.MethodGet, "/echo", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-123", backend.last(t).Header.Get("Authorization"))
	})

	t.Run("caller headers override content type", func(t *testing.T) {
		_, err := c.Request(ctx, http.MethodPost, "/echo", "plain", map[string]string{
			"Content-Type": "text/plain",
			"X-Trace":      "abc",
		})
		require.NoError(t, err)

		req := backend.last(t)
		assert.Equal(t, "text/plain", req.Header.Get("Content-Type"))
		assert.Equal(t, "abc", req.Header.Get("X-Trace"))
		assert.Equal(t, "Bearer tok-123", req.Header.Get("Authorization"))
	})
}

func TestBearerFollowsCurrentToken(t *testing.T) {
	backend := newTestBackend(t)
	backend.handle("/status", http.StatusOK, `{"connected":true}`)

	c, _ := newTestClient(t, backend)
	ctx := context.Background()

	for _, token := range []string{"first", "second", ""} {
		require.NoError(t, c.SetToken(token))
		_, err := c.GetStatus(ctx)
		require.NoError(t, err)

		expected := ""
		if len(token) > 0 {
			expected = "Bearer " + token
		}
		assert.Equal(t, expected, backend.last(t).Header.Get("Authorization"))
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	backend := newTestBackend(t)
	backend.handle("/status", http.StatusUnauthorized, `{"error":"token expired"}`)

	calls := 0
	c, store := newTestClient(t, backend, WithUnauthorizedHandler(func() { calls++ }))
	require.NoError(t, c.SetToken("stale"))

	status, err := c.GetStatus(context.Background())

	assert.Nil(t, status)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "token expired", apiErr.Message)

	assert.False(t, c.IsAuthenticated())
	_, err = store.Get(sessions.KeyAuthToken)
	assert.ErrorIs(t, err, sessions.ErrNotFound)
	assert.Equal(t, 1, calls)
}

func TestUnauthorizedWithoutTokenStillNotifies(t *testing.T) {
	backend := newTestBackend(t)
	backend.handle("/api/auth/me", http.StatusUnauthorized, nil)

	calls := 0
	c, _ := newTestClient(t, backend)
	c.SetUnauthorizedHandler(func() { calls++ })

	_, err := c.GetMe(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, calls)
}

func TestRawRequestReturnsUnauthorizedResponse(t *testing.T) {
	backend := newTestBackend(t)
	backend.handle("/anything", http.StatusUnauthorized, nil)

	c, _ := newTestClient(t, backend)
	require.NoError(t, c.SetToken("tok"))

	resp, err := c.Request(context.Background(), http.MethodGet, "/anything", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.False(t, c.IsAuthenticated())
}

func TestTransportErrorIsWrapped(t *testing.T) {
	backend := newTestBackend(t)
	url := backend.URL
	backend.Close()

	c := NewClient(url)
	_, err := c.GetStatus(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/status")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestNoRetries(t *testing.T) {
	backend := newTestBackend(t)
	backend.handle("/status", http.StatusServiceUnavailable, nil)

	c, _ := newTestClient(t, backend)
	_, err := c.GetStatus(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, backend.count())
}

func TestAPIErrorFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		expected string
	}{
		{"backend message", http.StatusBadRequest, `{"error":"bad things"}`, "bad things"},
		{"empty body", http.StatusInternalServerError, nil, "Failed to fetch status"},
		{"non json body", http.StatusBadGateway, `<html>gateway</html>`, "Failed to fetch status"},
		{"empty error field", http.StatusBadRequest, `{"error":""}`, "Failed to fetch status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newTestBackend(t)
			backend.handle("/status", tt.status, tt.body)

			c, _ := newTestClient(t, backend)
			_, err := c.GetStatus(context.Background())

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.expected, apiErr.Error())
			assert.False(t, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestCancelledContext(t *testing.T) {
	backend := newTestBackend(t)
	backend.handle("/status", http.StatusOK, `{}`)

	c, _ := newTestClient(t, backend)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetStatus(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaleUnauthorizedKeepsFreshToken(t *testing.T) {
	backend := newTestBackend(t)

	entered := make(chan struct{})
	release := make(chan struct{})
	backend.mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		writeJSON(w, http.StatusUnauthorized, `{"error":"token expired"}`)
	})

	calls := 0
	c, store := newTestClient(t, backend, WithUnauthorizedHandler(func() { calls++ }))
	require.NoError(t, c.SetToken("T0"))

	done := make(chan error, 1)
	go func() {
		_, err := c.GetStatus(context.Background())
		done <- err
	}()

	<-entered
	require.NoError(t, c.SetToken("T1"))
	close(release)

	err := <-done
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Bearer T0", backend.last(t).Header.Get("Authorization"))

	assert.Equal(t, "T1", c.Session().Token())
	persisted, err := store.Get(sessions.KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "T1", persisted)
	assert.Equal(t, 0, calls)
}
