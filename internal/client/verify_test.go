package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/atlanticproxy/atlantic/internal/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentVerifier(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantErr   string
		wantToken string
	}{
		{
			name:      "success stores token",
			status:    http.StatusOK,
			body:      `{"status":"success","token":"paid-token"}`,
			wantToken: "paid-token",
		},
		{
			name:    "declined",
			status:  http.StatusOK,
			body:    `{"status":"failed","error":"card declined","token":"ignored"}`,
			wantErr: "card declined",
		},
		{
			name:    "server error fallback",
			status:  http.StatusInternalServerError,
			body:    `{}`,
			wantErr: "Payment verification failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newTestBackend(t)
			backend.handle("GET /api/billing/verify/{reference}", tt.status, tt.body)

			session := sessions.NewSession(sessions.NewMemoryStore())
			verifier := NewPaymentVerifier(backend.URL, session)

			result, err := verifier.Verify(context.Background(), "ref-123")
			assert.Equal(t, "/api/billing/verify/ref-123", backend.last(t).Path)

			if len(tt.wantErr) > 0 {
				assert.EqualError(t, err, tt.wantErr)
				assert.False(t, session.IsAuthenticated())
				return
			}

			require.NoError(t, err)
			assert.True(t, result.IsSuccessful())
			assert.Equal(t, tt.wantToken, session.Token())
		})
	}
}

func TestPaymentVerifierRequiresReference(t *testing.T) {
	verifier := NewPaymentVerifier("", nil)
	_, err := verifier.Verify(context.Background(), " ")
	assert.Error(t, err)
}
