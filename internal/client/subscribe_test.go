package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/atlanticproxy/atlantic/internal/stream"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeToStatus(t *testing.T) {
	upgrader := websocket.Upgrader{}
	authHeaders := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		authHeaders <- r.Header.Get("Authorization")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"pong"}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"connected":true,"ip_address":"9.9.9.9","latency":12}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"killswitch","enabled":true}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"connected":false,"error":"upstream down"}`))

		// hold the connection until the client goes away
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	c := NewClient(server.URL)
	require.NoError(t, c.SetToken("ws-token"))

	statuses := make(chan models.ProxyStatus, 4)
	teardown := c.SubscribeToStatus(func(s models.ProxyStatus) {
		statuses <- s
	})
	defer teardown()

	select {
	case header := <-authHeaders:
		assert.Equal(t, "Bearer ws-token", header)
	case <-time.After(5 * time.Second):
		t.Fatal("no handshake")
	}

	first := receiveStatus(t, statuses)
	assert.True(t, first.Connected)
	assert.Equal(t, "9.9.9.9", first.IPAddress)

	second := receiveStatus(t, statuses)
	assert.False(t, second.Connected)
	assert.Equal(t, "upstream down", second.Error)

	teardown()
	teardown()
}

func TestOpenStatusStreamReportsState(t *testing.T) {
	c := NewClient("http://127.0.0.1:1",
		WithStreamOptions(stream.WithMaxReconnects(0)),
	)

	states := make(chan stream.State, 8)
	sub := c.OpenStatusStream(func(models.ProxyStatus) {},
		stream.WithDialer(failingDialer{}),
		stream.WithStateHook(func(s stream.State) { states <- s }),
	)
	defer sub.Close()

	require.Eventually(t, func() bool { return sub.State() == stream.StateExhausted }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, stream.StateExhausted, <-states)

	sub.Close()
	<-sub.Done()
	assert.Equal(t, stream.StateTornDown, <-states)
}

type failingDialer struct{}

func (failingDialer) Dial(context.Context, string, http.Header) (stream.Conn, error) {
	return nil, assert.AnError
}

func receiveStatus(t *testing.T, ch <-chan models.ProxyStatus) models.ProxyStatus {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("no status delivered")
		return models.ProxyStatus{}
	}
}
