package stream

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

type recorder struct {
	mu       sync.Mutex
	payloads []string
}

func (r *recorder) handle(payload json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, string(payload))
}

func (r *recorder) Payloads() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.payloads...)
}

func blockUntil(t *testing.T, clock *clockwork.FakeClock, waiters int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitFor)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, waiters))
}

func waitState(t *testing.T, sub *Subscription, state State) {
	t.Helper()
	require.Eventually(t, func() bool { return sub.State() == state }, waitFor, tick,
		"expected state %s, got %s", state, sub.State())
}

func TestStatusURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"http://localhost:8082", "ws://localhost:8082/ws"},
		{"https://api.example.com/", "wss://api.example.com/ws"},
		{"ws://already", "ws://already/ws"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, StatusURL(tt.input))
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "exhausted", StateExhausted.String())
	assert.True(t, StateTornDown.IsTerminal())
	assert.False(t, StateRetrying.IsTerminal())
}

func TestDeliversPayloadsInOrder(t *testing.T) {
	clock := clockwork.NewFakeClock()
	conn := newFakeConn()
	dialer := newFakeDialer(conn)
	rec := &recorder{}

	sub := Subscribe("ws://test/ws", rec.handle, WithClock(clock), WithDialer(dialer))
	defer sub.Close()

	waitState(t, sub, StateOpen)

	conn.inbound <- []byte(`{"connected":true,"ip_address":"1.2.3.4"}`)
	conn.inbound <- []byte(`{"type":"pong"}`)
	conn.inbound <- []byte(`not json`)
	conn.inbound <- []byte(`{"type":"killswitch","enabled":true}`)
	conn.inbound <- []byte(`{"connected":false}`)

	require.Eventually(t, func() bool { return len(rec.Payloads()) == 2 }, waitFor, tick)

	// give any stray delivery a chance to show up
	time.Sleep(20 * time.Millisecond)

	payloads := rec.Payloads()
	require.Len(t, payloads, 2)
	assert.JSONEq(t, `{"connected":true,"ip_address":"1.2.3.4"}`, payloads[0])
	assert.JSONEq(t, `{"connected":false}`, payloads[1])
}

func TestKillSwitchHook(t *testing.T) {
	clock := clockwork.NewFakeClock()
	conn := newFakeConn()
	events := make(chan models.KillSwitchEvent, 1)
	rec := &recorder{}

	sub := Subscribe("ws://test/ws", rec.handle,
		WithClock(clock),
		WithDialer(newFakeDialer(conn)),
		WithKillSwitchHook(func(ev models.KillSwitchEvent) { events <- ev }),
	)
	defer sub.Close()

	waitState(t, sub, StateOpen)
	conn.inbound <- []byte(`{"type":"killswitch","enabled":true}`)

	select {
	case ev := <-events:
		assert.True(t, ev.Enabled)
	case <-time.After(waitFor):
		t.Fatal("kill switch hook not called")
	}
	assert.Empty(t, rec.Payloads())
}

func TestHeartbeatOnlyAfterOpen(t *testing.T) {
	clock := clockwork.NewFakeClock()
	conn := newFakeConn()

	sub := Subscribe("ws://test/ws", nil,
		WithClock(clock),
		WithDialer(newFakeDialer(conn)),
		WithHeartbeat(30*time.Second),
	)
	defer sub.Close()

	waitState(t, sub, StateOpen)
	blockUntil(t, clock, 1)

	clock.Advance(29 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, conn.Writes())

	clock.Advance(time.Second)
	require.Eventually(t, func() bool { return len(conn.Writes()) == 1 }, waitFor, tick)
	assert.JSONEq(t, `{"type":"ping"}`, conn.Writes()[0])

	clock.Advance(30 * time.Second)
	require.Eventually(t, func() bool { return len(conn.Writes()) == 2 }, waitFor, tick)
}

func TestNoHeartbeatWithoutConnection(t *testing.T) {
	clock := clockwork.NewFakeClock()
	dialer := newFakeDialer()

	sub := Subscribe("ws://test/ws", nil,
		WithClock(clock),
		WithDialer(dialer),
		WithMaxReconnects(0),
	)
	defer sub.Close()

	waitState(t, sub, StateExhausted)
	assert.Equal(t, 1, dialer.Dials())
}

func TestReconnectBudget(t *testing.T) {
	clock := clockwork.NewFakeClock()
	dialer := newFakeDialer()
	var statesMu sync.Mutex
	var states []State

	sub := Subscribe("ws://test/ws", nil,
		WithClock(clock),
		WithDialer(dialer),
		WithReconnectDelay(2*time.Second),
		WithStateHook(func(s State) {
			statesMu.Lock()
			defer statesMu.Unlock()
			states = append(states, s)
		}),
	)
	defer sub.Close()

	for i := 1; i <= DefaultMaxReconnects; i++ {
		blockUntil(t, clock, 1)
		assert.Equal(t, i, dialer.Dials())
		assert.Equal(t, StateRetrying, sub.State())
		clock.Advance(2 * time.Second)
	}

	waitState(t, sub, StateExhausted)
	assert.Equal(t, DefaultMaxReconnects+1, dialer.Dials())

	clock.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, DefaultMaxReconnects+1, dialer.Dials())

	sub.Close()
	<-sub.Done()
	assert.Equal(t, StateTornDown, sub.State())

	statesMu.Lock()
	defer statesMu.Unlock()
	assert.Equal(t, StateExhausted, states[len(states)-2])
	assert.Equal(t, StateTornDown, states[len(states)-1])
}

func TestReconnectDelayIsHonoured(t *testing.T) {
	clock := clockwork.NewFakeClock()
	dialer := newFakeDialer()

	sub := Subscribe("ws://test/ws", nil, WithClock(clock), WithDialer(dialer))
	defer sub.Close()

	blockUntil(t, clock, 1)
	clock.Advance(1999 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, dialer.Dials())

	clock.Advance(time.Millisecond)
	require.Eventually(t, func() bool { return dialer.Dials() == 2 }, waitFor, tick)
}

func TestSuccessfulOpenResetsAttempts(t *testing.T) {
	clock := clockwork.NewFakeClock()
	first := newFakeConn()
	second := newFakeConn()
	dialer := newFakeDialer(first, second)

	sub := Subscribe("ws://test/ws", nil, WithClock(clock), WithDialer(dialer))
	defer sub.Close()

	waitState(t, sub, StateOpen)
	first.Close()

	// reconnect 1 succeeds and resets the budget
	waitState(t, sub, StateRetrying)
	blockUntil(t, clock, 1)
	clock.Advance(DefaultReconnectDelay)
	waitState(t, sub, StateOpen)
	second.Close()

	// the full budget is available again
	for i := 0; i < DefaultMaxReconnects; i++ {
		waitState(t, sub, StateRetrying)
		blockUntil(t, clock, 1)
		clock.Advance(DefaultReconnectDelay)
	}

	waitState(t, sub, StateExhausted)
	assert.Equal(t, 2+DefaultMaxReconnects, dialer.Dials())
}

func TestCloseBeforeDisconnectPreventsReconnect(t *testing.T) {
	clock := clockwork.NewFakeClock()
	conn := newFakeConn()
	dialer := newFakeDialer(conn)

	sub := Subscribe("ws://test/ws", nil, WithClock(clock), WithDialer(dialer))

	waitState(t, sub, StateOpen)
	sub.Close()

	select {
	case <-sub.Done():
	case <-time.After(waitFor):
		t.Fatal("subscription did not stop")
	}

	assert.True(t, conn.IsClosed())
	assert.Equal(t, StateTornDown, sub.State())

	clock.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, dialer.Dials())
}

func TestCloseWhileRetrying(t *testing.T) {
	clock := clockwork.NewFakeClock()
	dialer := newFakeDialer()

	sub := Subscribe("ws://test/ws", nil, WithClock(clock), WithDialer(dialer))

	blockUntil(t, clock, 1)
	sub.Close()
	<-sub.Done()

	clock.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, dialer.Dials())
}

func TestCloseIsIdempotent(t *testing.T) {
	sub := Subscribe("ws://test/ws", nil,
		WithClock(clockwork.NewFakeClock()),
		WithDialer(newFakeDialer()),
	)

	sub.Close()
	sub.Close()
	<-sub.Done()
	sub.Close()
	assert.Equal(t, StateTornDown, sub.State())
}

func TestHandshakeCarriesToken(t *testing.T) {
	clock := clockwork.NewFakeClock()
	dialer := newFakeDialer()
	token := "first"
	var mu sync.Mutex

	sub := Subscribe("ws://test/ws", nil,
		WithClock(clock),
		WithDialer(dialer),
		WithTokenProvider(func() string {
			mu.Lock()
			defer mu.Unlock()
			return token
		}),
	)
	defer sub.Close()

	blockUntil(t, clock, 1)
	assert.Equal(t, "Bearer first", dialer.Header(0).Get("Authorization"))

	mu.Lock()
	token = ""
	mu.Unlock()

	clock.Advance(DefaultReconnectDelay)
	require.Eventually(t, func() bool { return dialer.Dials() == 2 }, waitFor, tick)
	assert.Empty(t, dialer.Header(1).Get("Authorization"))
}
