package stream

import (
	"time"

	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/jonboulle/clockwork"
)

const (
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultReconnectDelay    = 2 * time.Second
	DefaultMaxReconnects     = 3
)

type options struct {
	clock          clockwork.Clock
	dialer         Dialer
	heartbeat      time.Duration
	reconnectDelay time.Duration
	maxReconnects  int
	token          func() string
	onState        func(State)
	onKillSwitch   func(models.KillSwitchEvent)
}

type Option func(*options)

func defaultOptions() options {
	return options{
		clock:          clockwork.NewRealClock(),
		dialer:         WebsocketDialer{},
		heartbeat:      DefaultHeartbeatInterval,
		reconnectDelay: DefaultReconnectDelay,
		maxReconnects:  DefaultMaxReconnects,
		token:          func() string { return "" },
		onState:        func(State) {},
		onKillSwitch:   ignoreKillSwitch,
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func WithDialer(dialer Dialer) Option {
	return func(o *options) {
		if dialer != nil {
			o.dialer = dialer
		}
	}
}

func WithHeartbeat(interval time.Duration) Option {
	return func(o *options) {
		if interval > 0 {
			o.heartbeat = interval
		}
	}
}

func WithReconnectDelay(delay time.Duration) Option {
	return func(o *options) {
		if delay >= 0 {
			o.reconnectDelay = delay
		}
	}
}

// WithMaxReconnects bounds consecutive reconnects. Zero disables
// reconnecting entirely.
func WithMaxReconnects(max int) Option {
	return func(o *options) {
		if max >= 0 {
			o.maxReconnects = max
		}
	}
}

// WithTokenProvider supplies the bearer token sent on every handshake.
func WithTokenProvider(token func() string) Option {
	return func(o *options) {
		if token != nil {
			o.token = token
		}
	}
}

// WithStateHook is called from the subscription goroutine on every state
// change. It must not block.
func WithStateHook(hook func(State)) Option {
	return func(o *options) {
		if hook != nil {
			o.onState = hook
		}
	}
}

func WithKillSwitchHook(hook func(models.KillSwitchEvent)) Option {
	return func(o *options) {
		if hook != nil {
			o.onKillSwitch = hook
		}
	}
}
