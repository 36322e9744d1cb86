package stream

// State is the lifecycle position of a Subscription.
type State int32

const (
	StateConnecting State = iota
	StateOpen
	// StateRetrying means the connection closed and a reconnect is pending.
	StateRetrying
	// StateExhausted means the reconnect budget is spent. The subscription
	// stays idle until it is closed.
	StateExhausted
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateRetrying:
		return "retrying"
	case StateExhausted:
		return "exhausted"
	case StateTornDown:
		return "torn-down"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further connection attempts will be made.
func (s State) IsTerminal() bool {
	return s == StateExhausted || s == StateTornDown
}
