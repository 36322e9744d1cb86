package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/atlanticproxy/atlantic/internal/models"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

var pingPayload = []byte(`{"type":"ping"}`)

// Handler receives every status payload in arrival order.
type Handler func(payload json.RawMessage)

// Subscription keeps a status feed connection alive: it heartbeats while
// open and reconnects a bounded number of times after a close. A single
// goroutine owns the connection, so deliveries and pings never interleave
// out of order.
type Subscription struct {
	url     string
	handler Handler
	opts    options

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}

	state    atomic.Int32
	attempts int
}

// Subscribe starts connecting immediately and returns without blocking.
func Subscribe(url string, handler Handler, opts ...Option) *Subscription {

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if handler == nil {
		handler = func(json.RawMessage) {}
	}

	ctx, cancel := context.WithCancel(context.Background())

	s := &Subscription{
		url:     url,
		handler: handler,
		opts:    o,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	s.state.Store(int32(StateConnecting))

	go s.run()

	return s
}

func (s *Subscription) State() State {
	return State(s.state.Load())
}

// Done is closed once the subscription goroutine has exited after Close.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close tears the subscription down from any state. It never blocks and is
// safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		logrus.WithField("url", s.url).Debugln("Closing status subscription")
		s.cancel()
	})
}

func (s *Subscription) setState(state State) {
	if State(s.state.Swap(int32(state))) == state {
		return
	}
	logrus.WithFields(logrus.Fields{
		"url":   s.url,
		"state": state.String(),
	}).Debugln("Status subscription state changed")
	s.opts.onState(state)
}

func (s *Subscription) run() {
	defer close(s.done)
	defer s.setState(StateTornDown)

	for {
		if s.ctx.Err() != nil {
			return
		}

		s.setState(StateConnecting)

		conn, err := s.opts.dialer.Dial(s.ctx, s.url, s.header())
		if err != nil {
			logrus.WithError(err).WithField("url", s.url).Warnln("Status feed connection failed")
		} else {
			logrus.WithField("url", s.url).Infoln("Status feed connected")
			s.attempts = 0
			s.setState(StateOpen)
			s.serve(conn)
			logrus.WithField("url", s.url).Infoln("Status feed disconnected")
		}

		if s.ctx.Err() != nil {
			return
		}

		if s.attempts >= s.opts.maxReconnects {
			logrus.WithFields(logrus.Fields{
				"url":      s.url,
				"attempts": s.attempts,
			}).Warnln("Status feed reconnect attempts exhausted")
			s.setState(StateExhausted)
			<-s.ctx.Done()
			return
		}

		s.attempts++
		s.setState(StateRetrying)

		logrus.WithFields(logrus.Fields{
			"attempt": s.attempts,
			"max":     s.opts.maxReconnects,
			"delay":   s.opts.reconnectDelay,
		}).Infoln("Reconnecting to status feed")

		timer := s.opts.clock.NewTimer(s.opts.reconnectDelay)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.Chan():
		}
	}
}

// serve pumps one open connection until it closes or the subscription is
// torn down.
func (s *Subscription) serve(conn Conn) {

	frames := make(chan []byte)
	readErr := make(chan error, 1)
	stop := make(chan struct{})

	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case frames <- data:
			case <-stop:
				return
			}
		}
	}()

	heartbeat := s.opts.clock.NewTicker(s.opts.heartbeat)

	defer func() {
		heartbeat.Stop()
		close(stop)
		conn.Close()
	}()

	for {
		select {
		case <-s.ctx.Done():
			return
		case err := <-readErr:
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logrus.WithError(err).Debugln("Status feed read failed")
			}
			return
		case data := <-frames:
			s.dispatch(data)
		case <-heartbeat.Chan():
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				logrus.WithError(err).Debugln("Status feed heartbeat failed")
				return
			}
		}
	}
}

func (s *Subscription) dispatch(data []byte) {

	if s.ctx.Err() != nil {
		return
	}

	if !json.Valid(data) {
		logrus.WithField("payload", string(data)).Warnln("Failed to parse status feed message")
		return
	}

	var envelope models.StreamEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil {
		switch envelope.Type {
		case models.StreamMessagePong:
			return
		case models.StreamMessageKillSwitch:
			var event models.KillSwitchEvent
			if err := json.Unmarshal(data, &event); err != nil {
				logrus.WithError(err).Warnln("Failed to parse kill switch event")
				return
			}
			s.opts.onKillSwitch(event)
			return
		}
	}

	s.handler(json.RawMessage(data))
}

func (s *Subscription) header() http.Header {
	header := http.Header{}
	if token := s.opts.token(); len(token) > 0 {
		header.Set("Authorization", "Bearer "+token)
	}
	return header
}

// ignoreKillSwitch is the default kill switch hook. The status payloads that
// follow a toggle already carry the kill switch flag, so the event itself
// needs no handling.
func ignoreKillSwitch(event models.KillSwitchEvent) {
	logrus.WithField("enabled", event.Enabled).Debugln("Kill switch event received")
}
