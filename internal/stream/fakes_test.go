package stream

import (
	"context"
	"errors"
	"net/http"
	"sync"
)

var errConnClosed = errors.New("connection closed")

// fakeConn is driven by the test: frames pushed on inbound are read in
// order, and closing the connection makes the pending read fail.
type fakeConn struct {
	inbound chan []byte
	closed  chan struct{}

	mu        sync.Mutex
	writes    [][]byte
	closeOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan []byte, 16),
		closed:  make(chan struct{}),
	}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case data := <-c.inbound:
		return 1, data, nil
	case <-c.closed:
		return 0, nil, errConnClosed
	}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	select {
	case <-c.closed:
		return errConnClosed
	default:
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, append([]byte(nil), data...))
	return nil
}

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.writes))
	for i, w := range c.writes {
		out[i] = string(w)
	}
	return out
}

func (c *fakeConn) IsClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// fakeDialer hands out scripted connections; once the script runs out every
// dial fails.
type fakeDialer struct {
	mu      sync.Mutex
	conns   []*fakeConn
	dials   int
	headers []http.Header
	dialed  chan struct{}
}

func newFakeDialer(conns ...*fakeConn) *fakeDialer {
	return &fakeDialer{
		conns:  conns,
		dialed: make(chan struct{}, 64),
	}
}

func (d *fakeDialer) Dial(_ context.Context, _ string, header http.Header) (Conn, error) {
	d.mu.Lock()
	defer func() {
		d.mu.Unlock()
		d.dialed <- struct{}{}
	}()

	d.dials++
	d.headers = append(d.headers, header.Clone())

	if len(d.conns) == 0 {
		return nil, errors.New("connection refused")
	}
	conn := d.conns[0]
	d.conns = d.conns[1:]
	return conn, nil
}

func (d *fakeDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

func (d *fakeDialer) Header(i int) http.Header {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.headers[i]
}
