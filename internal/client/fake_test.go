package client

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// fakeConn is an in-memory transport. Frames pushed with deliver are read
// in order; closing the server side ends the read loop with io.EOF.
type fakeConn struct {
	in chan string

	mu     sync.Mutex
	writes []string

	// deadlineErr is returned by SetWriteDeadline when set.
	deadlineErr error

	closeOnce sync.Once
	closed    chan struct{}
	hangOnce  sync.Once
	hangup    chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan string, 16),
		closed: make(chan struct{}),
		hangup: make(chan struct{}),
	}
}

func (c *fakeConn) deliver(frames ...string) {
	for _, f := range frames {
		c.in <- f
	}
}

// hangUp simulates the server dropping the connection.
func (c *fakeConn) hangUp() {
	c.hangOnce.Do(func() { close(c.hangup) })
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case f := <-c.in:
		return websocket.TextMessage, []byte(f), nil
	case <-c.hangup:
		return 0, nil, io.EOF
	case <-c.closed:
		return 0, nil, net.ErrClosed
	}
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	select {
	case <-c.closed:
		return net.ErrClosed
	default:
	}
	if messageType != websocket.TextMessage {
		return nil
	}
	c.mu.Lock()
	c.writes = append(c.writes, string(data))
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) SetWriteDeadline(time.Time) error { return c.deadlineErr }

func (c *fakeConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// written returns a copy of every text frame written so far.
func (c *fakeConn) written() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}

func (c *fakeConn) count(frame string) int {
	n := 0
	for _, w := range c.written() {
		if w == frame {
			n++
		}
	}
	return n
}

// fakeDialer hands out queued connections, one per dial.
type fakeDialer struct {
	mu    sync.Mutex
	conns []*fakeConn
	err   error
	dials int
}

func newFakeDialer(conns ...*fakeConn) *fakeDialer {
	return &fakeDialer{conns: conns}
}

func (d *fakeDialer) Dial(ctx context.Context, url string) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	if d.err != nil {
		return nil, d.err
	}
	if len(d.conns) == 0 {
		return nil, errors.New("fake: no connection queued")
	}
	c := d.conns[0]
	d.conns = d.conns[1:]
	return c, nil
}

// blockingDialer never connects; Dial returns when ctx is cancelled.
type blockingDialer struct{}

func (blockingDialer) Dial(ctx context.Context, url string) (Conn, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
