package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// SessionState is the lifecycle of one transport connection. States only
// move forward.
type SessionState int32

const (
	SessionConnecting SessionState = iota
	SessionOpen
	SessionClosing
	SessionClosed
)

func (s SessionState) String() string {
	switch s {
	case SessionConnecting:
		return "connecting"
	case SessionOpen:
		return "open"
	case SessionClosing:
		return "closing"
	default:
		return "closed"
	}
}

// Conn is the subset of *websocket.Conn a session uses.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Dialer opens transport connections.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebSocketDialer dials with gorilla/websocket.
type WebSocketDialer struct {
	HandshakeTimeout time.Duration
	Header           http.Header
}

func (d WebSocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: d.HandshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, url, d.Header)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Session owns one live connection. Inbound text frames arrive on Frames()
// in transport order; Frames() is closed once the connection is gone, after
// which Err() reports why (nil if Close was called).
type Session struct {
	url    string
	cancel context.CancelFunc

	state atomic.Int32

	mu      sync.Mutex // guards conn, err and the closing transition
	writeMu sync.Mutex // serialises conn writes
	conn    Conn
	err     error

	frames chan string
	opened chan struct{}
	quit   chan struct{}
	done   chan struct{}
}

// OpenSession starts dialing url and returns immediately with the session
// in the connecting state.
func OpenSession(ctx context.Context, d Dialer, url string) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		url:    url,
		cancel: cancel,
		frames: make(chan string),
		opened: make(chan struct{}),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.run(ctx, d)
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Frames delivers inbound text frames.
func (s *Session) Frames() <-chan string { return s.frames }

// Opened is closed when the connection is established.
func (s *Session) Opened() <-chan struct{} { return s.opened }

// Done is closed when the session has fully shut down.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns the transport error that ended the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Send writes one text frame.
func (s *Session) Send(text string) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil || s.State() != SessionOpen {
		return ErrSessionNotOpen
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("set write deadline: %w", err)
	}
	return conn.WriteMessage(websocket.TextMessage, []byte(text))
}

// Close shuts the connection down. Only a session below the closing state
// is acted on, so repeated calls are no-ops. A dial in progress is aborted.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.State() >= SessionClosing {
		s.mu.Unlock()
		return nil
	}
	s.state.Store(int32(SessionClosing))
	conn := s.conn
	s.mu.Unlock()

	s.cancel()
	close(s.quit)
	if conn == nil {
		return nil
	}

	// The close frame is best effort; the connection is closed either way.
	s.writeMu.Lock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err == nil {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
	s.writeMu.Unlock()
	return conn.Close()
}

func (s *Session) run(ctx context.Context, d Dialer) {
	defer close(s.done)
	defer close(s.frames)
	defer s.state.Store(int32(SessionClosed))

	conn, err := d.Dial(ctx, s.url)
	if err != nil {
		s.fail(err)
		return
	}

	s.mu.Lock()
	if s.State() >= SessionClosing {
		// Close raced the dial.
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conn = conn
	s.state.Store(int32(SessionOpen))
	s.mu.Unlock()
	close(s.opened)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.fail(err)
			conn.Close()
			return
		}
		select {
		case s.frames <- string(data):
		case <-s.quit:
			return
		}
	}
}

// fail records err unless the session is being closed on purpose.
func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State() < SessionClosing {
		s.err = err
	}
}
