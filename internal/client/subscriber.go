package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/zone-feed/nowplaying/internal/socketio"
)

const (
	// DefaultEndpoint is the scrobble feed, pinned to engine.io v3 over a
	// plain WebSocket transport.
	DefaultEndpoint = "wss://ws.soundtrackyourbrand.com/ws/?EIO=3&transport=websocket"

	// DefaultPingInterval is the keep-alive period.
	DefaultPingInterval = 20 * time.Second
)

// State is the subscription lifecycle.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateJoined
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateJoined:
		return "joined"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Hooks observe the subscription lifecycle. All hooks run on the
// subscription goroutine and must not block. They may call Unsubscribe.
type Hooks struct {
	// OnOpen runs once the WebSocket upgrade completes.
	OnOpen func()
	// OnJoin runs after the namespace join has been sent.
	OnJoin func(socketio.Handshake)
	// OnClose runs when the transport goes away without Unsubscribe.
	OnClose func(error)
	// OnError reports decode and write errors that did not end the session.
	OnError func(error)
}

// Option configures a Subscriber.
type Option func(*Subscriber)

// WithEndpoint overrides the feed URL.
func WithEndpoint(url string) Option {
	return func(s *Subscriber) { s.endpoint = url }
}

// WithDialer replaces the gorilla/websocket dialer.
func WithDialer(d Dialer) Option {
	return func(s *Subscriber) { s.dialer = d }
}

// WithClock sets the clock that drives the keep-alive timer.
func WithClock(c clock.Clock) Option {
	return func(s *Subscriber) { s.clock = c }
}

// WithPingInterval overrides the keep-alive period.
func WithPingInterval(d time.Duration) Option {
	return func(s *Subscriber) { s.pingInterval = d }
}

// WithEventName only delivers events with this socket.io event name.
func WithEventName(name string) Option {
	return func(s *Subscriber) { s.eventName = name }
}

// WithLogger sets the logger. Output is discarded by default.
func WithLogger(l *log.Logger) Option {
	return func(s *Subscriber) { s.logger = l }
}

// WithHooks installs lifecycle hooks.
func WithHooks(h Hooks) Option {
	return func(s *Subscriber) { s.hooks = h }
}

// WithMetrics records feed counters into m.
func WithMetrics(m *Metrics) Option {
	return func(s *Subscriber) { s.metrics = m }
}

// Subscriber follows the live scrobble feed of one zone. It runs the
// engine.io handshake, joins the zone namespace, keeps the connection alive
// and hands every track update to the Subscribe callback.
//
// One goroutine per subscription owns the session, the keep-alive timer
// and the callback, so events arrive in transport order and the callback
// never runs concurrently with itself. Only one subscription may run at a
// time; Unsubscribe before subscribing again.
type Subscriber struct {
	zoneID       string
	namespace    string
	endpoint     string
	eventName    string
	pingInterval time.Duration
	dialer       Dialer
	clock        clock.Clock
	logger       *log.Logger
	hooks        Hooks
	metrics      *Metrics

	// dispatching is set while onEvent or a hook runs, so an Unsubscribe
	// made from inside one does not wait on its own goroutine.
	dispatching atomic.Bool

	mu      sync.Mutex
	state   State
	session *Session
	cancel  context.CancelFunc
	done    chan struct{} // closed when the subscription goroutine exits
}

// New creates a Subscriber for zoneID.
func New(zoneID string, opts ...Option) (*Subscriber, error) {
	if zoneID == "" {
		return nil, ErrInvalidZoneID
	}
	s := &Subscriber{
		zoneID:       zoneID,
		namespace:    socketio.ZoneNamespace(zoneID),
		endpoint:     DefaultEndpoint,
		pingInterval: DefaultPingInterval,
		dialer:       WebSocketDialer{HandshakeTimeout: 10 * time.Second},
		clock:        clock.New(),
		logger:       log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ZoneID returns the zone this subscriber follows.
func (s *Subscriber) ZoneID() string { return s.zoneID }

// State returns the current lifecycle state.
func (s *Subscriber) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe opens a session and starts delivering track updates to
// onEvent. It returns once the connection attempt has started; transport
// failures are reported through Hooks.OnClose. onEvent may call
// Unsubscribe.
func (s *Subscriber) Subscribe(ctx context.Context, onEvent func(Scrobble)) error {
	if onEvent == nil {
		return ErrNoCallback
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running() {
		if !s.draining() {
			return ErrAlreadySubscribed
		}
		done := s.done
		s.mu.Unlock()
		<-done
		s.mu.Lock()
		if s.running() {
			return ErrAlreadySubscribed
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	sess := OpenSession(ctx, s.dialer, s.endpoint)
	done := make(chan struct{})

	s.session = sess
	s.cancel = cancel
	s.done = done
	s.state = StateConnecting

	go s.run(ctx, sess, onEvent, done)
	return nil
}

// Unsubscribe stops the keep-alive, closes the session and waits for the
// subscription goroutine to exit, so onEvent is never called after it
// returns. Called from onEvent or a hook it does not wait; the callback in
// progress is the last one. It is safe to call at any time, any number of
// times.
func (s *Subscriber) Unsubscribe() {
	s.mu.Lock()
	cancel, sess, done := s.cancel, s.session, s.done
	s.cancel, s.session = nil, nil
	if s.state != StateIdle {
		s.state = StateClosed
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sess != nil {
		sess.Close()
	}
	if done != nil && !s.dispatching.Load() {
		<-done
	}
	s.metrics.setJoined(false)
}

// running reports whether a subscription goroutine is alive. Callers hold mu.
func (s *Subscriber) running() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// draining reports whether the running goroutine was unsubscribed and is
// only winding down, so waiting for it cannot deadlock. Callers hold mu.
func (s *Subscriber) draining() bool {
	return s.cancel == nil && !s.dispatching.Load()
}

// transition moves from one state to another, failing if the state changed
// underneath (for example to closed by Unsubscribe).
func (s *Subscriber) transition(from, to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return false
	}
	s.state = to
	return true
}

func (s *Subscriber) run(ctx context.Context, sess *Session, onEvent func(Scrobble), done chan struct{}) {
	defer close(done)

	var (
		keepAlive *clock.Timer
		pingC     <-chan time.Time
	)
	defer func() {
		if keepAlive != nil {
			keepAlive.Stop()
		}
	}()

	opened := sess.Opened()
	frames := sess.Frames()
	for {
		if ctx.Err() != nil {
			s.stop(sess)
			return
		}

		select {
		case <-ctx.Done():
			s.stop(sess)
			return

		case <-opened:
			opened = nil
			s.connected()

		case <-pingC:
			if ctx.Err() != nil {
				s.stop(sess)
				return
			}
			keepAlive.Reset(s.pingInterval)
			if err := sess.Send(socketio.EncodePing()); err != nil {
				s.report(fmt.Errorf("send ping: %w", err))
				continue
			}
			s.metrics.ping()

		case frame, ok := <-frames:
			if !ok {
				s.closed(ctx, sess.Err())
				return
			}
			if ctx.Err() != nil {
				s.stop(sess)
				return
			}
			if opened != nil {
				// A frame implies the upgrade finished; report it first.
				opened = nil
				s.connected()
			}

			pkt, err := socketio.Decode(frame)
			if err != nil {
				s.metrics.decodeError()
				s.report(err)
				var de *socketio.DecodeError
				if errors.As(err, &de) && de.Type == socketio.EngineOpen && s.State() == StateConnecting {
					// The handshake is unusable; give up on this connection
					// and stay connecting until the caller subscribes again.
					sess.Close()
					return
				}
				continue
			}
			s.metrics.frame(pkt.Kind().String())

			switch p := pkt.(type) {
			case socketio.Open:
				if s.State() != StateConnecting {
					continue
				}
				keepAlive = s.clock.Timer(s.pingInterval)
				pingC = keepAlive.C
				if err := sess.Send(socketio.EncodeJoin(s.namespace)); err != nil {
					s.report(fmt.Errorf("join %s: %w", s.namespace, err))
				}
				if !s.transition(StateConnecting, StateJoined) {
					return
				}
				s.logger.Printf("[socket] joined %s (sid %s)", s.namespace, p.Handshake.SID)
				s.metrics.setJoined(true)
				if s.hooks.OnJoin != nil {
					s.dispatch(func() { s.hooks.OnJoin(p.Handshake) })
				}

			case socketio.Message:
				if s.State() != StateJoined {
					continue
				}
				s.deliver(frame, p, onEvent)
			}
		}
	}
}

func (s *Subscriber) deliver(frame string, msg socketio.Message, onEvent func(Scrobble)) {
	if s.eventName != "" && msg.Event != s.eventName {
		return
	}
	raw, ok := msg.TrackUpdate()
	if !ok {
		return
	}
	scrobble, err := ParseScrobble(raw)
	if err != nil {
		s.metrics.decodeError()
		s.report(&socketio.DecodeError{Type: socketio.EngineMessage, Frame: frame, Err: err})
		return
	}

	s.logger.Printf("[socket] %s - %s", scrobble.SongName, scrobble.ArtistNames())
	s.metrics.delivered()
	s.dispatch(func() { onEvent(scrobble) })
}

// dispatch runs a user callback on the subscription goroutine.
func (s *Subscriber) dispatch(fn func()) {
	s.dispatching.Store(true)
	defer s.dispatching.Store(false)
	fn()
}

func (s *Subscriber) connected() {
	s.logger.Printf("[socket] connected")
	s.metrics.opened()
	if s.hooks.OnOpen != nil {
		s.dispatch(s.hooks.OnOpen)
	}
}

// stop ends a subscription whose context was cancelled.
func (s *Subscriber) stop(sess *Session) {
	sess.Close()
	s.markClosed()
}

func (s *Subscriber) markClosed() {
	s.metrics.setJoined(false)
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
}

// closed handles a transport that went away. Only a close nobody asked for
// is reported through OnClose.
func (s *Subscriber) closed(ctx context.Context, err error) {
	s.markClosed()
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		s.logger.Printf("[socket] disconnected: %v", err)
	} else {
		s.logger.Printf("[socket] disconnected")
	}
	if s.hooks.OnClose != nil {
		s.dispatch(func() { s.hooks.OnClose(err) })
	}
}

func (s *Subscriber) report(err error) {
	s.logger.Printf("[socket] %v", err)
	if s.hooks.OnError != nil {
		s.dispatch(func() { s.hooks.OnError(err) })
	}
}
