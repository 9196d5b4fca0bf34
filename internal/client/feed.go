package client

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zone-feed/nowplaying/internal/socketio"
)

const feedBuffer = 64

// --- Bubble Tea messages ---

// FeedOpenMsg is sent when the WebSocket connects.
type FeedOpenMsg struct{}

// FeedJoinedMsg is sent once the zone namespace has been joined.
type FeedJoinedMsg struct{ Handshake socketio.Handshake }

// FeedClosedMsg is sent when the connection drops on its own.
type FeedClosedMsg struct{ Err error }

// FeedErrorMsg reports a non-fatal feed error.
type FeedErrorMsg struct{ Err error }

// ScrobbleMsg delivers one live track update.
type ScrobbleMsg struct{ Scrobble Scrobble }

// HistoryMsg delivers the result of a history fetch, oldest first.
type HistoryMsg struct {
	Scrobbles []Scrobble
	Err       error
}

// Feed drives a Subscriber and a HistoryClient from a Bubble Tea program.
// Subscription events are queued and handed out one at a time by Next.
type Feed struct {
	sub     *Subscriber
	history *HistoryClient
	ctx     context.Context
	cancel  context.CancelFunc
	events  chan tea.Msg
}

// NewFeed creates a feed for zoneID. Lifecycle hooks are installed by the
// feed itself; any WithHooks option is overridden.
func NewFeed(zoneID string, history *HistoryClient, opts ...Option) (*Feed, error) {
	ctx, cancel := context.WithCancel(context.Background())
	f := &Feed{
		history: history,
		ctx:     ctx,
		cancel:  cancel,
		events:  make(chan tea.Msg, feedBuffer),
	}

	opts = append(opts, WithHooks(Hooks{
		OnOpen:  func() { f.push(FeedOpenMsg{}) },
		OnJoin:  func(hs socketio.Handshake) { f.push(FeedJoinedMsg{Handshake: hs}) },
		OnClose: func(err error) { f.push(FeedClosedMsg{Err: err}) },
		OnError: func(err error) { f.push(FeedErrorMsg{Err: err}) },
	}))
	sub, err := New(zoneID, opts...)
	if err != nil {
		cancel()
		return nil, err
	}
	f.sub = sub
	return f, nil
}

// ZoneID returns the zone being followed.
func (f *Feed) ZoneID() string { return f.sub.ZoneID() }

// State returns the subscription state.
func (f *Feed) State() State { return f.sub.State() }

// Next returns a command that waits for the next subscription event.
// Re-issue it after every feed message.
func (f *Feed) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-f.events:
			return msg
		case <-f.ctx.Done():
			return nil
		}
	}
}

// Refresh drops any running subscription and fetches the history. Call
// Subscribe once the HistoryMsg has been applied.
func (f *Feed) Refresh() tea.Cmd {
	return func() tea.Msg {
		f.sub.Unsubscribe()
		if f.history == nil {
			return HistoryMsg{}
		}
		scrobbles, err := f.history.FetchHistory(f.ctx)
		return HistoryMsg{Scrobbles: scrobbles, Err: err}
	}
}

// Subscribe returns a command that starts the live subscription. A failure
// to start is queued as a FeedErrorMsg for Next.
func (f *Feed) Subscribe() tea.Cmd {
	return func() tea.Msg {
		if err := f.sub.Subscribe(f.ctx, f.onScrobble); err != nil {
			f.push(FeedErrorMsg{Err: err})
		}
		return nil
	}
}

// Close stops the subscription and releases any pending Next command.
func (f *Feed) Close() {
	f.cancel()
	f.sub.Unsubscribe()
}

func (f *Feed) onScrobble(s Scrobble) {
	f.push(ScrobbleMsg{Scrobble: s})
}

func (f *Feed) push(msg tea.Msg) {
	select {
	case f.events <- msg:
	case <-f.ctx.Done():
	}
}
