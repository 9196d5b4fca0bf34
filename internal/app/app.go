package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zone-feed/nowplaying/internal/client"
	"github.com/zone-feed/nowplaying/internal/mock"
	"github.com/zone-feed/nowplaying/internal/theme"
	"github.com/zone-feed/nowplaying/internal/views/card"
	"github.com/zone-feed/nowplaying/internal/views/debug"
	"github.com/zone-feed/nowplaying/internal/views/help"
	"github.com/zone-feed/nowplaying/internal/views/history"
	"github.com/zone-feed/nowplaying/internal/views/status"
)

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDebug
	OverlayHelp
)

// Model is the root Bubble Tea model.
type Model struct {
	feed *client.Feed
	gen  *mock.Generator
	rnd  *rand.Rand

	keys    KeyMap
	width   int
	height  int
	overlay Overlay
	loading bool

	// scrobbles is newest first; [0] is on the card, the rest in the list.
	scrobbles []client.Scrobble

	// Sub-views.
	spinner   spinner.Model
	statusBar status.Model
	card      card.Model
	history   history.Model
	debug     debug.Model
	help      help.Model
}

// New creates the root model. The history is fetched on Init and the live
// subscription starts once it has arrived.
func New(feed *client.Feed, gen *mock.Generator) Model {
	keys := DefaultKeyMap()
	return Model{
		feed:      feed,
		gen:       gen,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		keys:      keys,
		loading:   true,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		statusBar: status.New(feed.ZoneID()),
		card:      card.New(),
		history:   history.New(),
		debug:     debug.New(),
		help:      help.New(feed.ZoneID(), keys.Bindings()),
	}
}

// Init fetches the history and starts the animations.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.feed.Next(),
		m.feed.Refresh(),
		m.spinner.Tick,
		card.Tick(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.card.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			m.statusBar.Loading = ""
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.statusBar.Loading = m.spinner.View()
		return m, cmd

	case card.TickMsg:
		m.card.Step(time.Time(msg))
		return m, card.Tick()

	case client.HistoryMsg:
		m.loading = false
		m.statusBar.Loading = ""
		if msg.Err != nil {
			m.statusBar.LastError = msg.Err.Error()
			m.debug.Addf(debug.KindError, "history: %v", msg.Err)
		} else {
			m.setHistory(msg.Scrobbles)
			m.debug.Addf(debug.KindHTTP, "loaded %d tracks", len(msg.Scrobbles))
		}
		return m, m.feed.Subscribe()

	case client.ScrobbleMsg:
		m.addScrobble(msg.Scrobble, debug.KindSocket)
		return m, m.feed.Next()

	case client.FeedOpenMsg:
		m.debug.Add(debug.KindSocket, "connected")
		m.statusBar.State = m.feed.State()
		return m, m.feed.Next()

	case client.FeedJoinedMsg:
		m.debug.Addf(debug.KindSocket, "joined %s (sid %s)", m.feed.ZoneID(), msg.Handshake.SID)
		m.statusBar.State = m.feed.State()
		m.statusBar.LastError = ""
		return m, m.feed.Next()

	case client.FeedClosedMsg:
		m.statusBar.State = m.feed.State()
		if msg.Err != nil {
			m.statusBar.LastError = msg.Err.Error()
			m.debug.Addf(debug.KindSocket, "disconnected: %v", msg.Err)
		} else {
			m.debug.Add(debug.KindSocket, "disconnected")
		}
		return m, m.feed.Next()

	case client.FeedErrorMsg:
		m.statusBar.LastError = msg.Err.Error()
		m.debug.Add(debug.KindError, msg.Err.Error())
		return m, m.feed.Next()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.feed.Close()
		return m, tea.Quit
	}

	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.overlay = OverlayNone
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Up):
			m.debug.ScrollUp(1)
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Down):
			m.debug.ScrollDown(1)
		case m.overlay == OverlayDebug && key.Matches(msg, m.keys.Debug),
			m.overlay == OverlayHelp && key.Matches(msg, m.keys.Help):
			m.overlay = OverlayNone
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Down):
		m.history.Down()

	case key.Matches(msg, m.keys.Up):
		m.history.Up()

	case key.Matches(msg, m.keys.Mock):
		m.addScrobble(m.gen.Next(), debug.KindMock)

	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		m.debug.Add(debug.KindKey, "refresh")
		return m, tea.Batch(m.feed.Refresh(), m.spinner.Tick)

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug

	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
	}

	return m, nil
}

// setHistory replaces the list with a fetched history, given oldest first.
func (m *Model) setHistory(oldestFirst []client.Scrobble) {
	m.scrobbles = make([]client.Scrobble, 0, len(oldestFirst))
	for i := len(oldestFirst) - 1; i >= 0; i-- {
		m.scrobbles = append(m.scrobbles, m.withID(oldestFirst[i]))
	}
	if len(m.scrobbles) > 0 {
		m.card.SetTrack(m.scrobbles[0])
		m.history.SetItems(append([]client.Scrobble(nil), m.scrobbles[1:]...))
	} else {
		m.card = card.New()
		m.card.Width = m.width
		m.history.SetItems(nil)
	}
	m.statusBar.Tracks = len(m.scrobbles)
}

// addScrobble puts s on the card and moves the previous track to the list.
func (m *Model) addScrobble(s client.Scrobble, kind string) {
	s = m.withID(s)
	if len(m.scrobbles) > 0 {
		m.history.Prepend(m.scrobbles[0])
	}
	m.scrobbles = append([]client.Scrobble{s}, m.scrobbles...)
	m.card.SetTrack(s)
	m.statusBar.Tracks = len(m.scrobbles)
	m.debug.Addf(kind, "%s - %s", s.SongName, s.ArtistNames())
}

// withID assigns the local list key: the track id plus six random digits.
func (m *Model) withID(s client.Scrobble) client.Scrobble {
	s.ScrobbleID = fmt.Sprintf("%s%06d", s.TrackID, m.rnd.Intn(1000000))
	return s
}

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	bar := m.statusBar.View()
	switch m.overlay {
	case OverlayDebug:
		return lipgloss.JoinVertical(lipgloss.Left, bar, m.debug.View(m.width, m.height-3))
	case OverlayHelp:
		return lipgloss.JoinVertical(lipgloss.Left, bar, m.help.View(m.width))
	}

	cardView := m.card.View()
	footer := theme.StyleDimmed.Render("  j/k:scroll  m:mock  r:refresh  d:log  ?:help  q:quit")
	listHeight := m.height - lipgloss.Height(bar) - lipgloss.Height(cardView) - lipgloss.Height(footer)

	return lipgloss.JoinVertical(lipgloss.Left,
		bar,
		cardView,
		m.history.View(m.width, listHeight),
		footer,
	)
}
