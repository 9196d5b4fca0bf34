// Package debug provides a scrollable feed event log overlay.
package debug

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/zone-feed/nowplaying/internal/theme"
)

const maxEntries = 200

// Log kinds.
const (
	KindSocket = "sio"
	KindHTTP   = "http"
	KindMock   = "mock"
	KindKey    = "key"
	KindError  = "err"
)

// Entry is a single event log line.
type Entry struct {
	Time    time.Time
	Kind    string
	Message string
}

// Model is the log buffer and its scroll position. Offset counts the
// entries hidden below the bottom of the panel.
type Model struct {
	Entries []Entry
	Offset  int

	counts map[string]int
	now    func() time.Time
}

// New creates an empty debug model.
func New() Model {
	return Model{counts: make(map[string]int), now: time.Now}
}

// Add appends an entry, drops the oldest past maxEntries and jumps back to
// the newest line. Kind counts include dropped entries.
func (m *Model) Add(kind, message string) {
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	clock := m.now
	if clock == nil {
		clock = time.Now
	}

	m.Entries = append(m.Entries, Entry{Time: clock(), Kind: kind, Message: message})
	if over := len(m.Entries) - maxEntries; over > 0 {
		m.Entries = m.Entries[over:]
	}
	m.counts[kind]++
	m.Offset = 0
}

// Addf is Add with formatting.
func (m *Model) Addf(kind, format string, args ...any) {
	m.Add(kind, fmt.Sprintf(format, args...))
}

// Count returns how many entries of kind have been added.
func (m Model) Count(kind string) int { return m.counts[kind] }

// ScrollUp shows n older entries.
func (m *Model) ScrollUp(n int) { m.scroll(n) }

// ScrollDown shows n newer entries.
func (m *Model) ScrollDown(n int) { m.scroll(-n) }

// scroll keeps at least the oldest entry on screen.
func (m *Model) scroll(delta int) {
	m.Offset = max(0, min(m.Offset+delta, len(m.Entries)-1))
}

// window returns the entries that fit in rows lines at the current offset.
func (m Model) window(rows int) []Entry {
	end := max(0, len(m.Entries)-m.Offset)
	return m.Entries[max(0, end-rows):end]
}

// View renders the log as an overlay panel.
func (m Model) View(width, height int) string {
	inner := max(width-4, 20)
	rows := max(height-6, 3)

	header := theme.StyleHeader.Render(" FEED LOG ") + "  " + m.summary()
	footer := theme.StyleDimmed.Render(fmt.Sprintf("j/k:scroll  esc:close  %d entries", len(m.Entries)))

	var body string
	if len(m.Entries) == 0 {
		body = "\n" + theme.StyleDimmed.Render("  No events recorded yet.") + "\n"
	} else {
		lines := make([]string, 0, rows+1)
		for _, e := range m.window(rows) {
			lines = append(lines, renderEntry(e, inner))
		}
		if m.Offset > 0 {
			lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d newer", m.Offset)))
		}
		body = strings.Join(lines, "\n")
	}

	return lipgloss.NewStyle().
		Width(inner).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

// renderEntry formats one line. Messages are cut on rune boundaries so
// track titles with accents stay valid UTF-8.
func renderEntry(e Entry, width int) string {
	msg := e.Message
	if limit := width - 20; limit > 3 {
		if r := []rune(msg); len(r) > limit {
			msg = string(r[:limit-3]) + "..."
		}
	}
	stamp := theme.StyleDimmed.Render(e.Time.Format("15:04:05.000"))
	kind := lipgloss.NewStyle().Foreground(kindColor(e.Kind)).Width(5).Render(e.Kind)
	return stamp + " " + kind + " " + msg
}

// summary lists the per-kind totals in a stable order.
func (m Model) summary() string {
	kinds := make([]string, 0, len(m.counts))
	for k := range m.counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, lipgloss.NewStyle().Foreground(kindColor(k)).Render(fmt.Sprintf("%s:%d", k, m.counts[k])))
	}
	return strings.Join(parts, " ")
}

func kindColor(kind string) lipgloss.Color {
	switch kind {
	case KindSocket:
		return theme.ColorSocket
	case KindHTTP:
		return theme.ColorHTTP
	case KindMock:
		return theme.ColorMock
	case KindKey:
		return theme.ColorKey
	case KindError:
		return theme.ColorErrored
	default:
		return theme.ColorDimmed
	}
}
