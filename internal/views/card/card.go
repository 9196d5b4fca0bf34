// Package card renders the now-playing track: title, artists, source and a
// spring-animated playback progress bar in the track's own colors.
package card

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/zone-feed/nowplaying/internal/client"
	"github.com/zone-feed/nowplaying/internal/theme"
)

// FPS is the progress animation frame rate.
const FPS = 10

// TickMsg advances the progress animation.
type TickMsg time.Time

// Tick schedules the next animation frame.
func Tick() tea.Cmd {
	return tea.Tick(time.Second/FPS, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model holds the card state.
type Model struct {
	Track *client.Scrobble
	Width int

	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
}

// New creates an empty card.
func New() Model {
	return Model{spring: harmonica.NewSpring(harmonica.FPS(FPS), 6.0, 0.9)}
}

// SetTrack shows s and restarts the bar from zero.
func (m *Model) SetTrack(s client.Scrobble) {
	m.Track = &s
	m.pos, m.vel, m.target = 0, 0, 0
}

// Step moves the bar one frame toward the track's real position at now.
func (m *Model) Step(now time.Time) {
	if m.Track == nil {
		return
	}
	m.target = Progress(*m.Track, now)
	m.pos, m.vel = m.spring.Update(m.pos, m.vel, m.target)
}

// Shown returns the currently displayed bar fraction.
func (m Model) Shown() float64 { return clamp(m.pos) }

// Progress is the played fraction of s at now, in [0, 1]. Tracks with no
// duration or timestamp report 0.
func Progress(s client.Scrobble, now time.Time) float64 {
	created := s.Created()
	if s.DurationMs <= 0 || created.IsZero() {
		return 0
	}
	return clamp(float64(now.Sub(created)) / float64(s.Duration()))
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// View renders the card.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}
	innerW := width - 6

	if m.Track == nil {
		return theme.StyleBorder.
			Width(width - 2).
			Padding(1, 2).
			Render(theme.StyleDimmed.Render("Waiting for the first track..."))
	}

	t := *m.Track
	primary, accent := theme.TrackColors(t)

	source := theme.StyleDimmed.Render("Currently playing " + t.Source())
	title := lipgloss.NewStyle().Bold(true).Foreground(primary).Render(truncate(t.SongName, innerW))
	artists := lipgloss.NewStyle().Foreground(accent).Render(truncate(t.ArtistNames(), innerW))

	elapsed := time.Duration(m.Shown() * float64(t.Duration()))
	clock := fmt.Sprintf(" %s / %s", formatDuration(elapsed), formatDuration(t.Duration()))
	bar := renderBar(m.Shown(), innerW-len(clock), accent) + theme.StyleDimmed.Render(clock)

	content := lipgloss.JoinVertical(lipgloss.Left, source, "", title, artists, "", bar)
	return lipgloss.NewStyle().
		Width(width-2).
		Padding(1, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Render(content)
}

func renderBar(frac float64, width int, color lipgloss.Color) string {
	if width < 10 {
		width = 10
	}
	filled := int(frac * float64(width))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		theme.StyleDimmed.Render(strings.Repeat("░", width-filled))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
