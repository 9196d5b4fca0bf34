// Package history renders the recently played list, newest first.
package history

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/zone-feed/nowplaying/internal/client"
	"github.com/zone-feed/nowplaying/internal/theme"
)

// Model holds the list state.
type Model struct {
	Items    []client.Scrobble
	Selected int
}

// New creates an empty list.
func New() Model {
	return Model{}
}

// SetItems replaces the list, keeping the selection in range.
func (m *Model) SetItems(items []client.Scrobble) {
	m.Items = items
	m.clampSelection()
}

// Prepend puts s at the top. The selection follows the row it was on.
func (m *Model) Prepend(s client.Scrobble) {
	m.Items = append([]client.Scrobble{s}, m.Items...)
	if m.Selected > 0 {
		m.Selected++
	}
}

func (m *Model) Up() {
	if m.Selected > 0 {
		m.Selected--
	}
}

func (m *Model) Down() {
	if m.Selected < len(m.Items)-1 {
		m.Selected++
	}
}

func (m *Model) clampSelection() {
	if m.Selected >= len(m.Items) {
		m.Selected = len(m.Items) - 1
	}
	if m.Selected < 0 {
		m.Selected = 0
	}
}

// View renders at most height rows, scrolled so the selection is visible.
func (m Model) View(width, height int) string {
	if height < 3 {
		height = 3
	}
	header := theme.StyleHeader.Render("RECENTLY PLAYED")
	if len(m.Items) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, theme.StyleDimmed.Render("  No tracks yet"))
	}

	rows := height - 1
	if len(m.Items) > rows {
		rows-- // room for the overflow hint
	}
	start := 0
	if m.Selected >= rows {
		start = m.Selected - rows + 1
	}
	end := start + rows
	if end > len(m.Items) {
		end = len(m.Items)
	}

	lines := []string{header}
	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(m.Items[i], i == m.Selected, width))
	}
	if end < len(m.Items) {
		lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf("  … %d more", len(m.Items)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderRow(s client.Scrobble, selected bool, width int) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	at := "--:--"
	if t := s.Created(); !t.IsZero() {
		at = t.Local().Format("15:04")
	}

	_, accent := theme.TrackColors(s)
	marker := lipgloss.NewStyle().Foreground(accent).Render("▌")

	text := s.SongName
	if artists := s.ArtistNames(); artists != "" {
		text += " - " + artists
	}
	if max := width - 12; max > 4 && len([]rune(text)) > max {
		text = string([]rune(text)[:max-1]) + "…"
	}
	if selected {
		text = theme.StyleSelected.Render(text)
	}
	return prefix + theme.StyleDimmed.Render(at) + " " + marker + " " + text
}
