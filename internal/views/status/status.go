package status

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/zone-feed/nowplaying/internal/client"
	"github.com/zone-feed/nowplaying/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	State     client.State
	Zone      string
	Tracks    int
	LastError string
	Loading   string // spinner frame while history loads, empty otherwise
	Width     int
}

// New creates a status bar model.
func New(zone string) Model {
	return Model{Zone: zone}
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	color := theme.StateColor(m.State)
	label := m.State.String()
	if m.State == client.StateConnecting {
		label += "..."
	}
	stateStr := lipgloss.NewStyle().Foreground(color).Render(theme.StateGlyph(m.State) + " " + label)

	zone := m.Zone
	if len(zone) > 16 {
		zone = zone[:15] + "…"
	}
	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := stateStr + sep + theme.StyleDimmed.Render("zone "+zone) + sep + fmt.Sprintf("%d tracks", m.Tracks)
	if m.Loading != "" {
		content += sep + m.Loading + " loading history"
	}
	if m.LastError != "" {
		content += sep + lipgloss.NewStyle().Foreground(theme.ColorDanger).Render(m.LastError)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
