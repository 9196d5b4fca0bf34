// Package theme provides the Lip Gloss color palette and reusable styles
// for the nowplaying TUI. It is a leaf package apart from the client types
// it colors.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/zone-feed/nowplaying/internal/client"
)

// Feed state colors.
var (
	ColorIdle       = lipgloss.Color("#4b5563")
	ColorConnecting = lipgloss.Color("#d97706")
	ColorJoined     = lipgloss.Color("#22c55e")
	ColorClosed     = lipgloss.Color("#dc2626")
)

// Debug log kind colors.
var (
	ColorSocket  = lipgloss.Color("#2563eb")
	ColorHTTP    = lipgloss.Color("#06b6d4")
	ColorMock    = lipgloss.Color("#a855f7")
	ColorKey     = lipgloss.Color("#7c3aed")
	ColorErrored = lipgloss.Color("#dc2626")
)

// Fallback track palette when a record carries no colors.
var (
	ColorTrackPrimary = lipgloss.Color("#e5e7eb")
	ColorTrackAccent  = lipgloss.Color("#3b82f6")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorBg      = lipgloss.Color("#111827")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// StateColor returns the color for a subscription state.
func StateColor(s client.State) lipgloss.Color {
	switch s {
	case client.StateConnecting:
		return ColorConnecting
	case client.StateJoined:
		return ColorJoined
	case client.StateClosed:
		return ColorClosed
	default:
		return ColorIdle
	}
}

// StateGlyph returns a Unicode glyph for a subscription state.
func StateGlyph(s client.State) string {
	switch s {
	case client.StateConnecting:
		return "◌"
	case client.StateJoined:
		return "●"
	case client.StateClosed:
		return "○"
	default:
		return "·"
	}
}

// TrackColors returns the primary and accent colors of a track, falling
// back to the default palette for missing or malformed hex values.
func TrackColors(s client.Scrobble) (primary, accent lipgloss.Color) {
	primary, accent = ColorTrackPrimary, ColorTrackAccent
	if isHex(s.Colors.Primary) {
		primary = lipgloss.Color(s.Colors.Primary)
	}
	if isHex(s.Colors.Accent) {
		accent = lipgloss.Color(s.Colors.Accent)
	}
	return primary, accent
}

func isHex(c string) bool {
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	for i := 1; i < len(c); i++ {
		switch ch := c[i]; {
		case ch >= '0' && ch <= '9', ch >= 'a' && ch <= 'f', ch >= 'A' && ch <= 'F':
		default:
			return false
		}
	}
	return true
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
		Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)
)
