// Package help renders the key binding overlay as Markdown through glamour.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/zone-feed/nowplaying/internal/theme"
)

// Model renders help for a fixed set of bindings.
type Model struct {
	Bindings []key.Binding
	Zone     string
	// Style is a glamour standard style name ("dark", "light", "notty").
	Style string
}

// New creates a help overlay using the dark style.
func New(zone string, bindings []key.Binding) Model {
	return Model{Bindings: bindings, Zone: zone, Style: "dark"}
}

// Markdown returns the overlay source.
func (m Model) Markdown() string {
	var b strings.Builder
	b.WriteString("# Now playing\n\n")
	fmt.Fprintf(&b, "Following zone `%s`. Live tracks appear at the top of the list as they start playing.\n\n", m.Zone)
	b.WriteString("## Keys\n\n")
	for _, kb := range m.Bindings {
		h := kb.Help()
		if h.Key == "" {
			continue
		}
		fmt.Fprintf(&b, "- **%s** %s\n", h.Key, h.Desc)
	}
	return b.String()
}

// View renders the overlay. Rendering errors fall back to the raw Markdown.
func (m Model) View(width int) string {
	if width < 40 {
		width = 40
	}
	md := m.Markdown()
	body := md

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.Style),
		glamour.WithWordWrap(width-8),
	)
	if err == nil {
		if out, err := r.Render(md); err == nil {
			body = out
		}
	}

	return lipgloss.NewStyle().
		Width(width-4).
		Padding(0, 1).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder).
		Render(strings.TrimRight(body, "\n") + "\n" + theme.StyleDimmed.Render("esc:close"))
}
