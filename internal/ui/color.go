package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

type styles struct {
	pass    lipgloss.Style
	fail    lipgloss.Style
	heading lipgloss.Style
	faint   lipgloss.Style
	insert  lipgloss.Style
	delete  lipgloss.Style
}

// newStyles binds styles to w. Colour is detected from w unless force is set.
func newStyles(w io.Writer, force bool) styles {
	r := lipgloss.NewRenderer(w)
	if force {
		r.SetColorProfile(termenv.ANSI)
	}
	return styles{
		pass:    r.NewStyle().Foreground(lipgloss.Color("2")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("1")),
		heading: r.NewStyle().Bold(true),
		faint:   r.NewStyle().Faint(true),
		insert:  r.NewStyle().Foreground(lipgloss.Color("2")),
		delete:  r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}
