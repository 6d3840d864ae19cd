package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette(Colors{
	Title:   "#F5C518",
	Success: "#04B575",
	Failure: "#FF4D4D",
	Warning: "#FFA500",
	Muted:   "#626262",
})

// Colors names the hex foreground used for each role in a [Palette].
type Colors struct {
	Title   string
	Success string
	Failure string
	Warning string
	Muted   string
}

// Palette is the stylesheet for the movie browser, one [lipgloss.Style] per role.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
}

func NewPalette(c Colors) *Palette {
	return &Palette{
		title: NewBold(c.Title).MarginBottom(1),
		ok:    NewBold(c.Success),
		err:   NewBold(c.Failure),
		warn:  NewStyle(c.Warning),
		muted: NewEm(c.Muted),
	}
}

// rating picks a style for a 0-10 rating: high ratings read as success, low ones as a warning.
func (p *Palette) rating(r float64) lipgloss.Style {
	switch {
	case r <= 0:
		return p.muted
	case r >= 7.5:
		return p.ok
	case r < 5:
		return p.warn
	default:
		return lipgloss.NewStyle()
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
