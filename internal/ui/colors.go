package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/skipify/internal/models"
)

var styles = NewPalette("#1DB954", "#04B575", "#FF5F5F", "#FFA500", "#626262")

// interface Painter colors provenance badges for list rows
type Painter interface {
	Badge(models.Source) string
}

var _ Painter = (*Palette)(nil)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	tab   lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).Underline(true),
		tab:   NewStyle(h),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

// Badge renders local entries in the warning color and remote ones in the success color.
func (p *Palette) Badge(src models.Source) string {
	switch src {
	case models.SourceLocal:
		return p.warn.Render(string(src))
	case models.SourceRemote:
		return p.ok.Render(string(src))
	default:
		return p.help.Render("?")
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
