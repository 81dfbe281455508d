package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/reelx/internal/models"
)

var (
	lightPalette = NewPalette("#5A3FC0", "#0B7A4B", "#C0392B", "#B35C00", "#6B6B6B")
	darkPalette  = NewPalette("#B69CFF", "#04D98B", "#FF6B6B", "#FFB347", "#9A9A9A")
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	accent lipgloss.Color
	muted  lipgloss.Color

	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		accent: lipgloss.Color(t),
		muted:  lipgloss.Color(h),
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
	}
}

// PaletteFor returns the stylesheet of theme.
func PaletteFor(theme models.Theme) *Palette {
	if theme == models.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// delegate returns a list delegate whose selection follows the palette accent.
func (p *Palette) delegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(p.accent).BorderLeftForeground(p.accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(p.accent).BorderLeftForeground(p.accent)
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(p.muted)
	return d
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
