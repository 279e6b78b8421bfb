package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/ncmx/internal/actions"
)

var styles = NewPalette("#C20C0C", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
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

// Toast returns the style for a notification of the given kind.
func (p *Palette) Toast(kind actions.ToastKind) lipgloss.Style {
	switch kind {
	case actions.ToastSuccess:
		return p.ok
	case actions.ToastWarning:
		return p.warn
	case actions.ToastError:
		return p.err
	default:
		return p.help
	}
}

// RenderToast formats t as a single styled line.
func RenderToast(t actions.Toast) string {
	return styles.Toast(t.Kind).Render(toastIcon(t.Kind) + " " + t.Message)
}

func toastIcon(kind actions.ToastKind) string {
	switch kind {
	case actions.ToastSuccess:
		return "✓"
	case actions.ToastWarning:
		return "!"
	case actions.ToastError:
		return "✗"
	default:
		return "•"
	}
}
