package gridview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/nestgrid/grammar"
)

// Styles controls the grid view's rendering.
type Styles struct {
	Text   lipgloss.Style
	Input  lipgloss.Style
	Lookup lipgloss.Style
	Grid   lipgloss.Style

	Cursor   lipgloss.Style
	Selected lipgloss.Style
	Span     lipgloss.Style

	Status lipgloss.Style
	Title  lipgloss.Style
}

func DefaultStyles() Styles {
	cell := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Padding(0, 1)
	return Styles{
		Text:   cell.Foreground(lipgloss.Color("250")),
		Input:  cell,
		Lookup: cell.Foreground(lipgloss.Color("39")).Italic(true),
		Grid:   cell.BorderForeground(lipgloss.Color("63")),

		Cursor:   lipgloss.NewStyle().BorderForeground(lipgloss.Color("205")).Bold(true),
		Selected: lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Span:     cell.BorderForeground(lipgloss.Color("109")),

		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Title:  lipgloss.NewStyle().Bold(true),
	}
}

// cellStyle picks the base style for a cell by its grammar kind and span.
func (s Styles) cellStyle(g grammar.Grammar, spanned bool) lipgloss.Style {
	switch {
	case spanned:
		return s.Span
	case g.Kind == grammar.KindText:
		return s.Text
	case g.Kind == grammar.KindLookup:
		return s.Lookup
	case g.Kind == grammar.KindGrid:
		return s.Grid
	default:
		return s.Input
	}
}
