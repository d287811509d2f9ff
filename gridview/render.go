package gridview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/iw2rmb/nestgrid/grammar"
)

// Cell content is truncated to this many columns at zoom 1.0.
const baseCellWidth = 12

func (m Model) View() string {
	var sections []string

	if title := m.doc.Title(); title != "" {
		sections = append(sections, m.cfg.Styles.Title.Render(title))
	}

	sections = append(sections, m.renderGrid(grammar.Root()))

	if m.editing {
		sections = append(sections, m.input.View())
	}
	if m.cfg.ShowStatus {
		sections = append(sections, m.cfg.Styles.Status.Render(m.statusLine()))
	}
	return strings.Join(sections, "\n")
}

func (m Model) statusLine() string {
	s := fmt.Sprintf("%s  zoom %d%%", m.cursor, int(m.doc.Zoom()*100+0.5))
	if m.anchorSet {
		s += "  select " + m.anchor.String() + ".." + m.cursor.String()
	}
	if m.status != "" {
		s += "  " + m.status
	}
	return s
}

func (m Model) maxCellWidth() int {
	w := int(baseCellWidth * m.doc.Zoom())
	if w < 3 {
		w = 3
	}
	return w
}

// renderGrid lays out the grid at c as bordered boxes. Column-spanning
// cells take the combined width of the columns they cover; positions under
// a row span render as blank continuation boxes.
func (m Model) renderGrid(c grammar.Coordinate) string {
	info, err := m.doc.Info(c)
	if err != nil || info.Kind != grammar.KindGrid {
		return m.renderLeaf(c)
	}

	g, _ := m.doc.Get(c)
	spec := g.Grid

	content := make(map[grammar.RowCol]string, len(spec.Children))
	for _, pos := range spec.Children {
		content[pos] = m.cellText(grammar.ChildOf(c, pos))
	}

	colW := make([]int, spec.Cols+1)
	for col := 1; col <= spec.Cols; col++ {
		colW[col] = 1
	}
	for _, pos := range spec.Children {
		if spec.SpanAt(pos).Cols != 1 {
			continue
		}
		if w := lipgloss.Width(content[pos]); w > colW[pos.Col] {
			colW[pos.Col] = w
		}
	}
	// Widen the last covered column when a span's content would not fit.
	for _, pos := range spec.Children {
		sp := spec.SpanAt(pos)
		if sp.Cols == 1 {
			continue
		}
		have := 0
		for col := pos.Col; col < pos.Col+sp.Cols; col++ {
			have += colW[col]
		}
		have += (sp.Cols - 1) * boxFrameWidth(m.cfg.Styles.Input)
		if need := lipgloss.Width(content[pos]) - have; need > 0 {
			colW[pos.Col+sp.Cols-1] += need
		}
	}

	rows := make([]string, 0, spec.Rows)
	for r := 1; r <= spec.Rows; r++ {
		var boxes []string
		for col := 1; col <= spec.Cols; col++ {
			pos := grammar.RowCol{Row: r, Col: col}
			child, ok := occupant(spec, pos)
			if !ok {
				boxes = append(boxes, m.blankBox(colW[col]))
				continue
			}
			sp := spec.SpanAt(child)
			if child == pos {
				width := 0
				for cc := col; cc < col+sp.Cols; cc++ {
					width += colW[cc]
				}
				width += (sp.Cols - 1) * boxFrameWidth(m.cfg.Styles.Input)
				boxes = append(boxes, m.cellBox(grammar.ChildOf(c, child), content[pos], width, sp))
				col += sp.Cols - 1
				continue
			}
			if child.Row < r {
				// Continuation of a row span anchored above.
				boxes = append(boxes, m.cfg.Styles.Span.Width(colW[col]).Render(""))
			}
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// occupant returns the child whose rectangle covers pos.
func occupant(spec *grammar.GridSpec, pos grammar.RowCol) (grammar.RowCol, bool) {
	for _, child := range spec.Children {
		sp := spec.SpanAt(child)
		if pos.Row >= child.Row && pos.Row < child.Row+sp.Rows &&
			pos.Col >= child.Col && pos.Col < child.Col+sp.Cols {
			return child, true
		}
	}
	return grammar.RowCol{}, false
}

// cellText returns the unboxed display text of one cell: leaf content,
// resolved lookup value, or the recursive rendering of a nested grid.
func (m Model) cellText(c grammar.Coordinate) string {
	info, err := m.doc.Info(c)
	if err != nil {
		if info.Kind == grammar.KindLookup {
			return "#REF"
		}
		return ""
	}
	if info.Kind == grammar.KindGrid {
		return m.renderGrid(c)
	}
	return runewidth.Truncate(info.Content, m.maxCellWidth(), "…")
}

func (m Model) renderLeaf(c grammar.Coordinate) string {
	return m.cellBox(c, m.cellText(c), 0, grammar.OneByOne)
}

func (m Model) cellBox(c grammar.Coordinate, text string, width int, sp grammar.Span) string {
	g, ok := m.doc.Get(c)
	if !ok {
		return ""
	}
	st := m.cfg.Styles.cellStyle(g, sp != grammar.OneByOne)
	if m.isSelected(c) {
		st = st.Inherit(m.cfg.Styles.Selected)
	}
	if c.Equal(m.cursor) {
		st = st.Inherit(m.cfg.Styles.Cursor)
	}
	if width > 0 {
		st = st.Width(width + st.GetHorizontalPadding())
	}
	return st.Render(text)
}

func (m Model) isSelected(c grammar.Coordinate) bool {
	start, end, ok := m.doc.Selection()
	if !ok {
		return false
	}
	parent, pok := c.Parent()
	sparent, _ := start.Parent()
	if !pok || !parent.Equal(sparent) {
		return false
	}
	pos, _ := c.Pos()
	sp, _ := start.Pos()
	ep, _ := end.Pos()
	return pos.Row >= sp.Row && pos.Row <= ep.Row && pos.Col >= sp.Col && pos.Col <= ep.Col
}

func (m Model) blankBox(width int) string {
	return m.cfg.Styles.Input.Width(width + m.cfg.Styles.Input.GetHorizontalPadding()).Render("")
}

// boxFrameWidth is the horizontal border plus padding overhead of one box.
func boxFrameWidth(st lipgloss.Style) int {
	return st.GetHorizontalFrameSize()
}
