package gridview

import "github.com/iw2rmb/nestgrid/grammar"

// occupantAt returns the child of parent occupying pos, following spans to
// their anchor. The second result is false when pos is outside the grid or
// holds nothing.
func occupantAt(m *grammar.Model, parent grammar.Coordinate, pos grammar.RowCol) (grammar.Coordinate, bool) {
	g, ok := m.Get(parent)
	if !ok || g.Kind != grammar.KindGrid {
		return grammar.Coordinate{}, false
	}
	if pos.Row < 1 || pos.Row > g.Grid.Rows || pos.Col < 1 || pos.Col > g.Grid.Cols {
		return grammar.Coordinate{}, false
	}
	for _, child := range g.Grid.Children {
		sp := g.Grid.SpanAt(child)
		if pos.Row >= child.Row && pos.Row < child.Row+sp.Rows &&
			pos.Col >= child.Col && pos.Col < child.Col+sp.Cols {
			return grammar.ChildOf(parent, child), true
		}
	}
	return grammar.Coordinate{}, false
}

// step moves the cursor one position in the given direction within its
// parent grid, skipping over span interiors. Out-of-bounds moves return the
// cursor unchanged.
func step(m *grammar.Model, cursor grammar.Coordinate, dr, dc int) grammar.Coordinate {
	parent, ok := cursor.Parent()
	if !ok {
		return cursor
	}
	pos, _ := cursor.Pos()

	// A span anchor's visible rectangle ends past its own position; start
	// stepping from the edge the move exits through.
	sp := m.SpanOf(cursor)
	row, col := pos.Row, pos.Col
	if dr > 0 {
		row += sp.Rows - 1
	}
	if dc > 0 {
		col += sp.Cols - 1
	}

	for {
		row += dr
		col += dc
		next, ok := occupantAt(m, parent, grammar.RowCol{Row: row, Col: col})
		if !ok {
			return cursor
		}
		if !next.Equal(cursor) {
			return next
		}
	}
}

// firstChild returns the occupant of a grid's top-left position.
func firstChild(m *grammar.Model, c grammar.Coordinate) (grammar.Coordinate, bool) {
	return occupantAt(m, c, grammar.RowCol{Row: 1, Col: 1})
}
