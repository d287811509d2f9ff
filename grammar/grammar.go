package grammar

import "sort"

// Kind discriminates the closed set of grammar variants.
type Kind uint8

const (
	// KindText is a read-only text leaf.
	KindText Kind = iota
	// KindInput is an editable text leaf.
	KindInput
	// KindLookup displays the resolved value of another cell.
	KindLookup
	// KindGrid nests a grid of child cells.
	KindGrid
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInput:
		return "input"
	case KindLookup:
		return "lookup"
	case KindGrid:
		return "grid"
	}
	return "unknown"
}

// Span is the number of row and column positions a cell occupies in its
// parent grid. The zero value is not valid; OneByOne is the default.
type Span struct {
	Rows int
	Cols int
}

// OneByOne is the span of an unmerged cell.
var OneByOne = Span{Rows: 1, Cols: 1}

// GridSpec is the payload of a KindGrid grammar: the addressable child
// positions, their spans, and the grid's extents. Positions covered by
// another cell's span are not listed in Children.
type GridSpec struct {
	Children []RowCol
	Spans    map[RowCol]Span
	Rows     int
	Cols     int
}

// Grammar is a single addressable cell's content descriptor. Kind selects
// which payload fields are meaningful: Content for text and input leaves,
// Ref for lookups, Grid for grids. Absorbed holds the grammars removed by a
// merge into this cell, keyed by their former coordinate string, so an
// unmerge can restore them.
type Grammar struct {
	Name     string
	Kind     Kind
	Content  string
	Ref      Coordinate
	Grid     *GridSpec
	Absorbed map[string]Grammar
}

// IsLeaf reports whether g holds content directly rather than children.
func (g *Grammar) IsLeaf() bool { return g.Kind == KindText || g.Kind == KindInput }

// Text returns a read-only text leaf.
func Text(name, value string) Grammar {
	return Grammar{Name: name, Kind: KindText, Content: value}
}

// Input returns an editable text leaf.
func Input(name, value string) Grammar {
	return Grammar{Name: name, Kind: KindInput, Content: value}
}

// LookupTo returns a lookup cell referencing target.
func LookupTo(target Coordinate) Grammar {
	return Grammar{Kind: KindLookup, Ref: target}
}

// AsGrid returns a grid grammar with rows x cols addressable positions and
// no spans.
func AsGrid(rows, cols int) Grammar {
	spec := &GridSpec{
		Children: make([]RowCol, 0, rows*cols),
		Spans:    make(map[RowCol]Span),
		Rows:     rows,
		Cols:     cols,
	}
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			spec.Children = append(spec.Children, RowCol{Row: r, Col: c})
		}
	}
	return Grammar{Kind: KindGrid, Grid: spec}
}

// Default is the grammar a fresh cell starts as: an empty input leaf.
func Default() Grammar { return Input("", "") }

// SpanAt returns the span of the child at pos, defaulting to 1x1.
func (s *GridSpec) SpanAt(pos RowCol) Span {
	if sp, ok := s.Spans[pos]; ok {
		return sp
	}
	return OneByOne
}

// HasChild reports whether pos is an addressable child position.
func (s *GridSpec) HasChild(pos RowCol) bool {
	for _, p := range s.Children {
		if p == pos {
			return true
		}
	}
	return false
}

func (s *GridSpec) removeChild(pos RowCol) {
	for i, p := range s.Children {
		if p == pos {
			s.Children = append(s.Children[:i], s.Children[i+1:]...)
			return
		}
	}
}

func (s *GridSpec) sortChildren() {
	sort.Slice(s.Children, func(i, j int) bool {
		return CompareRowCol(s.Children[i], s.Children[j]) < 0
	})
}

// recomputeExtents sets Rows and Cols to the maximum row and column index
// covered by any child, spans included.
func (s *GridSpec) recomputeExtents() {
	rows, cols := 0, 0
	for _, p := range s.Children {
		sp := s.SpanAt(p)
		if r := p.Row + sp.Rows - 1; r > rows {
			rows = r
		}
		if c := p.Col + sp.Cols - 1; c > cols {
			cols = c
		}
	}
	s.Rows = rows
	s.Cols = cols
}

// occupancy maps every (row, col) position covered by a child (span
// included) to the child that covers it. The bool result is false if two
// children overlap, with the offending position returned.
func (s *GridSpec) occupancy() (map[RowCol]RowCol, RowCol, bool) {
	occ := make(map[RowCol]RowCol, len(s.Children))
	for _, p := range s.Children {
		sp := s.SpanAt(p)
		for r := p.Row; r < p.Row+sp.Rows; r++ {
			for c := p.Col; c < p.Col+sp.Cols; c++ {
				pos := RowCol{Row: r, Col: c}
				if _, taken := occ[pos]; taken {
					return nil, pos, false
				}
				occ[pos] = p
			}
		}
	}
	return occ, RowCol{}, true
}
