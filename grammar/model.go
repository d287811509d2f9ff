package grammar

import "sort"

// Options configures a Model.
type Options struct {
	HistoryLimit int     // default: 100
	DefaultRows  int     // default: 2; rows in the initial root grid and nested grids
	DefaultCols  int     // default: 2
	MinZoom      float64 // default: 0.5
	MaxZoom      float64 // default: 2.0
}

func (o Options) withDefaults() Options {
	if o.HistoryLimit == 0 {
		o.HistoryLimit = 100
	}
	if o.DefaultRows == 0 {
		o.DefaultRows = 2
	}
	if o.DefaultCols == 0 {
		o.DefaultCols = 2
	}
	if o.MinZoom == 0 {
		o.MinZoom = 0.5
	}
	if o.MaxZoom == 0 {
		o.MaxZoom = 2.0
	}
	return o
}

type selectionState struct {
	active bool
	start  Coordinate // top-left
	end    Coordinate // bottom-right
}

// Model is the pure document state: the grammar tree, selection, zoom, and
// undo history. It is exclusively owned by its caller; all mutation goes
// through the action methods (or Apply), which run to completion before
// returning.
type Model struct {
	tree  map[string]*Grammar
	title string
	zoom  float64

	sel selectionState

	version     uint64
	treeVersion uint64

	opt  Options
	hist historyState
}

// New returns a Model holding the default document: a root grid of
// DefaultRows x DefaultCols empty input cells.
func New(opt Options) *Model {
	m := &Model{opt: opt.withDefaults()}
	m.tree = defaultTree(m.opt)
	m.zoom = 1.0
	return m
}

func defaultTree(opt Options) map[string]*Grammar {
	tree := make(map[string]*Grammar)
	root := AsGrid(opt.DefaultRows, opt.DefaultCols)
	tree[Root().String()] = &root
	for _, pos := range root.Grid.Children {
		g := Default()
		tree[ChildOf(Root(), pos).String()] = &g
	}
	return tree
}

// Version increments on every observable change to the model.
func (m *Model) Version() uint64 { return m.version }

// TreeVersion increments only when the grammar tree itself changes, not on
// selection or zoom updates.
func (m *Model) TreeVersion() uint64 { return m.treeVersion }

// Title returns the document title.
func (m *Model) Title() string { return m.title }

// SetTitle sets the document title. Titles are not undoable.
func (m *Model) SetTitle(title string) {
	if m.title == title {
		return
	}
	m.title = title
	m.version++
}

// Zoom returns the current scale factor.
func (m *Model) Zoom() float64 { return m.zoom }

// Options returns the options the model was created with.
func (m *Model) Options() Options { return m.opt }

func (m *Model) get(c Coordinate) (*Grammar, bool) {
	g, ok := m.tree[c.String()]
	return g, ok
}

// Get returns a copy of the grammar at c.
func (m *Model) Get(c Coordinate) (Grammar, bool) {
	g, ok := m.get(c)
	if !ok {
		return Grammar{}, false
	}
	return g.clone(), true
}

// Exists reports whether c addresses a cell in the tree.
func (m *Model) Exists(c Coordinate) bool {
	_, ok := m.get(c)
	return ok
}

// ChildrenOf returns the addressable children of the grid at c in row-major
// order, or nil if c is not a grid.
func (m *Model) ChildrenOf(c Coordinate) []Coordinate {
	g, ok := m.get(c)
	if !ok || g.Kind != KindGrid {
		return nil
	}
	out := make([]Coordinate, 0, len(g.Grid.Children))
	for _, pos := range g.Grid.Children {
		out = append(out, ChildOf(c, pos))
	}
	sort.Slice(out, func(i, j int) bool { return Compare(out[i], out[j]) < 0 })
	return out
}

// SpanOf returns the span of the cell at c within its parent grid.
// Cells outside any grid (the root) and unmerged cells are 1x1.
func (m *Model) SpanOf(c Coordinate) Span {
	parent, ok := c.Parent()
	if !ok {
		return OneByOne
	}
	pg, ok := m.get(parent)
	if !ok || pg.Kind != KindGrid {
		return OneByOne
	}
	pos, _ := c.Pos()
	return pg.Grid.SpanAt(pos)
}

// Coordinates returns every coordinate in the tree in canonical order.
func (m *Model) Coordinates() []Coordinate {
	out := make([]Coordinate, 0, len(m.tree))
	for k := range m.tree {
		out = append(out, MustParse(k))
	}
	sort.Slice(out, func(i, j int) bool { return Compare(out[i], out[j]) < 0 })
	return out
}

// Selection returns the selected rectangle as its top-left and bottom-right
// coordinates, or false when nothing is selected.
func (m *Model) Selection() (start, end Coordinate, ok bool) {
	if !m.sel.active {
		return Coordinate{}, Coordinate{}, false
	}
	return m.sel.start, m.sel.end, true
}

// CellInfo is the read-only projection of one cell, sufficient for a
// rendering layer to build a display tree.
type CellInfo struct {
	Coord    Coordinate
	Kind     Kind
	Content  string // resolved value for lookups
	Span     Span
	Children []Coordinate // ordered, nil for leaves
}

// Info returns the read-only projection of the cell at c. Lookup cells
// report their resolved value; an unresolvable lookup reports an empty
// content and the resolution error.
func (m *Model) Info(c Coordinate) (CellInfo, error) {
	g, ok := m.get(c)
	if !ok {
		return CellInfo{}, ErrNotFound
	}
	info := CellInfo{
		Coord: c,
		Kind:  g.Kind,
		Span:  m.SpanOf(c),
	}
	switch g.Kind {
	case KindGrid:
		info.Children = m.ChildrenOf(c)
	case KindLookup:
		v, err := m.ResolveLookup(c)
		if err != nil {
			return info, err
		}
		info.Content = v
	default:
		info.Content = g.Content
	}
	return info, nil
}

// clone returns a deep copy of g. Coordinates are immutable and may be
// shared; slices and maps may not.
func (g *Grammar) clone() Grammar {
	out := *g
	if g.Grid != nil {
		spec := &GridSpec{
			Children: append([]RowCol(nil), g.Grid.Children...),
			Spans:    make(map[RowCol]Span, len(g.Grid.Spans)),
			Rows:     g.Grid.Rows,
			Cols:     g.Grid.Cols,
		}
		for k, v := range g.Grid.Spans {
			spec.Spans[k] = v
		}
		out.Grid = spec
	}
	if g.Absorbed != nil {
		out.Absorbed = make(map[string]Grammar, len(g.Absorbed))
		for k, v := range g.Absorbed {
			out.Absorbed[k] = v.clone()
		}
	}
	return out
}

func cloneTree(tree map[string]*Grammar) map[string]*Grammar {
	out := make(map[string]*Grammar, len(tree))
	for k, g := range tree {
		c := g.clone()
		out[k] = &c
	}
	return out
}
