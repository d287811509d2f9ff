package grammar

import (
	"fmt"
	"math"
)

// ActionKind identifies the edit requested by a caller.
type ActionKind uint8

const (
	ActionInsertRow ActionKind = iota
	ActionInsertColumn
	ActionDeleteRow
	ActionDeleteColumn
	ActionMerge
	ActionUnmerge
	ActionNest
	ActionSetCellValue
	ActionSetLookup
	ActionSelect
	ActionClearSelection
	ActionZoomIn
	ActionZoomOut
	ActionZoomReset
	ActionReset
	ActionUndo
	ActionRedo
)

// Action is one user-originated edit. Kind selects which fields are read:
// Target is the grid or cell the action addresses, Ref is the merge
// partner, lookup target, or selection end, Index is the row or column
// index for inserts and deletes, Rows/Cols size a nested grid (0 means the
// model default), and Content is the new value for ActionSetCellValue.
type Action struct {
	Kind    ActionKind
	Target  Coordinate
	Ref     Coordinate
	Index   int
	Rows    int
	Cols    int
	Content string
}

// Apply dispatches a to the matching operation. A non-nil error means the
// action was rejected and the model is unchanged; rejected actions are
// never recorded in the undo history.
func (m *Model) Apply(a Action) error {
	switch a.Kind {
	case ActionInsertRow:
		return m.InsertRow(a.Target, a.Index)
	case ActionInsertColumn:
		return m.InsertColumn(a.Target, a.Index)
	case ActionDeleteRow:
		return m.DeleteRow(a.Target, a.Index)
	case ActionDeleteColumn:
		return m.DeleteColumn(a.Target, a.Index)
	case ActionMerge:
		return m.Merge(a.Target, a.Ref)
	case ActionUnmerge:
		return m.Unmerge(a.Target)
	case ActionNest:
		return m.Nest(a.Target, a.Rows, a.Cols)
	case ActionSetCellValue:
		return m.SetCellValue(a.Target, a.Content)
	case ActionSetLookup:
		return m.SetLookup(a.Target, a.Ref)
	case ActionSelect:
		return m.Select(a.Target, a.Ref)
	case ActionClearSelection:
		m.ClearSelection()
		return nil
	case ActionZoomIn:
		m.ZoomIn()
		return nil
	case ActionZoomOut:
		m.ZoomOut()
		return nil
	case ActionZoomReset:
		m.ZoomReset()
		return nil
	case ActionReset:
		m.Reset()
		return nil
	case ActionUndo:
		m.Undo()
		return nil
	case ActionRedo:
		m.Redo()
		return nil
	}
	return fmt.Errorf("unknown action kind %d", a.Kind)
}

// InsertRow inserts a row of empty input cells into the grid at `at`,
// directly below row `after` (0 inserts before the first row). Existing
// cells below the insertion point shift down one row, their subtrees
// re-keyed to match. Spans crossing the insertion point grow by one row
// instead of being split.
func (m *Model) InsertRow(at Coordinate, after int) error {
	return m.insertLine(at, after, false)
}

// InsertColumn is InsertRow along the column axis.
func (m *Model) InsertColumn(at Coordinate, after int) error {
	return m.insertLine(at, after, true)
}

// DeleteRow removes row `row` from the grid at `at`, discarding the
// subtrees of the removed cells and shifting later rows up. Spans crossing
// the row shrink by one. Deleting the only row fails with a
// MinimumSizeError.
func (m *Model) DeleteRow(at Coordinate, row int) error {
	return m.deleteLine(at, row, false)
}

// DeleteColumn is DeleteRow along the column axis.
func (m *Model) DeleteColumn(at Coordinate, col int) error {
	return m.deleteLine(at, col, true)
}

func (m *Model) gridAt(at Coordinate) (*Grammar, error) {
	g, ok := m.get(at)
	if !ok {
		return nil, ErrNotFound
	}
	if g.Kind != KindGrid {
		return nil, &NotAGridError{Cell: at}
	}
	return g, nil
}

func (m *Model) insertLine(at Coordinate, after int, byCol bool) error {
	g, err := m.gridAt(at)
	if err != nil {
		return err
	}
	spec := g.Grid

	extent := spec.Rows
	if byCol {
		extent = spec.Cols
	}
	if after < 0 || after > extent {
		return &BoundsError{Grid: at, Index: after, Max: extent}
	}

	prev := m.snapshot()

	moves := make(map[RowCol]RowCol)
	grown := make(map[RowCol]Span)
	covered := make(map[int]bool) // cross positions under a crossing span
	for _, p := range spec.Children {
		sp := spec.SpanAt(p)
		main := axisMain(p, byCol)
		length := axisSpan(sp, byCol)
		switch {
		case main > after:
			moves[p] = withMain(p, main+1, byCol)
		case main+length-1 > after:
			// Span covers both sides of the insertion point.
			grown[p] = growSpan(sp, byCol, 1)
			for i := 0; i < axisSpan(sp, !byCol); i++ {
				covered[axisCross(p, byCol)+i] = true
			}
		}
	}

	m.remapChildren(at, moves, nil)
	m.shiftAbsorbed(at, func(pos RowCol) (RowCol, bool) {
		if axisMain(pos, byCol) > after {
			return withMain(pos, axisMain(pos, byCol)+1, byCol), true
		}
		return pos, true
	})

	spans := make(map[RowCol]Span, len(spec.Spans))
	for p, sp := range spec.Spans {
		if gs, ok := grown[p]; ok {
			sp = gs
		}
		if np, ok := moves[p]; ok {
			p = np
		}
		spans[p] = sp
	}
	children := make([]RowCol, 0, len(spec.Children))
	for _, p := range spec.Children {
		if np, ok := moves[p]; ok {
			p = np
		}
		children = append(children, p)
	}

	crossExtent := spec.Cols
	if byCol {
		crossExtent = spec.Rows
	}
	for cross := 1; cross <= crossExtent; cross++ {
		if covered[cross] {
			continue
		}
		pos := makePos(after+1, cross, byCol)
		children = append(children, pos)
		fresh := Default()
		m.tree[ChildOf(at, pos).String()] = &fresh
	}

	spec.Children = children
	spec.Spans = spans
	spec.sortChildren()
	spec.recomputeExtents()

	m.recordUndo(prev)
	m.version++
	m.treeVersion++
	return nil
}

func (m *Model) deleteLine(at Coordinate, index int, byCol bool) error {
	g, err := m.gridAt(at)
	if err != nil {
		return err
	}
	spec := g.Grid

	extent := spec.Rows
	if byCol {
		extent = spec.Cols
	}
	if index < 1 || index > extent {
		return &BoundsError{Grid: at, Index: index, Max: extent}
	}
	if extent == 1 {
		return &MinimumSizeError{Grid: at}
	}

	prev := m.snapshot()

	moves := make(map[RowCol]RowCol)
	drops := make(map[RowCol]bool)
	shrunk := make(map[RowCol]Span)
	for _, p := range spec.Children {
		sp := spec.SpanAt(p)
		main := axisMain(p, byCol)
		length := axisSpan(sp, byCol)
		switch {
		case main == index && length == 1:
			drops[p] = true
		case main <= index && main+length-1 >= index:
			shrunk[p] = growSpan(sp, byCol, -1)
		case main > index:
			moves[p] = withMain(p, main-1, byCol)
		}
	}

	m.remapChildren(at, moves, drops)
	m.shiftAbsorbed(at, func(pos RowCol) (RowCol, bool) {
		main := axisMain(pos, byCol)
		if main == index {
			return pos, false
		}
		if main > index {
			return withMain(pos, main-1, byCol), true
		}
		return pos, true
	})

	spans := make(map[RowCol]Span, len(spec.Spans))
	for p, sp := range spec.Spans {
		if drops[p] {
			continue
		}
		if s, ok := shrunk[p]; ok {
			sp = s
		}
		if np, ok := moves[p]; ok {
			p = np
		}
		if sp != OneByOne {
			spans[p] = sp
		}
	}
	children := make([]RowCol, 0, len(spec.Children))
	for _, p := range spec.Children {
		if drops[p] {
			continue
		}
		if np, ok := moves[p]; ok {
			p = np
		}
		children = append(children, p)
	}

	spec.Children = children
	spec.Spans = spans
	spec.sortChildren()
	spec.recomputeExtents()

	m.recordUndo(prev)
	m.version++
	m.treeVersion++
	return nil
}

// Merge combines the axis-aligned rectangle of sibling cells spanned by a
// and b into a single cell anchored at the rectangle's top-left. The other
// cells leave the addressable child list; their grammars and subtrees are
// retained against the anchor so Unmerge can restore them.
func (m *Model) Merge(a, b Coordinate) error {
	if !m.Exists(a) || !m.Exists(b) {
		return ErrNotFound
	}
	pa, okA := a.Parent()
	pb, okB := b.Parent()
	if !okA || !okB || !pa.Equal(pb) || a.Equal(b) {
		return &NonContiguousError{A: a, B: b}
	}
	pg, err := m.gridAt(pa)
	if err != nil {
		return err
	}
	spec := pg.Grid

	posA, _ := a.Pos()
	posB, _ := b.Pos()
	r1, r2 := minInt(posA.Row, posB.Row), maxInt(posA.Row, posB.Row)
	c1, c2 := minInt(posA.Col, posB.Col), maxInt(posA.Col, posB.Col)

	occ, _, ok := spec.occupancy()
	if !ok {
		return &InvariantError{At: pa, Detail: "overlapping spans"}
	}
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			pos := RowCol{Row: r, Col: c}
			anchor, found := occ[pos]
			if !found {
				return &NonContiguousError{A: a, B: b}
			}
			if spec.SpanAt(anchor) != OneByOne {
				return &AlreadySpannedError{Cell: ChildOf(pa, anchor)}
			}
		}
	}

	prev := m.snapshot()

	topLeft := RowCol{Row: r1, Col: c1}
	drops := make(map[RowCol]bool)
	for r := r1; r <= r2; r++ {
		for c := c1; c <= c2; c++ {
			pos := RowCol{Row: r, Col: c}
			if pos != topLeft {
				drops[pos] = true
			}
		}
	}

	dropped := m.remapChildren(pa, nil, drops)

	anchor := m.tree[ChildOf(pa, topLeft).String()]
	anchor.Absorbed = make(map[string]Grammar, len(dropped))
	for k, dg := range dropped {
		anchor.Absorbed[k] = *dg
	}

	for pos := range drops {
		spec.removeChild(pos)
		delete(spec.Spans, pos)
	}
	spec.Spans[topLeft] = Span{Rows: r2 - r1 + 1, Cols: c2 - c1 + 1}
	spec.sortChildren()
	spec.recomputeExtents()

	m.recordUndo(prev)
	m.version++
	m.treeVersion++
	return nil
}

// Unmerge restores the cells absorbed by a previous Merge of the cell at c
// and resets its span to 1x1. Unmerging an unmerged cell is a no-op.
func (m *Model) Unmerge(c Coordinate) error {
	g, ok := m.get(c)
	if !ok {
		return ErrNotFound
	}
	parent, hasParent := c.Parent()
	if !hasParent {
		return nil
	}
	pg, err := m.gridAt(parent)
	if err != nil {
		return err
	}
	spec := pg.Grid
	pos, _ := c.Pos()
	if spec.SpanAt(pos) == OneByOne {
		return nil
	}

	prev := m.snapshot()

	delete(spec.Spans, pos)
	for k, ag := range g.Absorbed {
		cc := MustParse(k)
		restored := ag.clone()
		m.tree[k] = &restored
		if p, _ := cc.Parent(); p.Equal(parent) {
			cpos, _ := cc.Pos()
			spec.Children = append(spec.Children, cpos)
		}
	}
	g.Absorbed = nil
	spec.sortChildren()
	spec.recomputeExtents()

	m.recordUndo(prev)
	m.version++
	m.treeVersion++
	return nil
}

// Nest converts the leaf at c into a rows x cols grid of empty input
// cells (0 selects the model defaults). The former leaf content is kept as
// the content of the new grid's (1,1) cell.
func (m *Model) Nest(c Coordinate, rows, cols int) error {
	g, ok := m.get(c)
	if !ok {
		return ErrNotFound
	}
	if !g.IsLeaf() {
		return &NotALeafError{Cell: c}
	}
	if rows == 0 {
		rows = m.opt.DefaultRows
	}
	if cols == 0 {
		cols = m.opt.DefaultCols
	}
	if rows < 1 {
		return &BoundsError{Grid: c, Index: rows, Max: 0}
	}
	if cols < 1 {
		return &BoundsError{Grid: c, Index: cols, Max: 0}
	}

	prev := m.snapshot()

	content := g.Content
	grid := AsGrid(rows, cols)
	grid.Name = g.Name
	grid.Absorbed = g.Absorbed
	*g = grid
	for _, pos := range grid.Grid.Children {
		child := Default()
		if (pos == RowCol{Row: 1, Col: 1}) {
			child = Input("", content)
		}
		m.tree[ChildOf(c, pos).String()] = &child
	}

	m.recordUndo(prev)
	m.version++
	m.treeVersion++
	return nil
}

// NestTable converts the leaf at c into a grid holding values, one input
// cell per field, sized to the longest row. The whole conversion is one
// undo step.
func (m *Model) NestTable(c Coordinate, values [][]string) error {
	g, ok := m.get(c)
	if !ok {
		return ErrNotFound
	}
	if !g.IsLeaf() {
		return &NotALeafError{Cell: c}
	}
	rows := len(values)
	cols := 0
	for _, row := range values {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if rows < 1 {
		return &BoundsError{Grid: c, Index: rows, Max: 0}
	}
	if cols < 1 {
		return &BoundsError{Grid: c, Index: cols, Max: 0}
	}

	prev := m.snapshot()

	grid := AsGrid(rows, cols)
	grid.Name = g.Name
	grid.Absorbed = g.Absorbed
	*g = grid
	for _, pos := range grid.Grid.Children {
		var val string
		if pos.Col <= len(values[pos.Row-1]) {
			val = values[pos.Row-1][pos.Col-1]
		}
		child := Input("", val)
		m.tree[ChildOf(c, pos).String()] = &child
	}

	m.recordUndo(prev)
	m.version++
	m.treeVersion++
	return nil
}

// SetCellValue replaces the content of the leaf at c. Setting the value a
// cell already holds is a no-op and records nothing.
func (m *Model) SetCellValue(c Coordinate, content string) error {
	g, ok := m.get(c)
	if !ok {
		return ErrNotFound
	}
	if !g.IsLeaf() {
		return &NotALeafError{Cell: c}
	}
	if g.Content == content {
		return nil
	}

	prev := m.snapshot()
	g.Content = content
	m.recordUndo(prev)
	m.version++
	m.treeVersion++
	return nil
}

// SetLookup converts the leaf at c into a lookup referencing target.
// An immediate self-reference is rejected with a CycleError; longer cycles
// are detected at resolution time.
func (m *Model) SetLookup(c, target Coordinate) error {
	g, ok := m.get(c)
	if !ok {
		return ErrNotFound
	}
	if g.Kind == KindGrid {
		return &NotALeafError{Cell: c}
	}
	if c.Equal(target) {
		return &CycleError{At: c}
	}

	prev := m.snapshot()
	*g = Grammar{Name: g.Name, Kind: KindLookup, Ref: target, Absorbed: g.Absorbed}
	m.recordUndo(prev)
	m.version++
	m.treeVersion++
	return nil
}

// Select sets the selection to the rectangle spanned by sibling cells a
// and b. Selection is cosmetic state: it bumps Version but never the tree
// version or the history.
func (m *Model) Select(a, b Coordinate) error {
	if !m.Exists(a) || !m.Exists(b) {
		return ErrNotFound
	}
	pa, okA := a.Parent()
	pb, okB := b.Parent()
	if !okA || !okB || !pa.Equal(pb) {
		return &NonContiguousError{A: a, B: b}
	}

	posA, _ := a.Pos()
	posB, _ := b.Pos()
	start := ChildOf(pa, RowCol{Row: minInt(posA.Row, posB.Row), Col: minInt(posA.Col, posB.Col)})
	end := ChildOf(pa, RowCol{Row: maxInt(posA.Row, posB.Row), Col: maxInt(posA.Col, posB.Col)})

	next := selectionState{active: true, start: start, end: end}
	if m.sel.active && m.sel.start.Equal(start) && m.sel.end.Equal(end) {
		return nil
	}
	m.sel = next
	m.version++
	return nil
}

// ClearSelection deactivates the selection.
func (m *Model) ClearSelection() {
	if !m.sel.active {
		return
	}
	m.sel = selectionState{}
	m.version++
}

// ZoomIn increases the scale factor by one step.
func (m *Model) ZoomIn() { m.setZoom(m.zoom + 0.1) }

// ZoomOut decreases the scale factor by one step.
func (m *Model) ZoomOut() { m.setZoom(m.zoom - 0.1) }

// ZoomReset restores the default scale factor.
func (m *Model) ZoomReset() { m.setZoom(1.0) }

func (m *Model) setZoom(z float64) {
	z = math.Round(z*10) / 10
	if z < m.opt.MinZoom {
		z = m.opt.MinZoom
	}
	if z > m.opt.MaxZoom {
		z = m.opt.MaxZoom
	}
	if z == m.zoom {
		return
	}
	m.zoom = z
	m.version++
}

// Reset replaces the model with the default initial document and clears
// the history.
func (m *Model) Reset() {
	m.tree = defaultTree(m.opt)
	m.title = ""
	m.zoom = 1.0
	m.sel = selectionState{}
	m.hist = historyState{}
	m.version++
	m.treeVersion++
}

// remapChildren rewrites every tree entry inside the grid at `at` whose
// immediate child position appears in moves or drops, descendants
// included. Dropped entries are removed from the tree and returned keyed
// by their former coordinate string.
func (m *Model) remapChildren(at Coordinate, moves map[RowCol]RowCol, drops map[RowCol]bool) map[string]*Grammar {
	depth := at.Depth()
	next := make(map[string]*Grammar, len(m.tree))
	dropped := make(map[string]*Grammar)
	for k, g := range m.tree {
		c := MustParse(k)
		if !at.IsAncestorOf(c) {
			next[k] = g
			continue
		}
		pos := c.Level(depth)
		if drops[pos] {
			dropped[k] = g
			continue
		}
		if np, ok := moves[pos]; ok {
			next[withLevel(c, depth, np).String()] = g
			continue
		}
		next[k] = g
	}
	m.tree = next
	return dropped
}

// shiftAbsorbed applies fn to the level-`depth` position of every absorbed
// cell key stored inside the subtree of `at`, so retained merge content
// tracks row and column shifts. fn returning false discards the entry.
func (m *Model) shiftAbsorbed(at Coordinate, fn func(RowCol) (RowCol, bool)) {
	depth := at.Depth()
	for k, g := range m.tree {
		holder := MustParse(k)
		if !at.IsAncestorOf(holder) {
			continue
		}
		rewriteAbsorbedKeys(g, depth, fn)
		dropShadowedAbsorbed(g, holder)
	}
}

// dropShadowedAbsorbed discards absorbed entries whose key landed on the
// anchor holding them, or inside its subtree. A delete that crosses a span
// shifts absorbed keys toward the anchor; when the deleted line is the
// anchor's own, the nearest absorbed cell shifts onto the anchor's
// coordinate, and its slot no longer exists. Restoring such an entry would
// overwrite the live anchor and duplicate its child position.
func dropShadowedAbsorbed(g *Grammar, holder Coordinate) {
	for k := range g.Absorbed {
		c := MustParse(k)
		if c.Equal(holder) || holder.IsAncestorOf(c) {
			delete(g.Absorbed, k)
		}
	}
	if len(g.Absorbed) == 0 {
		g.Absorbed = nil
	}
}

func rewriteAbsorbedKeys(g *Grammar, depth int, fn func(RowCol) (RowCol, bool)) {
	if g.Absorbed == nil {
		return
	}
	next := make(map[string]Grammar, len(g.Absorbed))
	for k, ag := range g.Absorbed {
		c := MustParse(k)
		if c.Depth() > depth {
			np, keep := fn(c.Level(depth))
			if !keep {
				continue
			}
			c = withLevel(c, depth, np)
		}
		rewriteAbsorbedKeys(&ag, depth, fn)
		next[c.String()] = ag
	}
	g.Absorbed = next
}

func axisMain(p RowCol, byCol bool) int {
	if byCol {
		return p.Col
	}
	return p.Row
}

func axisCross(p RowCol, byCol bool) int {
	if byCol {
		return p.Row
	}
	return p.Col
}

func withMain(p RowCol, v int, byCol bool) RowCol {
	if byCol {
		p.Col = v
	} else {
		p.Row = v
	}
	return p
}

func makePos(main, cross int, byCol bool) RowCol {
	if byCol {
		return RowCol{Row: cross, Col: main}
	}
	return RowCol{Row: main, Col: cross}
}

func axisSpan(s Span, byCol bool) int {
	if byCol {
		return s.Cols
	}
	return s.Rows
}

func growSpan(s Span, byCol bool, d int) Span {
	if byCol {
		s.Cols += d
	} else {
		s.Rows += d
	}
	return s
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
