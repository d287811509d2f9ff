package grammar

import "fmt"

// Check verifies the model's structural invariants and returns the first
// violation found as a *InvariantError. A violation is a defect in the
// mutation engine, never a consequence of bad input; tests run Check after
// every action sequence.
//
// Invariants:
//  1. The root coordinate exists and is a grid.
//  2. Every grid's child list matches exactly the set of tree coordinates
//     whose parent is that grid (no orphans, no phantoms).
//  3. Every grid's extents equal the maximum row/col covered by its
//     children, spans included.
//  4. No two children of a grid overlap in (row, col) occupancy.
//  5. Every non-root coordinate's parent exists and is a grid.
func (m *Model) Check() error {
	root, ok := m.get(Root())
	if !ok {
		return &InvariantError{At: Root(), Detail: "root missing"}
	}
	if root.Kind != KindGrid {
		return &InvariantError{At: Root(), Detail: "root is not a grid"}
	}

	byParent := make(map[string]map[RowCol]bool)
	for k := range m.tree {
		c, err := Parse(k)
		if err != nil {
			return &InvariantError{At: Root(), Detail: fmt.Sprintf("unparseable key %q", k)}
		}
		parent, hasParent := c.Parent()
		if !hasParent {
			continue
		}
		pg, ok := m.get(parent)
		if !ok {
			return &InvariantError{At: c, Detail: "orphan: parent missing"}
		}
		if pg.Kind != KindGrid {
			return &InvariantError{At: c, Detail: "parent is not a grid"}
		}
		pos, _ := c.Pos()
		set := byParent[parent.String()]
		if set == nil {
			set = make(map[RowCol]bool)
			byParent[parent.String()] = set
		}
		set[pos] = true
	}

	for k, g := range m.tree {
		if g.Kind != KindGrid {
			continue
		}
		c := MustParse(k)
		spec := g.Grid
		if spec == nil {
			return &InvariantError{At: c, Detail: "grid with nil GridSpec"}
		}

		listed := make(map[RowCol]bool, len(spec.Children))
		for _, pos := range spec.Children {
			if listed[pos] {
				return &InvariantError{At: c, Detail: fmt.Sprintf("duplicate child %v", pos)}
			}
			listed[pos] = true
			if !byParent[k][pos] {
				return &InvariantError{At: c, Detail: fmt.Sprintf("listed child %v missing from tree", pos)}
			}
		}
		for pos := range byParent[k] {
			if !listed[pos] {
				return &InvariantError{At: ChildOf(c, pos), Detail: "tree entry not listed in parent grid"}
			}
		}

		_, overlap, ok := spec.occupancy()
		if !ok {
			return &InvariantError{At: c, Detail: fmt.Sprintf("span overlap at %v", overlap)}
		}

		rows, cols := 0, 0
		for _, pos := range spec.Children {
			sp := spec.SpanAt(pos)
			if r := pos.Row + sp.Rows - 1; r > rows {
				rows = r
			}
			if cc := pos.Col + sp.Cols - 1; cc > cols {
				cols = cc
			}
		}
		if rows != spec.Rows || cols != spec.Cols {
			return &InvariantError{At: c, Detail: fmt.Sprintf("extents %dx%d, children cover %dx%d", spec.Rows, spec.Cols, rows, cols)}
		}
	}
	return nil
}
