package grammar

import "fmt"

// Document is the persistent projection of a Model: the grammar tree keyed
// by canonical coordinate strings, plus title, zoom, and selection. History
// and version counters are deliberately transient and excluded.
type Document struct {
	Title    string
	Zoom     float64
	Cells    map[string]Grammar
	Selected bool
	SelStart Coordinate
	SelEnd   Coordinate
}

// Document returns a deep copy of the model's persistent state.
func (m *Model) Document() Document {
	d := Document{
		Title: m.title,
		Zoom:  m.zoom,
		Cells: make(map[string]Grammar, len(m.tree)),
	}
	for k, g := range m.tree {
		d.Cells[k] = g.clone()
	}
	if m.sel.active {
		d.Selected = true
		d.SelStart = m.sel.start
		d.SelEnd = m.sel.end
	}
	return d
}

// FromDocument builds a fresh Model from a Document, validating the tree
// invariants. The resulting model has an empty history. An invalid
// selection is dropped rather than rejected; a broken tree is an error.
func FromDocument(opt Options, d Document) (*Model, error) {
	m := &Model{opt: opt.withDefaults()}
	m.tree = make(map[string]*Grammar, len(d.Cells))
	for k, g := range d.Cells {
		c, err := Parse(k)
		if err != nil {
			return nil, fmt.Errorf("cell key: %w", err)
		}
		cp := g.clone()
		m.tree[c.String()] = &cp
	}
	m.title = d.Title

	m.zoom = d.Zoom
	if m.zoom == 0 {
		m.zoom = 1.0
	}
	if m.zoom < m.opt.MinZoom {
		m.zoom = m.opt.MinZoom
	}
	if m.zoom > m.opt.MaxZoom {
		m.zoom = m.opt.MaxZoom
	}

	if err := m.Check(); err != nil {
		return nil, err
	}

	if d.Selected && m.Exists(d.SelStart) && m.Exists(d.SelEnd) {
		// Select re-validates that the pair is rectangular.
		_ = m.Select(d.SelStart, d.SelEnd)
		m.version = 0
	}
	return m, nil
}
