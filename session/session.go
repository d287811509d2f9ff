// Package session encodes and decodes grammar models as .ise session
// files: JSON documents mapping coordinate address strings to cell
// descriptors, plus the view parameters worth persisting. Unknown fields
// are ignored so older builds can open newer files.
package session

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/iw2rmb/nestgrid/grammar"
)

// CorruptSnapshotError wraps any failure to decode a session snapshot.
type CorruptSnapshotError struct {
	Err error
}

func (e *CorruptSnapshotError) Error() string {
	return fmt.Sprintf("corrupt session snapshot: %v", e.Err)
}

func (e *CorruptSnapshotError) Unwrap() error { return e.Err }

type fileSnapshot struct {
	Title     string                `json:"title,omitempty"`
	Zoom      float64               `json:"zoom"`
	Selection *selectionRecord      `json:"selection,omitempty"`
	Grammars  map[string]cellRecord `json:"grammars"`
}

type selectionRecord struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type cellRecord struct {
	Kind    string `json:"kind"`
	Name    string `json:"name,omitempty"`
	Content string `json:"content,omitempty"`
	Lookup  string `json:"lookup,omitempty"`

	// Grid payload.
	Children [][2]int     `json:"children,omitempty"` // [row, col]
	Spans    []spanRecord `json:"spans,omitempty"`
	Rows     int          `json:"rows,omitempty"`
	Cols     int          `json:"cols,omitempty"`

	// Cells retained by a merge, keyed by former address.
	Absorbed map[string]cellRecord `json:"absorbed,omitempty"`
}

type spanRecord struct {
	Row  int `json:"row"`
	Col  int `json:"col"`
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Encode serializes the model's persistent state. Undo history is never
// written.
func Encode(m *grammar.Model) ([]byte, error) {
	d := m.Document()
	snap := fileSnapshot{
		Title:    d.Title,
		Zoom:     d.Zoom,
		Grammars: make(map[string]cellRecord, len(d.Cells)),
	}
	if d.Selected {
		snap.Selection = &selectionRecord{Start: d.SelStart.String(), End: d.SelEnd.String()}
	}
	for k, g := range d.Cells {
		snap.Grammars[k] = encodeCell(g)
	}
	return json.MarshalIndent(snap, "", "  ")
}

// Decode rebuilds a model from Encode output. Any failure, from malformed
// JSON to a tree that violates the structural invariants, is reported as a
// *CorruptSnapshotError.
func Decode(data []byte, opt grammar.Options) (*grammar.Model, error) {
	var snap fileSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &CorruptSnapshotError{Err: err}
	}
	if len(snap.Grammars) == 0 {
		return nil, &CorruptSnapshotError{Err: fmt.Errorf("no grammars")}
	}

	d := grammar.Document{
		Title: snap.Title,
		Zoom:  snap.Zoom,
		Cells: make(map[string]grammar.Grammar, len(snap.Grammars)),
	}
	for k, rec := range snap.Grammars {
		g, err := decodeCell(rec)
		if err != nil {
			return nil, &CorruptSnapshotError{Err: fmt.Errorf("cell %s: %w", k, err)}
		}
		d.Cells[k] = g
	}
	if snap.Selection != nil {
		start, err := grammar.Parse(snap.Selection.Start)
		if err != nil {
			return nil, &CorruptSnapshotError{Err: err}
		}
		end, err := grammar.Parse(snap.Selection.End)
		if err != nil {
			return nil, &CorruptSnapshotError{Err: err}
		}
		d.Selected = true
		d.SelStart = start
		d.SelEnd = end
	}

	m, err := grammar.FromDocument(opt, d)
	if err != nil {
		return nil, &CorruptSnapshotError{Err: err}
	}
	return m, nil
}

func encodeCell(g grammar.Grammar) cellRecord {
	rec := cellRecord{
		Kind: g.Kind.String(),
		Name: g.Name,
	}
	switch g.Kind {
	case grammar.KindText, grammar.KindInput:
		rec.Content = g.Content
	case grammar.KindLookup:
		rec.Lookup = g.Ref.String()
	case grammar.KindGrid:
		rec.Rows = g.Grid.Rows
		rec.Cols = g.Grid.Cols
		for _, pos := range g.Grid.Children {
			rec.Children = append(rec.Children, [2]int{pos.Row, pos.Col})
		}
		for pos, sp := range g.Grid.Spans {
			rec.Spans = append(rec.Spans, spanRecord{Row: pos.Row, Col: pos.Col, Rows: sp.Rows, Cols: sp.Cols})
		}
		// Span map iteration order is random; keep files reproducible.
		sort.Slice(rec.Spans, func(i, j int) bool {
			a, b := rec.Spans[i], rec.Spans[j]
			if a.Row != b.Row {
				return a.Row < b.Row
			}
			return a.Col < b.Col
		})
	}
	if len(g.Absorbed) > 0 {
		rec.Absorbed = make(map[string]cellRecord, len(g.Absorbed))
		for k, ag := range g.Absorbed {
			rec.Absorbed[k] = encodeCell(ag)
		}
	}
	return rec
}

func decodeCell(rec cellRecord) (grammar.Grammar, error) {
	var g grammar.Grammar
	g.Name = rec.Name

	switch rec.Kind {
	case "text":
		g = grammar.Text(rec.Name, rec.Content)
	case "input":
		g = grammar.Input(rec.Name, rec.Content)
	case "lookup":
		target, err := grammar.Parse(rec.Lookup)
		if err != nil {
			return grammar.Grammar{}, fmt.Errorf("lookup target: %w", err)
		}
		g = grammar.LookupTo(target)
		g.Name = rec.Name
	case "grid":
		g = grammar.Grammar{
			Name: rec.Name,
			Kind: grammar.KindGrid,
			Grid: &grammar.GridSpec{
				Spans: make(map[grammar.RowCol]grammar.Span, len(rec.Spans)),
				Rows:  rec.Rows,
				Cols:  rec.Cols,
			},
		}
		for _, rc := range rec.Children {
			if rc[0] < 1 || rc[1] < 1 {
				return grammar.Grammar{}, fmt.Errorf("child position %v out of range", rc)
			}
			g.Grid.Children = append(g.Grid.Children, grammar.RowCol{Row: rc[0], Col: rc[1]})
		}
		for _, sp := range rec.Spans {
			if sp.Rows < 1 || sp.Cols < 1 {
				return grammar.Grammar{}, fmt.Errorf("span %+v out of range", sp)
			}
			g.Grid.Spans[grammar.RowCol{Row: sp.Row, Col: sp.Col}] = grammar.Span{Rows: sp.Rows, Cols: sp.Cols}
		}
	default:
		return grammar.Grammar{}, fmt.Errorf("unknown kind %q", rec.Kind)
	}

	if len(rec.Absorbed) > 0 {
		g.Absorbed = make(map[string]grammar.Grammar, len(rec.Absorbed))
		for k, arec := range rec.Absorbed {
			ag, err := decodeCell(arec)
			if err != nil {
				return grammar.Grammar{}, fmt.Errorf("absorbed %s: %w", k, err)
			}
			g.Absorbed[k] = ag
		}
	}
	return g, nil
}
