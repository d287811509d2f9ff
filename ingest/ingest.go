// Package ingest imports external tabular data into grammar models. CSV
// input becomes a root grid of input cells sized to the data; XLSX input
// additionally carries merged ranges over as spans.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/iw2rmb/nestgrid/grammar"
)

// ErrEmptyInput reports a source with no rows at all.
var ErrEmptyInput = errors.New("ingest: no rows in input")

// CSV reads comma-separated values and returns a model whose root grid
// holds one input cell per field. Ragged rows are padded with empty cells.
func CSV(r io.Reader) (*grammar.Model, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ingest: read csv: %w", err)
	}
	return fromTable(rows, nil)
}

// CSVFile is CSV reading from a file on disk. The model title is set to
// the file's base name.
func CSVFile(path string) (*grammar.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := CSV(f)
	if err != nil {
		return nil, err
	}
	m.SetTitle(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	return m, nil
}

// CSVInto reads comma-separated values and nests them under the leaf at
// target: the cell becomes a grid sized to the data, each position filled
// with the source text. A single undo step reverses the whole import.
func CSVInto(m *grammar.Model, target grammar.Coordinate, r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("ingest: read csv: %w", err)
	}
	nr, nc := tableSize(rows)
	if nr == 0 || nc == 0 {
		return ErrEmptyInput
	}
	return m.NestTable(target, rows)
}

// XLSX opens a workbook and imports one sheet as a model. An empty sheet
// name selects the workbook's first sheet. Merged ranges become spans on
// their top-left cell.
func XLSX(path, sheet string) (*grammar.Model, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("ingest: sheet %q: %w", sheet, err)
	}
	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, fmt.Errorf("ingest: merged cells: %w", err)
	}

	spans := make(map[grammar.RowCol]grammar.Span, len(merges))
	for _, mc := range merges {
		sc, sr, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			return nil, fmt.Errorf("ingest: merge range: %w", err)
		}
		ec, er, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("ingest: merge range: %w", err)
		}
		spans[grammar.RowCol{Row: sr, Col: sc}] = grammar.Span{Rows: er - sr + 1, Cols: ec - sc + 1}
	}

	m, err := fromTable(rows, spans)
	if err != nil {
		return nil, err
	}
	m.SetTitle(sheet)
	return m, nil
}

func tableSize(rows [][]string) (nr, nc int) {
	nr = len(rows)
	for _, row := range rows {
		if len(row) > nc {
			nc = len(row)
		}
	}
	return nr, nc
}

// fromTable builds a one-level model: a root grid with an input leaf per
// position. Positions covered by a span get no leaf; the anchor keeps the
// span and its content.
func fromTable(rows [][]string, spans map[grammar.RowCol]grammar.Span) (*grammar.Model, error) {
	nr, nc := tableSize(rows)
	if nr == 0 || nc == 0 {
		return nil, ErrEmptyInput
	}

	covered := make(map[grammar.RowCol]bool)
	for pos, sp := range spans {
		for r := pos.Row; r < pos.Row+sp.Rows; r++ {
			for c := pos.Col; c < pos.Col+sp.Cols; c++ {
				if (grammar.RowCol{Row: r, Col: c}) != pos {
					covered[grammar.RowCol{Row: r, Col: c}] = true
				}
			}
		}
	}

	root := grammar.Grammar{
		Kind: grammar.KindGrid,
		Grid: &grammar.GridSpec{
			Spans: make(map[grammar.RowCol]grammar.Span, len(spans)),
			Rows:  nr,
			Cols:  nc,
		},
	}
	cells := map[string]grammar.Grammar{}
	for r := 1; r <= nr; r++ {
		for c := 1; c <= nc; c++ {
			pos := grammar.RowCol{Row: r, Col: c}
			if covered[pos] {
				continue
			}
			root.Grid.Children = append(root.Grid.Children, pos)
			if sp, ok := spans[pos]; ok {
				root.Grid.Spans[pos] = sp
			}
			var val string
			if r <= len(rows) && c <= len(rows[r-1]) {
				val = rows[r-1][c-1]
			}
			cells[grammar.ChildOf(grammar.Root(), pos).String()] = grammar.Input("", val)
		}
	}
	cells[grammar.Root().String()] = root

	return grammar.FromDocument(grammar.Options{}, grammar.Document{Zoom: 1.0, Cells: cells})
}
