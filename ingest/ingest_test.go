package ingest

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/iw2rmb/nestgrid/grammar"
)

func cellContent(t *testing.T, m *grammar.Model, addr string) string {
	t.Helper()
	g, ok := m.Get(grammar.MustParse(addr))
	if !ok {
		t.Fatalf("cell %s missing", addr)
	}
	return g.Content
}

func TestCSV_BuildsRootGrid(t *testing.T) {
	in := "name,qty\nbolts,40\nnuts,12\n"

	m, err := CSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if err := m.Check(); err != nil {
		t.Fatalf("imported model: %v", err)
	}

	root, ok := m.Get(grammar.Root())
	if !ok || root.Kind != grammar.KindGrid {
		t.Fatalf("root=%+v %v, want grid", root, ok)
	}
	if root.Grid.Rows != 3 || root.Grid.Cols != 2 {
		t.Fatalf("extents=%dx%d, want 3x2", root.Grid.Rows, root.Grid.Cols)
	}
	if got := cellContent(t, m, "root-A1"); got != "name" {
		t.Fatalf("root-A1=%q, want %q", got, "name")
	}
	if got := cellContent(t, m, "root-B3"); got != "12" {
		t.Fatalf("root-B3=%q, want %q", got, "12")
	}
}

func TestCSV_PadsRaggedRows(t *testing.T) {
	in := "a,b,c\nd\n"

	m, err := CSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	root, _ := m.Get(grammar.Root())
	if root.Grid.Rows != 2 || root.Grid.Cols != 3 {
		t.Fatalf("extents=%dx%d, want 2x3", root.Grid.Rows, root.Grid.Cols)
	}
	if got := cellContent(t, m, "root-C2"); got != "" {
		t.Fatalf("root-C2=%q, want empty pad cell", got)
	}
}

func TestCSV_EmptyInput(t *testing.T) {
	_, err := CSV(strings.NewReader(""))
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("err=%v, want ErrEmptyInput", err)
	}
}

func TestCSVInto_NestsUnderTarget(t *testing.T) {
	m := grammar.New(grammar.Options{})
	target := grammar.MustParse("root-B2")

	err := CSVInto(m, target, strings.NewReader("x,y\n1,2\n"))
	if err != nil {
		t.Fatalf("CSVInto: %v", err)
	}
	if err := m.Check(); err != nil {
		t.Fatalf("after import: %v", err)
	}

	g, _ := m.Get(target)
	if g.Kind != grammar.KindGrid {
		t.Fatalf("target kind=%v, want grid", g.Kind)
	}
	if got := cellContent(t, m, "root-B2-B2"); got != "2" {
		t.Fatalf("root-B2-B2=%q, want %q", got, "2")
	}

	// The whole import is one undo step.
	m.Undo()
	g, _ = m.Get(target)
	if g.Kind != grammar.KindInput {
		t.Fatalf("after undo kind=%v, want input leaf", g.Kind)
	}
	if m.CanUndo() {
		t.Fatalf("import must record exactly one history entry")
	}
}

func TestCSVInto_RejectsGridTarget(t *testing.T) {
	m := grammar.New(grammar.Options{})

	err := CSVInto(m, grammar.Root(), strings.NewReader("a\n"))
	var nl *grammar.NotALeafError
	if !errors.As(err, &nl) {
		t.Fatalf("err=%v, want NotALeafError", err)
	}
}

func TestXLSX_ImportsSheetWithMerges(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "Quarterly")
	f.SetCellValue(sheet, "A2", "east")
	f.SetCellValue(sheet, "B2", "west")
	if err := f.MergeCell(sheet, "A1", "B1"); err != nil {
		t.Fatalf("MergeCell: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	m, err := XLSX(path, "")
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}
	if err := m.Check(); err != nil {
		t.Fatalf("imported model: %v", err)
	}
	if m.Title() != sheet {
		t.Fatalf("title=%q, want %q", m.Title(), sheet)
	}

	if got := cellContent(t, m, "root-A1"); got != "Quarterly" {
		t.Fatalf("root-A1=%q, want %q", got, "Quarterly")
	}
	sp := m.SpanOf(grammar.MustParse("root-A1"))
	if sp.Rows != 1 || sp.Cols != 2 {
		t.Fatalf("span=%dx%d, want 1x2", sp.Rows, sp.Cols)
	}
	// The covered position holds no cell of its own.
	if _, ok := m.Get(grammar.MustParse("root-B1")); ok {
		t.Fatalf("root-B1 must be absorbed by the merge")
	}
	if got := cellContent(t, m, "root-B2"); got != "west" {
		t.Fatalf("root-B2=%q, want %q", got, "west")
	}
}

func TestXLSX_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	path := filepath.Join(t.TempDir(), "empty.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}

	if _, err := XLSX(path, "NoSuchSheet"); err == nil {
		t.Fatalf("expected error for unknown sheet")
	}
}
