package grammar

import (
	"reflect"
	"testing"
)

// Drives random action sequences through Apply and checks, after every
// step, that the structural invariants hold, that rejected actions leave
// the model untouched, and that undo exactly reverses each recorded action.
func FuzzModel_ApplyRandomSequences(f *testing.F) {
	seeds := [][]byte{
		{},
		{0},
		{1, 2, 3, 4, 5},
		{255, 0, 128, 64, 32, 16, 8, 4, 2, 1},
		[]byte("merge-shift-unmerge"),
		[]byte("nested-grids"),
		{4, 0, 1, 2, 4, 1, 0, 0, 2, 3, 1, 0, 5, 0, 1, 0},
		{6, 2, 0, 1, 4, 4, 4, 4, 2, 1, 1, 3, 5, 5, 0, 2, 9, 7},
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		r := actionFuzzReader{data: data}
		m := New(Options{HistoryLimit: 16})

		steps := 4 + r.nextInt(60)
		for i := 0; i < steps; i++ {
			a := nextFuzzAction(&r, m)
			before := m.Document()
			version := m.Version()

			err := m.Apply(a)
			after := m.Document()

			if err != nil {
				if m.Version() != version {
					t.Fatalf("step %d: rejected %v bumped version", i, a.Kind)
				}
				if !reflect.DeepEqual(before, after) {
					t.Fatalf("step %d: rejected %v mutated the model", i, a.Kind)
				}
				continue
			}
			if err := m.Check(); err != nil {
				t.Fatalf("step %d: after %v on %s: %v", i, a.Kind, a.Target, err)
			}

			if !recordsHistory(a.Kind) || m.Version() == version {
				continue
			}
			if !m.CanUndo() {
				t.Fatalf("step %d: %v changed the tree but recorded nothing", i, a.Kind)
			}
			m.Undo()
			if err := m.Check(); err != nil {
				t.Fatalf("step %d: after undoing %v: %v", i, a.Kind, err)
			}
			if restored := m.Document(); !reflect.DeepEqual(before, restored) {
				t.Fatalf("step %d: undo after %v on %s did not restore the prior state", i, a.Kind, a.Target)
			}
			m.Redo()
			if redone := m.Document(); !reflect.DeepEqual(after, redone) {
				t.Fatalf("step %d: redo after %v on %s diverged", i, a.Kind, a.Target)
			}
		}
	})
}

// recordsHistory reports whether a successful action of this kind pushes
// an undo snapshot.
func recordsHistory(k ActionKind) bool {
	switch k {
	case ActionInsertRow, ActionInsertColumn, ActionDeleteRow, ActionDeleteColumn,
		ActionMerge, ActionUnmerge, ActionNest, ActionSetCellValue, ActionSetLookup:
		return true
	}
	return false
}

func nextFuzzAction(r *actionFuzzReader, m *Model) Action {
	coords := m.Coordinates()
	pick := func() Coordinate { return coords[r.nextInt(len(coords))] }

	kinds := []ActionKind{
		ActionInsertRow, ActionInsertColumn, ActionDeleteRow, ActionDeleteColumn,
		ActionMerge, ActionUnmerge, ActionNest, ActionSetCellValue, ActionSetLookup,
		ActionSelect, ActionClearSelection,
		ActionZoomIn, ActionZoomOut, ActionZoomReset,
		ActionUndo, ActionRedo,
	}
	contents := []string{"", "x", "total", "42"}

	return Action{
		Kind:    kinds[r.nextInt(len(kinds))],
		Target:  pick(),
		Ref:     pick(),
		Index:   r.nextInt(6),
		Rows:    r.nextInt(3),
		Cols:    r.nextInt(3),
		Content: contents[r.nextInt(len(contents))],
	}
}

type actionFuzzReader struct {
	data []byte
	idx  int
}

func (r *actionFuzzReader) nextByte() byte {
	if len(r.data) == 0 {
		return 0
	}
	b := r.data[r.idx%len(r.data)]
	r.idx++
	return b
}

func (r *actionFuzzReader) nextInt(max int) int {
	if max <= 0 {
		return 0
	}
	return int(r.nextByte()) % max
}
