package grammar

import (
	"reflect"
	"testing"
)

// fingerprint captures everything the undo law promises to restore.
func fingerprint(m *Model) map[string]Grammar {
	out := make(map[string]Grammar, len(m.tree))
	for _, c := range m.Coordinates() {
		g, _ := m.Get(c)
		out[c.String()] = g
	}
	return out
}

func TestModel_UndoLaw_CoversEveryStructuralAction(t *testing.T) {
	// Each case sets up a model, applies one structural action, and
	// verifies a single Undo restores the prior tree exactly.
	cases := []struct {
		name  string
		setup func(t *testing.T, m *Model)
		act   Action
	}{
		{
			name: "insert row",
			act:  Action{Kind: ActionInsertRow, Target: Root(), Index: 2},
		},
		{
			name: "insert column",
			act:  Action{Kind: ActionInsertColumn, Target: Root(), Index: 0},
		},
		{
			name: "delete row",
			act:  Action{Kind: ActionDeleteRow, Target: Root(), Index: 1},
		},
		{
			name: "delete column",
			act:  Action{Kind: ActionDeleteColumn, Target: Root(), Index: 2},
		},
		{
			name: "merge",
			act:  Action{Kind: ActionMerge, Target: MustParse("root-A1"), Ref: MustParse("root-B1")},
		},
		{
			name: "unmerge",
			setup: func(t *testing.T, m *Model) {
				if err := m.Merge(MustParse("root-A1"), MustParse("root-B1")); err != nil {
					t.Fatalf("setup merge: %v", err)
				}
			},
			act: Action{Kind: ActionUnmerge, Target: MustParse("root-A1")},
		},
		{
			name: "nest",
			act:  Action{Kind: ActionNest, Target: MustParse("root-B2")},
		},
		{
			name: "set cell value",
			act:  Action{Kind: ActionSetCellValue, Target: MustParse("root-A2"), Content: "edited"},
		},
		{
			name: "set lookup",
			act:  Action{Kind: ActionSetLookup, Target: MustParse("root-A1"), Ref: MustParse("root-B2")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := New(Options{})
			if err := m.SetCellValue(MustParse("root-B2"), "pre-existing"); err != nil {
				t.Fatalf("seed: %v", err)
			}
			if tc.setup != nil {
				tc.setup(t, m)
			}

			before := fingerprint(m)

			if err := m.Apply(tc.act); err != nil {
				t.Fatalf("apply: %v", err)
			}
			checkInvariants(t, m)

			if !m.Undo() {
				t.Fatalf("expected Undo=true")
			}
			if got := fingerprint(m); !reflect.DeepEqual(got, before) {
				t.Fatalf("undo did not restore the tree:\n got %v\nwant %v", got, before)
			}
			checkInvariants(t, m)
		})
	}
}

func TestModel_UndoRedo_RoundTrips(t *testing.T) {
	m := New(Options{})

	if err := m.InsertRow(Root(), 2); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	after := fingerprint(m)

	if !m.Undo() {
		t.Fatalf("expected Undo=true")
	}
	if !m.CanRedo() {
		t.Fatalf("expected CanRedo=true")
	}
	if !m.Redo() {
		t.Fatalf("expected Redo=true")
	}
	if got := fingerprint(m); !reflect.DeepEqual(got, after) {
		t.Fatalf("redo did not reapply the action")
	}
}

func TestModel_UndoRedo_EmptyStacksAreNoops(t *testing.T) {
	m := New(Options{})
	v := m.Version()

	if m.Undo() {
		t.Fatalf("expected Undo=false on empty history")
	}
	if m.Redo() {
		t.Fatalf("expected Redo=false on empty history")
	}
	if m.Version() != v {
		t.Fatalf("no-op undo/redo bumped the version")
	}
}

func TestModel_History_NewActionClearsRedo(t *testing.T) {
	m := New(Options{})
	if err := m.InsertRow(Root(), 2); err != nil {
		t.Fatalf("InsertRow: %v", err)
	}
	if !m.Undo() {
		t.Fatalf("expected Undo=true")
	}

	if err := m.InsertColumn(Root(), 2); err != nil {
		t.Fatalf("InsertColumn: %v", err)
	}
	if m.CanRedo() {
		t.Fatalf("new action must clear the redo stack")
	}
}

func TestModel_History_RespectsLimit(t *testing.T) {
	m := New(Options{HistoryLimit: 3})

	for i := 0; i < 10; i++ {
		if err := m.InsertRow(Root(), 1); err != nil {
			t.Fatalf("InsertRow %d: %v", i, err)
		}
	}

	undos := 0
	for m.Undo() {
		undos++
	}
	if undos != 3 {
		t.Fatalf("undos=%d, want 3", undos)
	}
}

func TestModel_History_SnapshotsAreImmutable(t *testing.T) {
	m := New(Options{})
	if err := m.SetCellValue(MustParse("root-A1"), "first"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	if err := m.SetCellValue(MustParse("root-A1"), "second"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}

	// Undoing twice must recover both prior values even though the live
	// grammar was mutated in between.
	if !m.Undo() {
		t.Fatalf("expected Undo=true")
	}
	g, _ := m.Get(MustParse("root-A1"))
	if g.Content != "first" {
		t.Fatalf("content=%q, want \"first\"", g.Content)
	}

	if !m.Undo() {
		t.Fatalf("expected Undo=true")
	}
	g, _ = m.Get(MustParse("root-A1"))
	if g.Content != "" {
		t.Fatalf("content=%q, want empty", g.Content)
	}
}
