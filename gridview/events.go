package gridview

import "github.com/iw2rmb/nestgrid/grammar"

// ChangeEvent is emitted as a tea.Msg whenever the model's version counter
// moves, so hosts can observe edits without polling.
type ChangeEvent struct {
	Version     uint64
	TreeVersion uint64
	Cursor      grammar.Coordinate
}

// SavedMsg reports the outcome of a save triggered by the save binding.
type SavedMsg struct {
	Err error
}

func buildChangeEvent(m *grammar.Model, cursor grammar.Coordinate) ChangeEvent {
	return ChangeEvent{
		Version:     m.Version(),
		TreeVersion: m.TreeVersion(),
		Cursor:      cursor,
	}
}
