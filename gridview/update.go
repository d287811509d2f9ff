package gridview

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/nestgrid/grammar"
)

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	km := m.cfg.KeyMap
	m.status = ""

	switch {
	case key.Matches(msg, km.Left):
		m.moveCursor(0, -1)
	case key.Matches(msg, km.Right):
		m.moveCursor(0, 1)
	case key.Matches(msg, km.Up):
		m.moveCursor(-1, 0)
	case key.Matches(msg, km.Down):
		m.moveCursor(1, 0)

	case key.Matches(msg, km.Enter):
		g, ok := m.doc.Get(m.cursor)
		if !ok {
			break
		}
		if g.Kind == grammar.KindGrid {
			if c, ok := firstChild(m.doc, m.cursor); ok {
				m.cursor = c
				m.clearAnchor()
			}
			break
		}
		return m.startEdit(g)
	case key.Matches(msg, km.Out):
		if parent, ok := m.cursor.Parent(); ok && !parent.IsRoot() {
			m.cursor = parent
			m.clearAnchor()
		}
	case key.Matches(msg, km.Edit):
		g, ok := m.doc.Get(m.cursor)
		if !ok || !g.IsLeaf() {
			m.status = "not an editable cell"
			break
		}
		return m.startEdit(g)

	case key.Matches(msg, km.Anchor):
		m.anchor = m.cursor
		m.anchorSet = true
		m.applyAction(grammar.Action{Kind: grammar.ActionSelect, Target: m.anchor, Ref: m.cursor})

	case key.Matches(msg, km.InsertRow):
		if parent, pos, ok := m.cursorSlot(); ok {
			m.applyAction(grammar.Action{Kind: grammar.ActionInsertRow, Target: parent, Index: pos.Row})
		}
	case key.Matches(msg, km.InsertColumn):
		if parent, pos, ok := m.cursorSlot(); ok {
			m.applyAction(grammar.Action{Kind: grammar.ActionInsertColumn, Target: parent, Index: pos.Col})
		}
	case key.Matches(msg, km.DeleteRow):
		if parent, pos, ok := m.cursorSlot(); ok {
			m.applyAction(grammar.Action{Kind: grammar.ActionDeleteRow, Target: parent, Index: pos.Row})
			m.ensureCursor()
		}
	case key.Matches(msg, km.DeleteColumn):
		if parent, pos, ok := m.cursorSlot(); ok {
			m.applyAction(grammar.Action{Kind: grammar.ActionDeleteColumn, Target: parent, Index: pos.Col})
			m.ensureCursor()
		}

	case key.Matches(msg, km.Merge):
		if !m.anchorSet {
			m.status = "no selection to merge"
			break
		}
		if m.applyAction(grammar.Action{Kind: grammar.ActionMerge, Target: m.anchor, Ref: m.cursor}) {
			m.cursor = m.anchor
			m.ensureCursor()
		}
		m.clearAnchor()
	case key.Matches(msg, km.Unmerge):
		m.applyAction(grammar.Action{Kind: grammar.ActionUnmerge, Target: m.cursor})
	case key.Matches(msg, km.Nest):
		m.applyAction(grammar.Action{Kind: grammar.ActionNest, Target: m.cursor})
	case key.Matches(msg, km.Lookup):
		if !m.anchorSet {
			m.status = "anchor a cell first"
			break
		}
		m.applyAction(grammar.Action{Kind: grammar.ActionSetLookup, Target: m.cursor, Ref: m.anchor})
		m.clearAnchor()

	case key.Matches(msg, km.Undo):
		m.doc.Undo()
		m.ensureCursor()
	case key.Matches(msg, km.Redo):
		m.doc.Redo()
		m.ensureCursor()

	case key.Matches(msg, km.ZoomIn):
		m.doc.ZoomIn()
	case key.Matches(msg, km.ZoomOut):
		m.doc.ZoomOut()
	case key.Matches(msg, km.ZoomReset):
		m.doc.ZoomReset()

	case key.Matches(msg, km.Save):
		if m.cfg.OnSave == nil {
			m.status = "saving not configured"
			break
		}
		doc := m.doc
		save := m.cfg.OnSave
		return m, func() tea.Msg { return SavedMsg{Err: save(doc)} }

	case key.Matches(msg, km.Quit):
		return m, tea.Quit
	}

	return m, m.changeCmd()
}

func (m Model) updateEditKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.applyAction(grammar.Action{
			Kind:    grammar.ActionSetCellValue,
			Target:  m.cursor,
			Content: m.input.Value(),
		})
		return m, m.changeCmd()
	case tea.KeyEsc:
		m.editing = false
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) startEdit(g grammar.Grammar) (Model, tea.Cmd) {
	if !g.IsLeaf() {
		m.status = "not an editable cell"
		return *m, nil
	}
	m.editing = true
	m.input.SetValue(g.Content)
	m.input.CursorEnd()
	return *m, m.input.Focus()
}

// moveCursor steps the cursor and, with an anchor set, grows the model
// selection to match.
func (m *Model) moveCursor(dr, dc int) {
	next := step(m.doc, m.cursor, dr, dc)
	if next.Equal(m.cursor) {
		return
	}
	m.cursor = next
	if m.anchorSet {
		if err := m.doc.Select(m.anchor, m.cursor); err != nil {
			m.status = err.Error()
		}
	}
}

// cursorSlot returns the cursor's parent grid and position within it.
func (m *Model) cursorSlot() (grammar.Coordinate, grammar.RowCol, bool) {
	parent, ok := m.cursor.Parent()
	if !ok {
		m.status = "the root grid has no parent"
		return grammar.Coordinate{}, grammar.RowCol{}, false
	}
	pos, _ := m.cursor.Pos()
	return parent, pos, true
}

func (m *Model) applyAction(a grammar.Action) bool {
	if err := m.doc.Apply(a); err != nil {
		m.status = err.Error()
		return false
	}
	return true
}

func (m *Model) clearAnchor() {
	m.anchorSet = false
	m.doc.ClearSelection()
}
