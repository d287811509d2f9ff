package grammar

type modelSnapshot struct {
	tree  map[string]*Grammar
	title string
	zoom  float64
	sel   selectionState
}

type historyState struct {
	undo []modelSnapshot
	redo []modelSnapshot
}

func (m *Model) snapshot() modelSnapshot {
	return modelSnapshot{
		tree:  cloneTree(m.tree),
		title: m.title,
		zoom:  m.zoom,
		sel:   m.sel,
	}
}

func (m *Model) restore(s modelSnapshot) {
	m.tree = cloneTree(s.tree)
	m.title = s.title
	m.zoom = s.zoom
	m.sel = s.sel
}

// recordUndo pushes prev onto the undo stack and clears the redo stack.
// Callers take prev before mutating and record it only once the mutation
// actually happened, so failed actions never enter the history.
func (m *Model) recordUndo(prev modelSnapshot) {
	limit := m.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	m.hist.undo = append(m.hist.undo, prev)
	if len(m.hist.undo) > limit {
		m.hist.undo = m.hist.undo[len(m.hist.undo)-limit:]
	}
	m.hist.redo = nil
}

func (m *Model) CanUndo() bool { return len(m.hist.undo) > 0 }

func (m *Model) CanRedo() bool { return len(m.hist.redo) > 0 }

// Undo restores the most recent snapshot. It reports false, without
// mutating anything, when the undo stack is empty.
func (m *Model) Undo() bool {
	if len(m.hist.undo) == 0 {
		return false
	}

	cur := m.snapshot()

	i := len(m.hist.undo) - 1
	prev := m.hist.undo[i]
	m.hist.undo = m.hist.undo[:i]
	m.hist.redo = append(m.hist.redo, cur)

	m.restore(prev)
	m.version++
	m.treeVersion++
	return true
}

// Redo reverses the most recent Undo. It reports false when the redo stack
// is empty.
func (m *Model) Redo() bool {
	if len(m.hist.redo) == 0 {
		return false
	}

	cur := m.snapshot()

	i := len(m.hist.redo) - 1
	next := m.hist.redo[i]
	m.hist.redo = m.hist.redo[:i]

	limit := m.opt.HistoryLimit
	if limit > 0 {
		m.hist.undo = append(m.hist.undo, cur)
		if len(m.hist.undo) > limit {
			m.hist.undo = m.hist.undo[len(m.hist.undo)-limit:]
		}
	}

	m.restore(next)
	m.version++
	m.treeVersion++
	return true
}
