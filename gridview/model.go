package gridview

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/nestgrid/grammar"
)

// Model is a Bubble Tea component that renders and interacts with a
// grammar model.
type Model struct {
	cfg Config
	doc *grammar.Model

	cursor    grammar.Coordinate
	anchor    grammar.Coordinate
	anchorSet bool

	editing bool
	input   textinput.Model

	width, height int
	status        string

	lastVersion uint64
}

func New(cfg Config) Model {
	if cfg.KeyMap.Left.Keys() == nil {
		cfg.KeyMap = DefaultKeyMap()
	}

	doc := cfg.Model
	if doc == nil {
		doc = grammar.New(grammar.Options{HistoryLimit: cfg.HistoryLimit})
	}

	ti := textinput.New()
	ti.Prompt = "= "

	m := Model{
		cfg:    cfg,
		doc:    doc,
		cursor: grammar.Root(),
		input:  ti,
	}
	if c, ok := firstChild(doc, grammar.Root()); ok {
		m.cursor = c
	}
	m.lastVersion = doc.Version()
	return m
}

// Document returns the underlying grammar model. Hosts may mutate it
// between updates; the next Update picks the change up via the version
// counter.
func (m Model) Document() *grammar.Model { return m.doc }

// Cursor returns the coordinate the cursor is on.
func (m Model) Cursor() grammar.Coordinate { return m.cursor }

// Editing reports whether an inline cell edit is in progress.
func (m Model) Editing() bool { return m.editing }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width = width
	m.height = height
	return m
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case SavedMsg:
		if msg.Err != nil {
			m.status = "save failed: " + msg.Err.Error()
		} else {
			m.status = "saved"
		}
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditKey(msg)
		}
		return m.updateKey(msg)
	default:
		return m, m.changeCmd()
	}
}

// changeCmd emits a ChangeEvent when the model version moved since the
// last emission.
func (m *Model) changeCmd() tea.Cmd {
	ver := m.doc.Version()
	if ver == m.lastVersion {
		return nil
	}
	m.lastVersion = ver
	ev := buildChangeEvent(m.doc, m.cursor)
	return func() tea.Msg { return ev }
}

// ensureCursor repairs the cursor after structural edits that may have
// removed or re-keyed the cell it was on.
func (m *Model) ensureCursor() {
	if m.doc.Exists(m.cursor) {
		return
	}
	c := m.cursor
	for {
		parent, ok := c.Parent()
		if !ok {
			break
		}
		if m.doc.Exists(parent) {
			pos, _ := c.Pos()
			if occ, ok := occupantAt(m.doc, parent, pos); ok {
				m.cursor = occ
				return
			}
			if occ, ok := firstChild(m.doc, parent); ok {
				m.cursor = occ
				return
			}
			m.cursor = parent
			return
		}
		c = parent
	}
	if c, ok := firstChild(m.doc, grammar.Root()); ok {
		m.cursor = c
	} else {
		m.cursor = grammar.Root()
	}
}
