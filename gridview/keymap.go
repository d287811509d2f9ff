package gridview

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the grid view key bindings.
//
// Bindings must be portable across terminals (ctrl/alt fallbacks).
type KeyMap struct {
	Left, Right, Up, Down key.Binding
	Enter, Out            key.Binding

	Edit   key.Binding
	Anchor key.Binding

	InsertRow, InsertColumn key.Binding
	DeleteRow, DeleteColumn key.Binding
	Merge, Unmerge          key.Binding
	Nest                    key.Binding
	Lookup                  key.Binding

	Undo, Redo key.Binding

	ZoomIn, ZoomOut, ZoomReset key.Binding

	Save key.Binding
	Quit key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),

		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit or descend")),
		Out:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "to parent grid")),

		Edit:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "edit cell")),
		Anchor: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "start selection")),

		InsertRow:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "insert row below")),
		InsertColumn: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "insert column right")),
		DeleteRow:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "delete row")),
		DeleteColumn: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "delete column")),

		Merge:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "merge selection")),
		Unmerge: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "unmerge")),
		Nest:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "nest grid")),
		Lookup:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "lookup to selection")),

		Undo: key.NewBinding(key.WithKeys("ctrl+z", "u"), key.WithHelp("ctrl+z", "undo")),
		Redo: key.NewBinding(key.WithKeys("ctrl+y", "ctrl+r"), key.WithHelp("ctrl+y", "redo")),

		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomReset: key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset zoom")),

		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save session")),
		Quit: key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("ctrl+q", "quit")),
	}
}
