package gridview

import "github.com/iw2rmb/nestgrid/grammar"

// Config configures the grid view Model.
type Config struct {
	// Initial model. Nil starts a fresh default grid.
	Model *grammar.Model

	// Forwarded to grammar.Options when Model is nil.
	HistoryLimit int

	KeyMap KeyMap
	Styles Styles

	// ShowStatus enables the status line with the cursor address and zoom.
	ShowStatus bool

	// OnSave is invoked when the save binding fires. Nil disables saving.
	OnSave func(*grammar.Model) error
}
