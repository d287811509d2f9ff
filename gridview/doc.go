// Package gridview provides a Bubble Tea component for browsing and editing
// a grammar model as a terminal grid.
//
// The package is responsible for input handling, cursor movement across
// nested grids, inline cell editing, span-aware rendering, and host
// integration hooks (save callback and change events).
package gridview
