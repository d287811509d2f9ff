// Package grammar implements the pure document model for nestgrid.
//
// A document is a tree of grammars: cells addressed by hierarchical
// coordinates, where a cell is a text leaf, an editable input, a lookup
// into another cell, or a nested grid of further cells. All mutation goes
// through typed actions applied to a Model; every structural action is
// undoable.
package grammar
