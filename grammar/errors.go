package grammar

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a coordinate with no grammar in the tree.
var ErrNotFound = errors.New("coordinate not found")

// ParseError indicates malformed coordinate text.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse coordinate %q: %s", e.Input, e.Reason)
}

// BoundsError indicates an insert or delete index outside a grid's extents.
type BoundsError struct {
	Grid  Coordinate
	Index int
	Max   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for grid %s (max %d)", e.Index, e.Grid, e.Max)
}

// MinimumSizeError indicates a delete that would shrink a grid below 1x1.
type MinimumSizeError struct {
	Grid Coordinate
}

func (e *MinimumSizeError) Error() string {
	return fmt.Sprintf("grid %s cannot shrink below 1x1", e.Grid)
}

// NonContiguousError indicates a merge target that is not an axis-aligned
// rectangle of sibling cells.
type NonContiguousError struct {
	A, B Coordinate
}

func (e *NonContiguousError) Error() string {
	return fmt.Sprintf("cells %s and %s do not form a contiguous rectangle", e.A, e.B)
}

// AlreadySpannedError indicates a merge over a cell that already has a span.
type AlreadySpannedError struct {
	Cell Coordinate
}

func (e *AlreadySpannedError) Error() string {
	return fmt.Sprintf("cell %s is already part of a span", e.Cell)
}

// NotAGridError indicates a grid operation addressed at a leaf.
type NotAGridError struct {
	Cell Coordinate
}

func (e *NotAGridError) Error() string {
	return fmt.Sprintf("cell %s is not a grid", e.Cell)
}

// NotALeafError indicates a leaf operation addressed at a grid.
type NotALeafError struct {
	Cell Coordinate
}

func (e *NotALeafError) Error() string {
	return fmt.Sprintf("cell %s is a grid, not a leaf", e.Cell)
}

// CycleError indicates a lookup chain that references itself.
type CycleError struct {
	At Coordinate
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("lookup cycle through %s", e.At)
}

// InvariantError reports a violated model invariant. It signals a defect in
// the dispatcher, not bad input, and is only produced by Check.
type InvariantError struct {
	At     Coordinate
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated at %s: %s", e.At, e.Detail)
}
