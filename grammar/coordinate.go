package grammar

import (
	"strconv"
	"strings"
)

// RowCol is one level of a coordinate path: a 1-based (row, column)
// position within a parent grid.
type RowCol struct {
	Row int
	Col int
}

// CompareRowCol orders positions row-major: by row, then by column.
func CompareRowCol(a, b RowCol) int {
	if a.Row != b.Row {
		if a.Row < b.Row {
			return -1
		}
		return 1
	}
	if a.Col != b.Col {
		if a.Col < b.Col {
			return -1
		}
		return 1
	}
	return 0
}

// Coordinate is the hierarchical address of a cell: the path of (row, col)
// positions from the document root down to the cell. The root itself has an
// empty path. Coordinates are immutable values.
type Coordinate struct {
	path []RowCol
}

// Root returns the root coordinate.
func Root() Coordinate { return Coordinate{} }

// ChildOf returns parent extended by one nesting level.
func ChildOf(parent Coordinate, pos RowCol) Coordinate {
	path := make([]RowCol, 0, len(parent.path)+1)
	path = append(path, parent.path...)
	path = append(path, pos)
	return Coordinate{path: path}
}

// Depth is the number of nesting levels below the root; the root has
// depth 0, its direct children depth 1.
func (c Coordinate) Depth() int { return len(c.path) }

// IsRoot reports whether c is the root coordinate.
func (c Coordinate) IsRoot() bool { return len(c.path) == 0 }

// Parent returns the enclosing coordinate, or false for the root.
func (c Coordinate) Parent() (Coordinate, bool) {
	if len(c.path) == 0 {
		return Coordinate{}, false
	}
	return Coordinate{path: c.path[:len(c.path)-1]}, true
}

// Pos returns the (row, col) position of c within its parent grid.
// The root has no position; Pos returns false for it.
func (c Coordinate) Pos() (RowCol, bool) {
	if len(c.path) == 0 {
		return RowCol{}, false
	}
	return c.path[len(c.path)-1], true
}

// Level returns the position at nesting level i (0-based below the root).
func (c Coordinate) Level(i int) RowCol { return c.path[i] }

// Equal reports whether a and b address the same cell.
func (c Coordinate) Equal(other Coordinate) bool {
	return Compare(c, other) == 0
}

// Compare orders coordinates row-major at each shared nesting level, then
// by depth (ancestors sort before descendants).
func Compare(a, b Coordinate) int {
	n := len(a.path)
	if len(b.path) < n {
		n = len(b.path)
	}
	for i := 0; i < n; i++ {
		if v := CompareRowCol(a.path[i], b.path[i]); v != 0 {
			return v
		}
	}
	switch {
	case len(a.path) < len(b.path):
		return -1
	case len(a.path) > len(b.path):
		return 1
	}
	return 0
}

// IsAncestorOf reports whether c is a proper ancestor of other.
func (c Coordinate) IsAncestorOf(other Coordinate) bool {
	if len(c.path) >= len(other.path) {
		return false
	}
	for i, p := range c.path {
		if other.path[i] != p {
			return false
		}
	}
	return true
}

// Above returns the coordinate one row up in the same grid, or false at
// the first row.
func (c Coordinate) Above() (Coordinate, bool) {
	return c.shift(-1, 0)
}

// Below returns the coordinate one row down in the same grid.
func (c Coordinate) Below() (Coordinate, bool) {
	return c.shift(1, 0)
}

// Left returns the coordinate one column left, or false at the first column.
func (c Coordinate) Left() (Coordinate, bool) {
	return c.shift(0, -1)
}

// Right returns the coordinate one column right.
func (c Coordinate) Right() (Coordinate, bool) {
	return c.shift(0, 1)
}

func (c Coordinate) shift(dr, dc int) (Coordinate, bool) {
	pos, ok := c.Pos()
	if !ok {
		return Coordinate{}, false
	}
	pos.Row += dr
	pos.Col += dc
	if pos.Row < 1 || pos.Col < 1 {
		return Coordinate{}, false
	}
	parent, _ := c.Parent()
	return ChildOf(parent, pos), true
}

// String renders the canonical address path: the literal "root" followed by
// one column-letters-then-row-digits segment per nesting level, joined by
// dashes. (1,1) is "A1", (2,3) is "C2".
func (c Coordinate) String() string {
	var sb strings.Builder
	sb.WriteString("root")
	for _, p := range c.path {
		sb.WriteByte('-')
		sb.WriteString(columnLetters(p.Col))
		sb.WriteString(strconv.Itoa(p.Row))
	}
	return sb.String()
}

// Parse is the inverse of String. It fails with a *ParseError on malformed
// segments: an unknown prefix, empty segments, missing letters or digits,
// or a zero row or column.
func Parse(s string) (Coordinate, error) {
	segs := strings.Split(s, "-")
	if segs[0] != "root" {
		return Coordinate{}, &ParseError{Input: s, Reason: "path must start with root"}
	}
	path := make([]RowCol, 0, len(segs)-1)
	for _, seg := range segs[1:] {
		pos, ok := parseSegment(seg)
		if !ok {
			return Coordinate{}, &ParseError{Input: s, Reason: "malformed segment " + strconv.Quote(seg)}
		}
		path = append(path, pos)
	}
	return Coordinate{path: path}, nil
}

// MustParse is Parse for well-known constant addresses; it panics on error.
func MustParse(s string) Coordinate {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

func parseSegment(seg string) (RowCol, bool) {
	i := 0
	col := 0
	for i < len(seg) && seg[i] >= 'A' && seg[i] <= 'Z' {
		col = col*26 + int(seg[i]-'A'+1)
		if col > 1<<30 {
			return RowCol{}, false
		}
		i++
	}
	if i == 0 || i == len(seg) {
		return RowCol{}, false
	}
	row := 0
	for ; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return RowCol{}, false
		}
		row = row*10 + int(seg[i]-'0')
		if row > 1<<30 {
			return RowCol{}, false
		}
	}
	if row < 1 || col < 1 {
		return RowCol{}, false
	}
	return RowCol{Row: row, Col: col}, true
}

// withLevel returns c with the position at nesting level i replaced.
func withLevel(c Coordinate, i int, pos RowCol) Coordinate {
	path := append([]RowCol(nil), c.path...)
	path[i] = pos
	return Coordinate{path: path}
}

// columnLetters renders a 1-based column index in bijective base-26:
// 1 is "A", 26 is "Z", 27 is "AA".
func columnLetters(col int) string {
	var buf [8]byte
	i := len(buf)
	for col > 0 {
		col--
		i--
		buf[i] = byte('A' + col%26)
		col /= 26
	}
	return string(buf[i:])
}
