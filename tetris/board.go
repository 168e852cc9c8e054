package tetris

import "strings"

// Grid is the read-only view of the playfield the controller validates
// against.
type Grid interface {
	Occupied(col, row int) bool
	Width() int
	Height() int
}

// Cell is a settled block at an absolute board position.
type Cell struct {
	Col, Row int
	Kind     Kind
}

// Board is the playfield. Row 0 is the top row and columns are 0 > width-1
// left to right. An Empty cell is free, any other Kind is settled.
type Board struct {
	rows [][]Kind
}

func NewBoard(height, width int) *Board {
	b := &Board{rows: make([][]Kind, height)}
	for i := range b.rows {
		b.rows[i] = make([]Kind, width)
	}
	return b
}

func (b *Board) Height() int { return len(b.rows) }

func (b *Board) Width() int {
	if len(b.rows) == 0 {
		return 0
	}
	return len(b.rows[0])
}

func (b *Board) inBounds(col, row int) bool {
	return row >= 0 && row < b.Height() && col >= 0 && col < b.Width()
}

// Occupied reports whether the cell is settled. Anything outside the board
// counts as occupied so walls and floor need no separate check.
func (b *Board) Occupied(col, row int) bool {
	if !b.inBounds(col, row) {
		return true
	}
	return b.rows[row][col] != Empty
}

// At returns the kind settled at the cell, Empty when free or out of range.
func (b *Board) At(col, row int) Kind {
	if !b.inBounds(col, row) {
		return Empty
	}
	return b.rows[row][col]
}

// Merge writes cells into the board. Positions outside the board are
// dropped.
func (b *Board) Merge(cells []Cell) {
	for _, c := range cells {
		if b.inBounds(c.Col, c.Row) {
			b.rows[c.Row][c.Col] = c.Kind
		}
	}
}

// ClearFullRows removes every full row, shifting the rows above it down,
// and returns how many were removed.
func (b *Board) ClearFullRows() int {
	removed := 0
	for row := b.Height() - 1; row >= 0; {
		if !b.full(row) {
			row--
			continue
		}
		// the row index stays put: whatever was above now sits here.
		copy(b.rows[1:row+1], b.rows[:row])
		b.rows[0] = make([]Kind, b.Width())
		removed++
	}
	return removed
}

func (b *Board) full(row int) bool {
	for _, k := range b.rows[row] {
		if k == Empty {
			return false
		}
	}
	return true
}

// Rows returns a deep copy of the board contents.
func (b *Board) Rows() [][]Kind {
	out := make([][]Kind, len(b.rows))
	for i := range b.rows {
		out[i] = make([]Kind, len(b.rows[i]))
		copy(out[i], b.rows[i])
	}
	return out
}

// String renders one line per row, "." for free cells.
func (b *Board) String() string {
	var sb strings.Builder
	for i, r := range b.rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(rowString(r))
	}
	return sb.String()
}

func rowString(r []Kind) string {
	var sb strings.Builder
	for _, k := range r {
		sb.WriteString(k.String())
	}
	return sb.String()
}
