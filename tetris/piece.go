package tetris

// Piece is the falling tetromino. Col and Row locate the top-left corner of
// its bounding box on the board.
type Piece struct {
	Kind     Kind
	Col      int
	Row      int
	Rotation int
}

// Cells returns the absolute board cells covered by the piece.
func (p Piece) Cells() []Cell {
	offsets := blocks[p.Kind][rot4(p.Rotation)]
	cells := make([]Cell, 0, len(offsets))
	for _, off := range offsets {
		cells = append(cells, Cell{Col: p.Col + off.Col, Row: p.Row + off.Row, Kind: p.Kind})
	}
	return cells
}

// fits reports whether every block of p lands on a free in-bounds cell.
func (p Piece) fits(g Grid) bool {
	for _, off := range blocks[p.Kind][rot4(p.Rotation)] {
		if g.Occupied(p.Col+off.Col, p.Row+off.Row) {
			return false
		}
	}
	return true
}

// Controller holds the active piece. It is either falling (a piece exists)
// or absent (between a lock and the next spawn). The board is never stored:
// every operation validates against the Grid it is given.
type Controller struct {
	piece   Piece
	falling bool
}

// Active returns the falling piece, false when absent.
func (c *Controller) Active() (Piece, bool) {
	return c.piece, c.falling
}

// Spawn places k at the top of the board, centered on its bounding box.
// It returns false, leaving the controller absent, when the spawn cells are
// already taken.
func (c *Controller) Spawn(g Grid, k Kind) bool {
	p := Piece{Kind: k, Col: (g.Width() - k.Width()) / 2}
	if !p.fits(g) {
		c.falling = false
		return false
	}
	c.piece, c.falling = p, true
	return true
}

// TryMove translates the piece if the destination is free.
func (c *Controller) TryMove(g Grid, dc, dr int) bool {
	if !c.falling {
		return false
	}
	next := c.piece
	next.Col += dc
	next.Row += dr
	if !next.fits(g) {
		return false
	}
	c.piece = next
	return true
}

// TryRotateClockwise tries each kick of the current rotation in order and
// applies the first one that fits. Position and rotation change together or
// not at all.
func (c *Controller) TryRotateClockwise(g Grid) bool {
	if !c.falling {
		return false
	}
	for _, kick := range Kicks(c.piece.Kind, c.piece.Rotation) {
		next := Piece{
			Kind:     c.piece.Kind,
			Col:      c.piece.Col + kick.Col,
			Row:      c.piece.Row + kick.Row,
			Rotation: rot4(c.piece.Rotation + 1),
		}
		if next.fits(g) {
			c.piece = next
			return true
		}
	}
	return false
}

// Lock ends the falling life of the piece and returns the cells it covers.
// Merging them into the board is up to the caller.
func (c *Controller) Lock() []Cell {
	if !c.falling {
		return nil
	}
	c.falling = false
	return c.piece.Cells()
}

// GhostRow returns the row the piece would come to rest at if it kept
// falling. It returns the current row when absent.
func (c *Controller) GhostRow(g Grid) int {
	probe := c.piece
	if !c.falling {
		return probe.Row
	}
	for {
		probe.Row++
		if !probe.fits(g) {
			return probe.Row - 1
		}
	}
}

func (c *Controller) reset() {
	*c = Controller{}
}
