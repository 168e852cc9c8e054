package tetris

// Kind identifies one of the seven tetrominoes. The zero value is Empty and
// is what an unoccupied board cell holds.
type Kind uint8

const (
	Empty Kind = iota
	I
	O
	T
	S
	Z
	J
	L
)

var kindNames = [...]string{
	Empty: ".",
	I:     "I",
	O:     "O",
	T:     "T",
	S:     "S",
	Z:     "Z",
	J:     "J",
	L:     "L",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// ParseKind returns the kind named by s ("I", "O", ...).
func ParseKind(s string) (Kind, bool) {
	for k, n := range kindNames {
		if k != int(Empty) && n == s {
			return Kind(k), true
		}
	}
	return Empty, false
}

// Kinds returns the seven playable kinds in canonical order.
func Kinds() []Kind {
	return []Kind{I, O, T, S, Z, J, L}
}

// Offset is a displacement in board coordinates. Columns grow to the right
// and rows grow downward.
type Offset struct {
	Col, Row int
}

const x, o = true, false

// matrices holds the four clockwise rotations of every kind. Row 0 of a
// matrix is the top of the bounding box.
var matrices = [...][4][][]bool{
	/*
		. . . .     . . X .     . . . .     . X . .
		X X X X     . . X .     . . . .     . X . .
		. . . .     . . X .     X X X X     . X . .
		. . . .     . . X .     . . . .     . X . .
	*/
	I: {
		{{o, o, o, o}, {x, x, x, x}, {o, o, o, o}, {o, o, o, o}},
		{{o, o, x, o}, {o, o, x, o}, {o, o, x, o}, {o, o, x, o}},
		{{o, o, o, o}, {o, o, o, o}, {x, x, x, x}, {o, o, o, o}},
		{{o, x, o, o}, {o, x, o, o}, {o, x, o, o}, {o, x, o, o}},
	},
	O: {
		{{x, x}, {x, x}},
		{{x, x}, {x, x}},
		{{x, x}, {x, x}},
		{{x, x}, {x, x}},
	},
	T: {
		{{o, x, o}, {x, x, x}, {o, o, o}},
		{{o, x, o}, {o, x, x}, {o, x, o}},
		{{o, o, o}, {x, x, x}, {o, x, o}},
		{{o, x, o}, {x, x, o}, {o, x, o}},
	},
	S: {
		{{o, x, x}, {x, x, o}, {o, o, o}},
		{{o, x, o}, {o, x, x}, {o, o, x}},
		{{o, o, o}, {o, x, x}, {x, x, o}},
		{{x, o, o}, {x, x, o}, {o, x, o}},
	},
	Z: {
		{{x, x, o}, {o, x, x}, {o, o, o}},
		{{o, o, x}, {o, x, x}, {o, x, o}},
		{{o, o, o}, {x, x, o}, {o, x, x}},
		{{o, x, o}, {x, x, o}, {x, o, o}},
	},
	J: {
		{{x, o, o}, {x, x, x}, {o, o, o}},
		{{o, x, x}, {o, x, o}, {o, x, o}},
		{{o, o, o}, {x, x, x}, {o, o, x}},
		{{o, x, o}, {o, x, o}, {x, x, o}},
	},
	L: {
		{{o, o, x}, {x, x, x}, {o, o, o}},
		{{o, x, o}, {o, x, o}, {o, x, x}},
		{{o, o, o}, {x, x, x}, {x, o, o}},
		{{x, x, o}, {o, x, o}, {o, x, o}},
	},
}

// Kick tables are indexed by the rotation the piece rotates from. They are
// written in board coordinates, so a guideline "+1 up" appears as Row: -1.
var (
	noKick = []Offset{{0, 0}}

	jlstzKicks = [4][]Offset{
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}},
	}

	iKicks = [4][]Offset{
		{{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
		{{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}},
		{{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}},
		{{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
	}
)

// blocks caches the filled offsets of every matrix so collision checks don't
// walk the whole bounding box.
var blocks [len(matrices)][4][]Offset

func init() {
	for _, k := range Kinds() {
		for r, m := range matrices[k] {
			for row, line := range m {
				for col, filled := range line {
					if filled {
						blocks[k][r] = append(blocks[k][r], Offset{Col: col, Row: row})
					}
				}
			}
		}
	}
}

func rot4(r int) int {
	return ((r % 4) + 4) % 4
}

// Matrix returns a copy of the occupancy matrix of k at rotation rot (mod 4).
func (k Kind) Matrix(rot int) [][]bool {
	src := matrices[k][rot4(rot)]
	m := make([][]bool, len(src))
	for i := range src {
		m[i] = make([]bool, len(src[i]))
		copy(m[i], src[i])
	}
	return m
}

// Width returns the side of the bounding box of k.
func (k Kind) Width() int {
	return len(matrices[k][0])
}

// Kicks returns the ordered offsets to try when k rotates clockwise from
// rotation from. The first entry is always the zero offset.
func Kicks(k Kind, from int) []Offset {
	var kicks []Offset
	switch k {
	case I:
		kicks = iKicks[rot4(from)]
	case O:
		kicks = noKick
	default:
		kicks = jlstzKicks[rot4(from)]
	}
	return append([]Offset(nil), kicks...)
}

// maxBoxSize is the largest bounding box among all kinds.
const maxBoxSize = 4
