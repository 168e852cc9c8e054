package tetris

import (
	"reflect"
	"testing"
)

func TestMatrix(t *testing.T) {
	t.Run("every kind has four rotations of four blocks", func(t *testing.T) {
		for _, k := range Kinds() {
			for r := range 4 {
				if n := len(blocks[k][r]); n != 4 {
					t.Errorf("%v rotation %d: wanted 4 blocks, got %d", k, r, n)
				}
				m := k.Matrix(r)
				if len(m) != k.Width() {
					t.Errorf("%v rotation %d: wanted a %dx%d matrix, got %d rows", k, r, k.Width(), k.Width(), len(m))
				}
			}
		}
	})

	t.Run("rotation index wraps around", func(t *testing.T) {
		if !reflect.DeepEqual(T.Matrix(5), T.Matrix(1)) {
			t.Errorf("wanted rotation 5 to equal rotation 1")
		}
		if !reflect.DeepEqual(T.Matrix(-1), T.Matrix(3)) {
			t.Errorf("wanted rotation -1 to equal rotation 3")
		}
	})

	t.Run("returned matrix is a copy", func(t *testing.T) {
		m := J.Matrix(0)
		m[0][0] = false
		if !J.Matrix(0)[0][0] {
			t.Errorf("mutating a returned matrix changed the shape library")
		}
	})

	t.Run("J rotations", func(t *testing.T) {
		want := [][]bool{
			{false, true, true},
			{false, true, false},
			{false, true, false},
		}
		if got := J.Matrix(1); !reflect.DeepEqual(got, want) {
			t.Errorf("wanted %v, got %v", want, got)
		}
	})
}

func TestKicks(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		from int
		want []Offset
	}{
		{
			name: "O never kicks",
			kind: O,
			from: 2,
			want: []Offset{{0, 0}},
		},
		{
			name: "I from 0",
			kind: I,
			from: 0,
			want: []Offset{{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}},
		},
		{
			name: "I from 3",
			kind: I,
			from: 3,
			want: []Offset{{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}},
		},
		{
			name: "T from 0",
			kind: T,
			from: 0,
			want: []Offset{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}},
		},
		{
			name: "S shares the JLSTZ table",
			kind: S,
			from: 1,
			want: []Offset{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}},
		},
		{
			name: "from wraps around",
			kind: L,
			from: 6,
			want: []Offset{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Kicks(tt.kind, tt.from); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("wanted %v, got %v", tt.want, got)
			}
		})
	}

	t.Run("first kick is always the zero offset", func(t *testing.T) {
		for _, k := range Kinds() {
			for r := range 4 {
				if got := Kicks(k, r)[0]; got != (Offset{}) {
					t.Errorf("%v from %d: wanted (0,0) first, got %v", k, r, got)
				}
			}
		}
	})
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("wanted %v, got %v (%t)", k, got, ok)
		}
	}
	if _, ok := ParseKind("."); ok {
		t.Errorf("wanted the empty cell name to be rejected")
	}
}
