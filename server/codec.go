package server

import (
	"blockfall/tetris"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// encodeSnapshot turns a snapshot into the wire struct. Rows are strings of
// kind letters with "." for empty cells.
func encodeSnapshot(s tetris.Snapshot) (*structpb.Struct, error) {
	board := make([]any, len(s.Board))
	for i, row := range s.Board {
		line := make([]byte, len(row))
		for j, k := range row {
			line[j] = k.String()[0]
		}
		board[i] = string(line)
	}
	fields := map[string]any{
		"state":  s.State.String(),
		"score":  s.Score,
		"lines":  s.Lines,
		"target": s.Target,
		"board":  board,
	}
	if p := s.Piece; p != nil {
		fields["piece"] = map[string]any{
			"kind":     p.Kind.String(),
			"col":      p.Col,
			"row":      p.Row,
			"rotation": p.Rotation,
		}
		fields["ghost_row"] = s.GhostRow
	}
	return structpb.NewStruct(fields)
}

func decodeSnapshot(st *structpb.Struct) (tetris.Snapshot, error) {
	f := st.GetFields()
	state, ok := tetris.ParseState(f["state"].GetStringValue())
	if !ok {
		return tetris.Snapshot{}, fmt.Errorf("unknown state %q", f["state"].GetStringValue())
	}
	s := tetris.Snapshot{
		State:  state,
		Score:  int(f["score"].GetNumberValue()),
		Lines:  int(f["lines"].GetNumberValue()),
		Target: int(f["target"].GetNumberValue()),
	}
	for _, v := range f["board"].GetListValue().GetValues() {
		line := v.GetStringValue()
		row := make([]tetris.Kind, len(line))
		for i := range line {
			if line[i] == '.' {
				continue
			}
			k, ok := tetris.ParseKind(line[i : i+1])
			if !ok {
				return tetris.Snapshot{}, fmt.Errorf("unknown kind %q in board", line[i])
			}
			row[i] = k
		}
		s.Board = append(s.Board, row)
	}
	if pv, ok := f["piece"]; ok {
		pf := pv.GetStructValue().GetFields()
		k, ok := tetris.ParseKind(pf["kind"].GetStringValue())
		if !ok {
			return tetris.Snapshot{}, fmt.Errorf("unknown piece kind %q", pf["kind"].GetStringValue())
		}
		s.Piece = &tetris.Piece{
			Kind:     k,
			Col:      int(pf["col"].GetNumberValue()),
			Row:      int(pf["row"].GetNumberValue()),
			Rotation: int(pf["rotation"].GetNumberValue()),
		}
		s.GhostRow = int(f["ghost_row"].GetNumberValue())
	}
	return s, nil
}
