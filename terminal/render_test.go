package terminal

import (
	"blockfall/tetris"
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func testRender(t *testing.T, noGhost bool) (*render, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r, err := newRender(&buf, slog.New(slog.NewTextHandler(os.Stdout, nil)), noGhost)
	if err != nil {
		t.Fatalf("unable to create render: %v", err)
	}
	return r, &buf
}

func TestPlayfield(t *testing.T) {
	s := tetris.NewTestSession(tetris.DefaultConfig(), tetris.O)
	s.Fill(tetris.Z, tetris.Offset{Col: 0, Row: 19})
	snap := s.Snapshot()

	t.Run("draws settled cells, ghost and piece", func(t *testing.T) {
		lines := playfield(frame{Snap: snap})
		if len(lines) != 20 {
			t.Fatalf("wanted 20 lines, got %d", len(lines))
		}
		if !strings.HasPrefix(lines[19], block(tetris.Z)) {
			t.Errorf("wanted the settled Z at the start of the bottom line, got %q", lines[19])
		}
		wantTop := strings.Repeat("  ", 4) + block(tetris.O) + block(tetris.O) + strings.Repeat("  ", 4)
		if lines[0] != wantTop {
			t.Errorf("wanted %q, got %q", wantTop, lines[0])
		}
		wantGhost := strings.Repeat("  ", 4) + "[][]" + strings.Repeat("  ", 4)
		if lines[18] != wantGhost {
			t.Errorf("wanted ghost %q, got %q", wantGhost, lines[18])
		}
	})

	t.Run("ghost can be turned off", func(t *testing.T) {
		lines := playfield(frame{Snap: snap, NoGhost: true})
		if strings.Contains(lines[18], "[][]") {
			t.Errorf("wanted no ghost, got %q", lines[18])
		}
	})
}

func TestRender(t *testing.T) {
	t.Run("game frame", func(t *testing.T) {
		r, buf := testRender(t, false)
		cfg := tetris.DefaultConfig()
		r.game(tetris.NewTestSession(cfg, tetris.T).Snapshot())
		out := buf.String()
		if !strings.HasPrefix(out, resetPos) {
			t.Errorf("wanted the frame to start at the top left")
		}
		for _, want := range []string{"BlockFall", "score      0", "lines 0/7"} {
			if !strings.Contains(out, want) {
				t.Errorf("wanted %q in\n%s", want, out)
			}
		}
		if n := strings.Count(out, "\r\n|"); n != 21 {
			t.Errorf("wanted 21 framed lines, got %d", n)
		}
	})

	t.Run("lobby message is centered", func(t *testing.T) {
		r, buf := testRender(t, false)
		r.lobby("Game Over :)")
		if !strings.Contains(buf.String(), "|    Game Over :)    |") {
			t.Errorf("wanted a centered message, got %q", buf.String())
		}
	})
}

func TestRenderFunc(t *testing.T) {
	snap := tetris.NewTestSession(tetris.DefaultConfig(), tetris.I).Snapshot()
	for _, ghost := range []bool{true, false} {
		var buf bytes.Buffer
		if err := Render(&buf, snap, ghost); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.Contains(buf.String(), "[][][][]"); got != ghost {
			t.Errorf("ghost %t: wanted ghost drawn %t, got %t", ghost, ghost, got)
		}
	}
}

func TestStateLabel(t *testing.T) {
	tests := []struct {
		state tetris.State
		want  string
	}{
		{tetris.Ready, ""},
		{tetris.Running, ""},
		{tetris.Won, "cleared!"},
		{tetris.Lost, "game over"},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			if got := stateLabel(tt.state); got != tt.want {
				t.Errorf("wanted %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("game frame shows the label", func(t *testing.T) {
		r, buf := testRender(t, false)
		r.game(tetris.Snapshot{State: tetris.Lost, Target: 7})
		if !strings.Contains(buf.String(), "game over") {
			t.Errorf("wanted the lost label in\n%s", buf.String())
		}
	})
}
