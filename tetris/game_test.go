package tetris_test

import (
	"blockfall/tetris"
	"context"
	"errors"
	"testing"
	"time"
)

func waitUpdate(t *testing.T, g *tetris.Game) {
	t.Helper()
	select {
	case <-g.Updates():
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for update signal")
	}
}

func TestStartStop(t *testing.T) {
	game, ticker := tetris.NewTestGame()
	if err := game.Start(tetris.DefaultConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	waitUpdate(t, game)
	if got := game.Read().State; got != tetris.Running {
		t.Errorf("wanted running, got %v", got)
	}
	resets := ticker.Resets()
	if len(resets) != 1 || resets[0] != 800*time.Millisecond {
		t.Errorf("wanted ticker reset once to 800ms, got %v", resets)
	}

	game.Stop()
	if !ticker.IsStop() {
		t.Errorf("wanted ticker to be stopped")
	}

	done := make(chan struct{})
	go func() {
		game.Action(tetris.MoveLeft)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Errorf("action after stop blocked")
	}
}

func TestStartInvalidConfig(t *testing.T) {
	game, ticker := tetris.NewTestGame()
	cfg := tetris.DefaultConfig()
	cfg.Width = 2
	if err := game.Start(cfg); !errors.Is(err, tetris.ErrInvalidConfig) {
		t.Fatalf("wanted ErrInvalidConfig, got %v", err)
	}
	if got := game.Read().State; got != tetris.Ready {
		t.Errorf("wanted ready, got %v", got)
	}
	if len(ticker.Resets()) != 0 {
		t.Errorf("wanted the ticker untouched")
	}
}

func TestTickAndAction(t *testing.T) {
	game, ticker := tetris.NewTestGame()
	if err := game.Start(tetris.DefaultConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer game.Stop()
	waitUpdate(t, game)
	start := *game.Read().Piece

	ticker.Tick()
	waitUpdate(t, game)
	if p := game.Read().Piece; p.Row != start.Row+1 {
		t.Errorf("wanted tick to move the piece to row %d, got %d", start.Row+1, p.Row)
	}

	game.Action(tetris.MoveLeft)
	waitUpdate(t, game)
	if p := game.Read().Piece; p.Col != start.Col-1 {
		t.Errorf("wanted the piece at column %d, got %d", start.Col-1, p.Col)
	}
}

func TestResultOnce(t *testing.T) {
	game, _ := tetris.NewTestGame()
	if err := game.Start(tetris.DefaultConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer game.Stop()

	// dropping everything in the middle can't clear a row, so the stack
	// eventually tops out.
	var res tetris.Result
	timeout := time.After(5 * time.Second)
wait:
	for {
		select {
		case res = <-game.Results():
			break wait
		case <-timeout:
			t.Fatalf("timed out waiting for the game to end")
		default:
			game.Action(tetris.HardDrop)
		}
	}
	if res.State != tetris.Lost || res.Score != 0 || res.Lines != 0 {
		t.Errorf("wanted a lost game with no score, got %+v", res)
	}
	if got := game.Read().State; got != tetris.Lost {
		t.Errorf("wanted lost, got %v", got)
	}

	// terminal games ignore commands and report nothing else.
	game.Action(tetris.HardDrop)
	select {
	case r := <-game.Results():
		t.Errorf("wanted a single result, got another %+v", r)
	case <-time.After(50 * time.Millisecond):
	}

	// a fresh start brings the game back.
	if err := game.Start(tetris.DefaultConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := game.Read().State; got != tetris.Running {
		t.Errorf("wanted running after restart, got %v", got)
	}
}

func TestDo(t *testing.T) {
	game, _ := tetris.NewTestGame()
	ctx := context.Background()
	if _, err := game.Do(ctx, tetris.MoveLeft); !errors.Is(err, tetris.ErrNotRunning) {
		t.Errorf("wanted ErrNotRunning before start, got %v", err)
	}

	if err := game.Start(tetris.DefaultConfig()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	start := *game.Read().Piece
	snap, err := game.Do(ctx, tetris.MoveRight)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Piece == nil || snap.Piece.Col != start.Col+1 {
		t.Errorf("wanted the piece at column %d, got %+v", start.Col+1, snap.Piece)
	}

	snap, err = game.Do(ctx, tetris.HardDrop)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	settled := 0
	for _, row := range snap.Board {
		for _, k := range row {
			if k != tetris.Empty {
				settled++
			}
		}
	}
	if settled != 4 {
		t.Errorf("wanted 4 settled cells after a hard drop, got %d", settled)
	}

	game.Stop()
	if _, err := game.Do(ctx, tetris.MoveLeft); !errors.Is(err, tetris.ErrNotRunning) {
		t.Errorf("wanted ErrNotRunning after stop, got %v", err)
	}
}
