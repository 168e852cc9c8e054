package tetris

import (
	"testing"
	"time"
)

func TestTickHonorsQueuedCommands(t *testing.T) {
	// .	0 1 2 3 4 5 6 7 8 9
	// 18	. . . O . . . . . .
	// 19	. . . O O O . . . .
	game, _ := NewTestGame()
	game.session = NewTestSession(DefaultConfig(), J, T)
	for range 18 {
		game.session.Gravity()
	}

	// the move was sent before the tick that would lock the piece.
	game.actionCh <- action{cmd: MoveLeft}
	game.mu.Lock()
	game.tick()
	game.mu.Unlock()

	b := game.session.board
	if b.At(2, 18) != J || b.At(2, 19) != J || b.At(4, 19) != J {
		t.Errorf("wanted J locked one column to the left, got\n%v", b)
	}
	if b.Occupied(5, 19) {
		t.Errorf("wanted column 5 free, got\n%v", b)
	}
}

func TestIntervalReset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TargetLines = 10
	cfg.LinesPerStep = 1
	cfg.IntervalStep = 100 * time.Millisecond

	game, ticker := NewTestGame()
	if err := game.Start(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer game.Stop()
	<-game.Updates()

	game.mu.Lock()
	game.session = NewTestSession(cfg, I, O)
	for col := 1; col < 10; col++ {
		game.session.Fill(J, Offset{col, 19})
	}
	game.mu.Unlock()

	game.Action(RotateRight)
	for range 5 {
		game.Action(MoveLeft)
	}
	game.Action(HardDrop)
	deadline := time.After(time.Second)
	for game.Read().Lines != 1 {
		select {
		case <-game.Updates():
		case <-deadline:
			t.Fatalf("timed out waiting for the line clear")
		}
	}
	// the loop resets the ticker after releasing the lock.
	for range 100 {
		if len(ticker.Resets()) == 2 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	want := []time.Duration{800 * time.Millisecond, 700 * time.Millisecond}
	got := ticker.Resets()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("wanted resets %v, got %v", want, got)
	}
}
