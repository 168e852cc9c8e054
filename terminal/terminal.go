// Package terminal plays a tetris.Game in a raw ANSI console: keyboard
// events become engine commands and every update redraws the playfield.
package terminal

import (
	"blockfall/tetris"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/eiannone/keyboard"
	"google.golang.org/grpc"
)

type tetrisGame interface {
	Start(tetris.Config) error
	Stop()
	Action(tetris.Command)
	Read() tetris.Snapshot
	Updates() <-chan struct{}
	Results() <-chan tetris.Result
}

type renderer interface {
	game(tetris.Snapshot)
	lobby(message string)
	clear()
}

type Options struct {
	Writer  io.Writer
	Config  tetris.Config
	NoGhost bool

	// Remote, when set, plays on a blockfall server instead of locally.
	Remote grpc.ClientConnInterface
}

type Terminal struct {
	tetris tetrisGame
	render renderer
	config tetris.Config
	logger *slog.Logger
	kbCh   <-chan keyboard.KeyEvent
	lobby  atomic.Bool
}

// New opens the keyboard and prepares a local game. Close must be called to
// give the console back.
func New(l *slog.Logger, o *Options) (*Terminal, error) {
	var w io.Writer = os.Stdout
	if o.Writer != nil {
		w = o.Writer
	}
	r, err := newRender(w, l, o.NoGhost)
	if err != nil {
		return nil, fmt.Errorf("failed to load renderer: %w", err)
	}
	kb, err := keyboard.GetKeys(20)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyboard: %w", err)
	}
	var game tetrisGame = tetris.NewGame(l)
	if o.Remote != nil {
		game = NewRemote(o.Remote, l)
	}
	return &Terminal{
		tetris: game,
		render: r,
		config: o.Config,
		logger: l,
		kbCh:   kb,
	}, nil
}

// Close stops the game and releases the keyboard.
func (t *Terminal) Close() error {
	t.tetris.Stop()
	return keyboard.Close()
}

// CommandFor maps a key press to an engine command.
func CommandFor(e keyboard.KeyEvent) (tetris.Command, bool) {
	switch {
	case e.Key == keyboard.KeyArrowDown || e.Rune == 's':
		return tetris.SoftDrop, true
	case e.Key == keyboard.KeyArrowLeft || e.Rune == 'a':
		return tetris.MoveLeft, true
	case e.Key == keyboard.KeyArrowRight || e.Rune == 'd':
		return tetris.MoveRight, true
	case e.Key == keyboard.KeyArrowUp || e.Rune == 'e' || e.Rune == 'x':
		return tetris.RotateRight, true
	case e.Key == keyboard.KeySpace:
		return tetris.HardDrop, true
	}
	return "", false
}

// Run shows the lobby and plays until the user quits or ctx is done.
func (t *Terminal) Run(ctx context.Context) error {
	t.render.clear()
	t.render.game(t.tetris.Read())
	t.toLobby("Welcome")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-t.kbCh:
			if !ok {
				t.logger.Error("keyboard events channel closed unexpectedly")
				return nil
			}
			if event.Err != nil {
				t.logger.Error("keysEvents error", slog.String("error", event.Err.Error()))
				return fmt.Errorf("keyboard: %w", event.Err)
			}
			if event.Key == keyboard.KeyCtrlC {
				return nil
			}
			if quit := t.key(event); quit {
				return nil
			}
		case <-t.tetris.Updates():
			t.render.game(t.tetris.Read())
		case res := <-t.tetris.Results():
			t.render.game(t.tetris.Read())
			switch res.State {
			case tetris.Won:
				t.toLobby(fmt.Sprintf("Cleared! %d pts", res.Score))
			default:
				t.toLobby("Game Over :)")
			}
		}
	}
}

// key handles a single key press and reports whether the user quit.
func (t *Terminal) key(event keyboard.KeyEvent) bool {
	if t.lobby.Load() {
		switch event.Rune {
		case 'p', 'r':
			if err := t.tetris.Start(t.config); err != nil {
				t.logger.Error("unable to start game", slog.String("error", err.Error()))
				t.toLobby("unable to start :(")
				return false
			}
			t.lobby.Store(false)
			t.render.clear()
		case 'q':
			return true
		}
		return false
	}
	if event.Key == keyboard.KeyEsc {
		t.tetris.Stop()
		t.toLobby("Stopped")
		return false
	}
	if c, ok := CommandFor(event); ok {
		t.tetris.Action(c)
	}
	return false
}

func (t *Terminal) toLobby(message string) {
	t.lobby.Store(true)
	t.render.lobby(message)
}
