// Package tetris is a falling-block engine: shapes with SRS wall kicks, a
// 7-bag randomizer, a settled board, the active piece and the game loop
// that drives gravity, locking, line clears and scoring.
package tetris

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"time"
)

type State int

const (
	Ready State = iota
	Running
	Won
	Lost
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState is the inverse of State.String.
func ParseState(s string) (State, bool) {
	for _, st := range []State{Ready, Running, Won, Lost} {
		if st.String() == s {
			return st, true
		}
	}
	return Ready, false
}

// Terminal reports whether the session has ended.
func (s State) Terminal() bool { return s == Won || s == Lost }

type Command string

const (
	MoveLeft    Command = "left"     // Moves the piece one column to the left.
	MoveRight   Command = "right"    // Moves the piece one column to the right.
	SoftDrop    Command = "down"     // Moves the piece one row down, locking it if it can't.
	HardDrop    Command = "drop"     // Drops the piece to the bottom and locks it.
	RotateRight Command = "rotatecw" // Rotates the piece clockwise with wall kicks.
)

// ParseCommand maps a command name to its Command.
func ParseCommand(s string) (Command, bool) {
	switch c := Command(s); c {
	case MoveLeft, MoveRight, SoftDrop, HardDrop, RotateRight:
		return c, true
	}
	return "", false
}

// Result is the outcome of a finished session.
type Result struct {
	State State
	Score int
	Lines int
}

// Snapshot is a copy of the session safe to hand to renderers.
type Snapshot struct {
	Board    [][]Kind
	Piece    *Piece
	GhostRow int
	Score    int
	Lines    int
	Target   int
	State    State
}

// Session is the authoritative game state. It is not safe for concurrent
// use; Game serializes access to it.
type Session struct {
	cfg   Config
	rng   *rand.Rand
	board *Board
	ctrl  Controller
	bag   *Bag
	score int
	lines int
	state State

	// lastCleared is the number of rows removed by the most recent lock.
	lastCleared int
}

// NewSession returns a session in the Ready state. A nil r uses the global
// random source for the bag.
func NewSession(r *rand.Rand) *Session {
	cfg := DefaultConfig()
	return &Session{
		cfg:   cfg,
		rng:   r,
		board: NewBoard(cfg.Height, cfg.Width),
		bag:   NewBag(r),
	}
}

// Start validates cfg and begins a new game, discarding any previous one.
// Nothing is touched when cfg is invalid.
func (s *Session) Start(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.ScoreTable = maps.Clone(cfg.ScoreTable)
	s.cfg = cfg
	s.board = NewBoard(cfg.Height, cfg.Width)
	s.bag = NewBag(s.rng)
	s.ctrl.reset()
	s.score, s.lines, s.lastCleared = 0, 0, 0
	s.state = Running
	s.spawn()
	return nil
}

func (s *Session) State() State { return s.state }

func (s *Session) Score() int { return s.score }

func (s *Session) Lines() int { return s.lines }

// Interval returns the current gravity interval.
func (s *Session) Interval() time.Duration { return s.cfg.interval(s.lines) }

// Result returns the outcome once the session is over.
func (s *Session) Result() (Result, bool) {
	if !s.state.Terminal() {
		return Result{}, false
	}
	return Result{State: s.state, Score: s.score, Lines: s.lines}, true
}

// Gravity moves the active piece one row down, locking it when it can't
// move. It returns true when the piece locked.
func (s *Session) Gravity() bool {
	if s.state != Running {
		return false
	}
	if s.ctrl.TryMove(s.board, 0, 1) {
		return false
	}
	s.lock()
	return true
}

// Apply runs a player command and reports whether it changed anything.
// Commands outside the Running state are ignored.
func (s *Session) Apply(c Command) bool {
	if s.state != Running {
		return false
	}
	switch c {
	case MoveLeft:
		return s.ctrl.TryMove(s.board, -1, 0)
	case MoveRight:
		return s.ctrl.TryMove(s.board, 1, 0)
	case RotateRight:
		return s.ctrl.TryRotateClockwise(s.board)
	case SoftDrop:
		if !s.ctrl.TryMove(s.board, 0, 1) {
			s.lock()
		}
		return true
	case HardDrop:
		for s.ctrl.TryMove(s.board, 0, 1) {
		}
		s.lock()
		return true
	}
	return false
}

// lock merges the piece, clears rows, scores and moves on to the next
// piece or a terminal state.
func (s *Session) lock() {
	s.board.Merge(s.ctrl.Lock())
	s.lastCleared = s.board.ClearFullRows()
	s.lines += s.lastCleared
	s.score += s.cfg.ScoreTable[s.lastCleared]
	if s.lines >= s.cfg.TargetLines {
		s.state = Won
		return
	}
	s.spawn()
}

func (s *Session) spawn() {
	if !s.ctrl.Spawn(s.board, s.bag.Draw()) {
		s.state = Lost
	}
}

// Snapshot copies everything a renderer needs.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Board:  s.board.Rows(),
		Score:  s.score,
		Lines:  s.lines,
		Target: s.cfg.TargetLines,
		State:  s.state,
	}
	if p, ok := s.ctrl.Active(); ok {
		snap.Piece = &p
		snap.GhostRow = s.ctrl.GhostRow(s.board)
	}
	return snap
}
