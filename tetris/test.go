package tetris

import (
	"sync"
	"time"
)

// MockTicker is a hand-driven Ticker for tests.
type MockTicker struct {
	ch     chan time.Time
	mu     sync.Mutex
	stop   bool
	resets []time.Duration
}

func NewMockTicker() *MockTicker { return &MockTicker{ch: make(chan time.Time)} }

func (m *MockTicker) C() <-chan time.Time { return m.ch }

// Tick blocks until the game receives the tick.
func (m *MockTicker) Tick() { m.ch <- time.Now() }

func (m *MockTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = true
}

func (m *MockTicker) Reset(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stop = false
	m.resets = append(m.resets, d)
}

func (m *MockTicker) IsStop() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stop
}

// Resets returns every duration the ticker was reset to, in order.
func (m *MockTicker) Resets() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.resets...)
}

// NewTestGame returns a Game driven by a MockTicker.
func NewTestGame() (*Game, *MockTicker) {
	ticker := NewMockTicker()
	return NewConfigurableGame(ticker, nil, nil), ticker
}

// NewTestSession starts a session with cfg whose pieces come out in the
// order given by next. Draws past the end of next fall back to the bag.
func NewTestSession(cfg Config, next ...Kind) *Session {
	s := NewSession(nil)
	if err := s.Start(cfg); err != nil {
		panic(err)
	}
	if len(next) > 0 {
		s.ctrl.reset()
		s.bag.kinds = s.bag.kinds[:0]
		for i := len(next) - 1; i >= 0; i-- {
			s.bag.kinds = append(s.bag.kinds, next[i])
		}
		s.state = Running
		s.spawn()
	}
	return s
}

// Fill settles kind k on the given cells of the session's board.
func (s *Session) Fill(k Kind, cells ...Offset) {
	merge := make([]Cell, 0, len(cells))
	for _, c := range cells {
		merge = append(merge, Cell{Col: c.Col, Row: c.Row, Kind: k})
	}
	s.board.Merge(merge)
}
