package tetris

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrNotRunning is returned by Do when no run is active.
var ErrNotRunning = errors.New("game is not running")

// action is a queued command. A non-nil reply receives the snapshot taken
// right after the command ran.
type action struct {
	cmd   Command
	reply chan<- Snapshot
}

// Game drives a Session in real time: one goroutine owns the session and
// serializes gravity ticks and player commands, each running to completion.
type Game struct {
	logger *slog.Logger
	ticker Ticker

	mu       sync.RWMutex
	session  *Session
	interval time.Duration

	actionCh chan action
	updateCh chan struct{}
	resultCh chan Result

	cancel context.CancelFunc
	ctx    context.Context
	wg     sync.WaitGroup
}

// NewGame returns a Game using a real ticker and the global random source.
func NewGame(l *slog.Logger) *Game {
	return NewConfigurableGame(newWrappedTicker(), nil, l)
}

// NewConfigurableGame returns a Game with the given ticker and random
// source. A nil logger discards output.
func NewConfigurableGame(ticker Ticker, r *rand.Rand, l *slog.Logger) *Game {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Game{
		logger:   l,
		ticker:   ticker,
		session:  NewSession(r),
		actionCh: make(chan action, 16),
		updateCh: make(chan struct{}, 1),
		resultCh: make(chan Result, 1),
	}
}

// Start validates cfg and begins a new run, stopping the current one if
// any. On error the running game, if any, is left untouched.
func (g *Game) Start(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.Stop()

	g.mu.Lock()
	if err := g.session.Start(cfg); err != nil {
		g.mu.Unlock()
		return err
	}
	g.interval = g.session.Interval()
	g.ctx, g.cancel = context.WithCancel(context.Background())
	// leftovers from a previous run must not leak into this one.
	select {
	case <-g.resultCh:
	default:
	}
	for len(g.actionCh) > 0 {
		<-g.actionCh
	}
	state := g.session.State()
	g.mu.Unlock()

	g.logger.Info("game started",
		slog.Int("height", cfg.Height),
		slog.Int("width", cfg.Width),
		slog.Int("target_lines", cfg.TargetLines),
		slog.Duration("interval", g.interval))
	g.notify()
	if state.Terminal() {
		g.finish()
		return nil
	}

	g.ticker.Reset(g.interval)
	g.wg.Add(1)
	go g.listen(g.ctx)
	return nil
}

// Stop halts the current run. Once it returns no further tick is
// processed. Stopping an idle game is a no-op.
func (g *Game) Stop() {
	g.mu.RLock()
	cancel := g.cancel
	g.mu.RUnlock()
	if cancel == nil {
		return
	}
	cancel()
	g.wg.Wait()
	// stopped after the loop is gone so it can't be reset behind our back.
	g.ticker.Stop()
	g.logger.Debug("game stopped")
}

// Action queues a command for the running game. Commands sent while no
// run is active are dropped.
func (g *Game) Action(c Command) {
	g.mu.RLock()
	ctx := g.ctx
	g.mu.RUnlock()
	if ctx == nil || ctx.Err() != nil {
		return
	}
	select {
	case g.actionCh <- action{cmd: c}:
	case <-ctx.Done():
	}
}

// Do runs c on the game loop and returns the snapshot taken right after
// it. When the run is over, or ends before c is processed, it returns the
// latest snapshot and ErrNotRunning.
func (g *Game) Do(ctx context.Context, c Command) (Snapshot, error) {
	g.mu.RLock()
	run := g.ctx
	g.mu.RUnlock()
	if run == nil || run.Err() != nil {
		return g.Read(), ErrNotRunning
	}

	reply := make(chan Snapshot, 1)
	select {
	case g.actionCh <- action{cmd: c, reply: reply}:
	case <-run.Done():
		return g.Read(), ErrNotRunning
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case s := <-reply:
		return s, nil
	case <-run.Done():
		// the command may be the one that ended the run.
		select {
		case s := <-reply:
			return s, nil
		default:
			return g.Read(), ErrNotRunning
		}
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Read returns a Snapshot of the session that is safe to use concurrently.
func (g *Game) Read() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.session.Snapshot()
}

// Updates signals after every processed tick or command. Signals coalesce,
// so a slow reader sees the latest state on its next Read.
func (g *Game) Updates() <-chan struct{} { return g.updateCh }

// Results delivers the outcome of a run exactly once, when it ends.
func (g *Game) Results() <-chan Result { return g.resultCh }

func (g *Game) listen(ctx context.Context) {
	defer g.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case a := <-g.actionCh:
			g.mu.Lock()
			g.apply(a)
		case <-g.ticker.C():
			g.mu.Lock()
			g.tick()
		}
		next := g.session.Interval()
		changed := next != g.interval
		g.interval = next
		terminal := g.session.State().Terminal()
		g.mu.Unlock()

		g.notify()
		if terminal {
			g.finish()
			return
		}
		if changed {
			g.logger.Debug("gravity interval changed", slog.Duration("interval", next))
			g.ticker.Reset(next)
		}
	}
}

// tick applies one gravity step. Commands that were queued before the tick
// are honored first so a last-moment move or rotation beats the lock.
// The caller holds g.mu.
func (g *Game) tick() {
	g.drainActions()
	if g.session.Gravity() {
		g.logger.Debug("piece locked by gravity", slog.Int("lines", g.session.Lines()))
	}
}

func (g *Game) drainActions() {
	for {
		select {
		case a := <-g.actionCh:
			g.apply(a)
		default:
			return
		}
	}
}

// apply runs a queued command. The caller holds g.mu.
func (g *Game) apply(a action) {
	g.session.Apply(a.cmd)
	if a.reply != nil {
		a.reply <- g.session.Snapshot()
	}
}

// finish stops the ticker and publishes the result of a terminal session.
func (g *Game) finish() {
	g.ticker.Stop()
	g.mu.Lock()
	res, _ := g.session.Result()
	g.cancel()
	g.mu.Unlock()
	g.logger.Info("game finished",
		slog.String("state", res.State.String()),
		slog.Int("score", res.Score),
		slog.Int("lines", res.Lines))
	g.resultCh <- res
}

func (g *Game) notify() {
	select {
	case g.updateCh <- struct{}{}:
	default:
	}
}
