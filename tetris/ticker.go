package tetris

import "time"

// Ticker is the periodic gravity source driving a Game.
type Ticker interface {
	C() <-chan time.Time
	Reset(time.Duration)
	Stop()
}

type wrappedTicker struct {
	ticker *time.Ticker
}

// newWrappedTicker returns a stopped ticker; Game resets it on Start.
func newWrappedTicker() *wrappedTicker {
	t := time.NewTicker(time.Hour)
	t.Stop()
	return &wrappedTicker{ticker: t}
}

func (t *wrappedTicker) C() <-chan time.Time   { return t.ticker.C }
func (t *wrappedTicker) Stop()                 { t.ticker.Stop() }
func (t *wrappedTicker) Reset(d time.Duration) { t.ticker.Reset(d) }
