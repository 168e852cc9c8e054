package terminal

import (
	"blockfall/server"
	"blockfall/tetris"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Remote plays a session hosted by a blockfall server. The server's config
// applies; the one given to Start is ignored.
type Remote struct {
	client *server.Client
	logger *slog.Logger

	mu     sync.RWMutex
	id     string
	snap   tetris.Snapshot
	cancel context.CancelFunc
	wg     sync.WaitGroup

	actionCh chan tetris.Command
	updateCh chan struct{}
	resultCh chan tetris.Result
}

var _ tetrisGame = (*Remote)(nil)

func NewRemote(cc grpc.ClientConnInterface, l *slog.Logger) *Remote {
	return &Remote{
		client:   server.NewClient(cc),
		logger:   l,
		actionCh: make(chan tetris.Command, 16),
		updateCh: make(chan struct{}, 1),
		resultCh: make(chan tetris.Result, 1),
	}
}

func (r *Remote) Start(tetris.Config) error {
	r.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	id, err := r.client.Create(ctx)
	if err != nil {
		cancel()
		return err
	}
	w, err := r.client.Watch(ctx, id)
	if err != nil {
		cancel()
		r.closeSession(id)
		return err
	}

	r.mu.Lock()
	r.id = id
	r.cancel = cancel
	r.mu.Unlock()
	select {
	case <-r.resultCh:
	default:
	}
	for len(r.actionCh) > 0 {
		<-r.actionCh
	}
	r.logger.Info("remote session started", slog.String("session", id))

	r.wg.Add(2)
	go r.watch(w)
	go r.send(ctx, id)
	return nil
}

func (r *Remote) Stop() {
	r.mu.Lock()
	cancel, id := r.cancel, r.id
	r.cancel = nil
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	r.wg.Wait()
	r.closeSession(id)
}

func (r *Remote) Action(c tetris.Command) {
	r.mu.RLock()
	running := r.cancel != nil
	r.mu.RUnlock()
	if !running {
		return
	}
	select {
	case r.actionCh <- c:
	default:
		r.logger.Debug("remote action dropped", slog.String("command", string(c)))
	}
}

func (r *Remote) Read() tetris.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}

func (r *Remote) Updates() <-chan struct{} { return r.updateCh }

func (r *Remote) Results() <-chan tetris.Result { return r.resultCh }

func (r *Remote) watch(w *server.WatchStream) {
	defer r.wg.Done()
	reported := false
	for {
		snap, err := w.Recv()
		if err != nil {
			if !errors.Is(err, io.EOF) && status.Code(err) != codes.Canceled {
				r.logger.Error("unable to receive snapshot", slog.String("error", err.Error()))
			}
			return
		}
		r.mu.Lock()
		r.snap = snap
		r.mu.Unlock()

		select {
		case r.updateCh <- struct{}{}:
		default:
		}
		if snap.State.Terminal() && !reported {
			reported = true
			r.resultCh <- tetris.Result{State: snap.State, Score: snap.Score, Lines: snap.Lines}
		}
	}
}

func (r *Remote) send(ctx context.Context, id string) {
	defer r.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-r.actionCh:
			_, err := r.client.Command(ctx, id, c)
			switch status.Code(err) {
			case codes.OK, codes.FailedPrecondition, codes.Canceled:
			default:
				r.logger.Error("unable to send command",
					slog.String("command", string(c)),
					slog.String("error", err.Error()))
			}
		}
	}
}

func (r *Remote) closeSession(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := r.client.Close(ctx, id); err != nil && status.Code(err) != codes.NotFound {
		r.logger.Error("unable to close remote session", slog.String("session", id), slog.String("error", err.Error()))
	}
}
