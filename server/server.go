// Package server hosts tetris games over gRPC. Each session owns a
// tetris.Game; commands run on the game loop and watchers get a snapshot
// after every update.
package server

import (
	"blockfall/tetris"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrUnknownCommand  = errors.New("unknown command")
)

type session struct {
	id   string
	game *tetris.Game

	mu   sync.Mutex
	subs map[chan struct{}]struct{}

	// over is closed once the run ended or the session was closed.
	over     chan struct{}
	overOnce sync.Once
	cancel   context.CancelFunc
}

func newSession(id string, g *tetris.Game) *session {
	return &session{
		id:   id,
		game: g,
		subs: make(map[chan struct{}]struct{}),
		over: make(chan struct{}),
	}
}

// relay fans the game's update signals out to every watcher until the run
// ends or ctx is done. finished runs once the run ended on its own.
func (s *session) relay(ctx context.Context, l *slog.Logger, finished func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.game.Updates():
			s.broadcast()
		case res := <-s.game.Results():
			l.Info("session finished",
				slog.String("session", s.id),
				slog.String("state", res.State.String()),
				slog.Int("score", res.Score))
			s.finish()
			finished()
			return
		}
	}
}

func (s *session) broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *session) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *session) unsubscribe(ch chan struct{}) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
}

func (s *session) finish() {
	s.overOnce.Do(func() { close(s.over) })
}

func (s *session) close() {
	s.cancel()
	s.game.Stop()
	s.finish()
}

// finishedTTL is how long a won or lost session stays readable before the
// server forgets it.
const finishedTTL = time.Minute

type Server struct {
	config tetris.Config
	logger *slog.Logger
	ttl    time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

var _ SessionsServer = (*Server)(nil)

// New returns a Server starting every session with cfg. A nil logger
// discards output.
func New(cfg tetris.Config, l *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		config:   cfg,
		logger:   l,
		ttl:      finishedTTL,
		sessions: make(map[string]*session),
	}, nil
}

func (s *Server) Create(_ context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	id := uuid.New().String()
	g := tetris.NewGame(s.logger.With(slog.String("session", id)))
	if err := g.Start(s.config); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to start game: %v", err)
	}
	sess := newSession(id, g)
	ctx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	go sess.relay(ctx, s.logger, func() {
		time.AfterFunc(s.ttl, func() { s.evict(sess) })
	})

	s.mu.Lock()
	s.sessions[id] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.logger.Info("session created", slog.String("session", id), slog.Int("sessions", n))
	return wrapperspb.String(id), nil
}

func (s *Server) Command(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := req.GetFields()
	sess, err := s.session(f["session_id"].GetStringValue())
	if err != nil {
		return nil, err
	}
	name := f["command"].GetStringValue()
	c, ok := tetris.ParseCommand(name)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "%v: %q", ErrUnknownCommand, name)
	}
	snap, err := sess.game.Do(ctx, c)
	switch {
	case errors.Is(err, tetris.ErrNotRunning):
		return nil, status.Errorf(codes.FailedPrecondition, "session %s: %v", sess.id, err)
	case err != nil:
		return nil, status.FromContextError(err).Err()
	}
	return encode(snap)
}

func (s *Server) Snapshot(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	sess, err := s.session(req.GetValue())
	if err != nil {
		return nil, err
	}
	return encode(sess.game.Read())
}

// Watch sends the current snapshot and then one after every update. The
// stream ends with the terminal snapshot.
func (s *Server) Watch(req *wrapperspb.StringValue, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	sess, err := s.session(req.GetValue())
	if err != nil {
		return err
	}
	ch := sess.subscribe()
	defer sess.unsubscribe(ch)

	// send reports whether the snapshot it sent was terminal.
	send := func() (bool, error) {
		snap := sess.game.Read()
		msg, err := encode(snap)
		if err != nil {
			return false, err
		}
		return snap.State.Terminal(), stream.Send(msg)
	}
	if done, err := send(); err != nil || done {
		return err
	}
	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
			if done, err := send(); err != nil || done {
				return err
			}
		case <-sess.over:
			_, err := send()
			return err
		}
	}
}

func (s *Server) Close(_ context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	s.mu.Lock()
	sess, ok := s.sessions[req.GetValue()]
	delete(s.sessions, req.GetValue())
	s.mu.Unlock()
	if !ok {
		return nil, notFound(req.GetValue())
	}
	sess.close()
	s.logger.Info("session closed", slog.String("session", sess.id))
	return &emptypb.Empty{}, nil
}

// Shutdown stops every session.
func (s *Server) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.close()
	}
	s.logger.Debug("server sessions stopped", slog.Int("sessions", len(sessions)))
}

// evict forgets a finished session unless it was closed or replaced.
func (s *Server) evict(sess *session) {
	s.mu.Lock()
	cur, ok := s.sessions[sess.id]
	if ok && cur == sess {
		delete(s.sessions, sess.id)
	}
	s.mu.Unlock()
	if ok && cur == sess {
		sess.close()
		s.logger.Debug("finished session evicted", slog.String("session", sess.id))
	}
}

func (s *Server) session(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, notFound(id)
	}
	return sess, nil
}

func notFound(id string) error {
	return status.Errorf(codes.NotFound, "%v: %q", ErrSessionNotFound, id)
}

func encode(snap tetris.Snapshot) (*structpb.Struct, error) {
	msg, err := encodeSnapshot(snap)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode snapshot: %v", err)
	}
	return msg, nil
}
