package terminal

import (
	"blockfall/server"
	"blockfall/tetris"
	"context"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

func TestRemote(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := tetris.DefaultConfig()
	cfg.BaseInterval = time.Hour
	cfg.MinInterval = time.Hour
	srv, err := server.New(cfg, logger)
	if err != nil {
		t.Fatalf("unable to create server: %v", err)
	}

	lis := bufconn.Listen(1024 * 1024)
	s := grpc.NewServer()
	server.Register(s, srv)
	go s.Serve(lis)
	defer s.Stop()

	conn, err := grpc.NewClient("passthrough:///bufnet", grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return lis.Dial()
	}), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("unable to connect: %v", err)
	}
	defer conn.Close()

	remote := NewRemote(conn, logger)
	remote.Action(tetris.HardDrop) // dropped, nothing is running
	if err := remote.Start(tetris.Config{}); err != nil {
		t.Fatalf("unable to start: %v", err)
	}
	defer remote.Stop()

	eventually(t, func() bool { return remote.Read().State == tetris.Running })
	remote.Action(tetris.HardDrop)
	eventually(t, func() bool {
		n := 0
		for _, row := range remote.Read().Board {
			for _, k := range row {
				if k != tetris.Empty {
					n++
				}
			}
		}
		return n == 4
	})
}
