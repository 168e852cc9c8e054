package main

import (
	"blockfall/terminal"
	"blockfall/tetris"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/term"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const (
	hideCursor = "\033[2J\033[?25l" // also clear screen
	showCursor = "\033[28;0H\n\r\033[?25h"
)

func main() {
	configPath := flag.String("config", "", "YAML file overriding the default game settings")
	noGhost := flag.Bool("noghost", false, "don't draw where the piece would land")
	debug := flag.String("debug", "", "write debug logs to this file")
	remote := flag.String("remote", "", "play on the blockfall server at this address")
	flag.Parse()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatal("blockfall needs an interactive terminal")
	}

	cfg := tetris.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = tetris.LoadConfig(*configPath); err != nil {
			log.Fatalf("unable to load config: %v", err)
		}
	}

	logger, closeLog, err := newLogger(*debug)
	if err != nil {
		log.Fatalf("unable to open log file: %v", err)
	}
	defer closeLog()

	opts := &terminal.Options{Config: cfg, NoGhost: *noGhost}
	if *remote != "" {
		conn, err := grpc.NewClient(*remote, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			log.Fatalf("unable to create gRPC client: %v", err)
		}
		defer conn.Close()
		opts.Remote = conn
	}

	t, err := terminal.New(logger, opts)
	if err != nil {
		log.Fatalf("unable to start terminal: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Print(hideCursor)
	runErr := t.Run(ctx)
	if err := t.Close(); err != nil {
		logger.Error("unable to close keyboard", slog.String("error", err.Error()))
	}
	fmt.Print(showCursor)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatal(runErr)
	}
}

// newLogger logs to path at debug level, or nowhere when path is empty.
func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	l := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return l, func() { f.Close() }, nil
}
