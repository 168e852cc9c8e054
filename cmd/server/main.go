package main

import (
	"blockfall/server"
	"blockfall/tetris"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
)

func main() {
	addr := flag.String("addr", ":9000", "address to listen on")
	configPath := flag.String("config", "", "YAML file overriding the default game settings")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg := tetris.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = tetris.LoadConfig(*configPath); err != nil {
			logger.Error("unable to load config", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("unable to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	lis, err := net.Listen("tcp", *addr)
	if err != nil {
		logger.Error("failed to listen", slog.String("addr", *addr), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	server.Register(s, srv)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		srv.Shutdown()
		s.GracefulStop()
	}()

	logger.Info("starting server", slog.String("addr", lis.Addr().String()))
	if err := s.Serve(lis); err != nil {
		logger.Error("failed to serve", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
