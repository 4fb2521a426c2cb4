package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sevigo/pr-stream/internal/wire"
)

func main() {
	if err := run(); err != nil {
		slog.Error("pr-stream server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := wire.InitializeApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize pr-stream: %w", err)
	}
	defer cleanup()

	slog.Info("pr-stream server initialized, waiting for review requests")

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- app.Start()
	}()

	var startErr error
	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining review jobs")
	case err := <-serveErr:
		if err != nil {
			startErr = fmt.Errorf("http server: %w", err)
		}
	}

	if err := app.Stop(); err != nil {
		return errors.Join(startErr, fmt.Errorf("failed to stop pr-stream: %w", err))
	}
	return startErr
}
