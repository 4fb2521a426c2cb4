// Package app holds the running PR Stream service: the HTTP server, the job
// dispatcher and the optional review history database.
package app

import (
	"log/slog"

	"github.com/sevigo/pr-stream/internal/config"
	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/server"
)

// App holds the main application components.
type App struct {
	cfg        *config.Config
	server     *server.Server
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewApp assembles an App from its wired components.
func NewApp(cfg *config.Config, srv *server.Server, dispatcher core.JobDispatcher, logger *slog.Logger) *App {
	return &App{
		cfg:        cfg,
		server:     srv,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.logger.Info("starting PR Stream",
		"server_port", a.cfg.Server.Port,
		"max_workers", a.cfg.Server.MaxWorkers,
		"provider", a.cfg.AI.Provider,
		"history", a.cfg.Database.Enabled,
	)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly. The HTTP server stops first so no
// new jobs arrive, then in-flight jobs are drained.
func (a *App) Stop() error {
	a.logger.Info("shutting down PR Stream services")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.dispatcher.Stop()

	if serverErr != nil {
		a.logger.Error("PR Stream stopped with errors", "error", serverErr)
		return serverErr
	}

	a.logger.Info("PR Stream stopped successfully")
	return nil
}
