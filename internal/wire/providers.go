package wire

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/wire"

	"github.com/sevigo/pr-stream/internal/app"
	"github.com/sevigo/pr-stream/internal/config"
	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/db"
	"github.com/sevigo/pr-stream/internal/github"
	"github.com/sevigo/pr-stream/internal/jobs"
	"github.com/sevigo/pr-stream/internal/logger"
	"github.com/sevigo/pr-stream/internal/review"
	"github.com/sevigo/pr-stream/internal/server"
	"github.com/sevigo/pr-stream/internal/server/handler"
	"github.com/sevigo/pr-stream/internal/storage"
)

// AppSet provides every component of the server.
var AppSet = wire.NewSet(
	app.NewApp,
	server.NewServer,
	config.LoadConfig,
	review.NewPromptManager,
	jobs.NewReviewJob,
	jobs.NewCompleterFactory,
	jobs.NewInstallationClientFactory,
	provideLogger,
	provideHTTPClient,
	provideStore,
	provideDispatcher,
	providePipeline,
	wire.Bind(new(handler.ReviewRunner), new(*jobs.Pipeline)),
)

func provideLogger(cfg *config.Config) *slog.Logger {
	return logger.NewLogger(cfg.Logging, nil)
}

// provideHTTPClient returns the client used for completion requests. There is
// no global timeout; streams are bounded by ai.request_timeout.
func provideHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxConnsPerHost:       10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 2 * time.Minute,
		},
	}
}

// provideStore returns nil when review history is disabled.
func provideStore(cfg *config.Config, logger *slog.Logger) (storage.Store, func(), error) {
	if !cfg.Database.Enabled {
		logger.Info("review history disabled")
		return nil, func() {}, nil
	}
	conn, cleanup, err := db.NewDatabase(&cfg.Database, logger)
	if err != nil {
		return nil, nil, err
	}
	return storage.NewStore(conn.DB), cleanup, nil
}

func provideDispatcher(job core.Job, cfg *config.Config, logger *slog.Logger) core.JobDispatcher {
	return jobs.NewDispatcher(job, cfg.Server.MaxWorkers, cfg.Server.QueueSize, logger)
}

// providePipeline builds the pipeline behind the stream route. Without a
// personal access token the route reports a configuration failure per run.
func providePipeline(ctx context.Context, cfg *config.Config, newCompleter jobs.CompleterFactory, prompts *review.PromptManager, logger *slog.Logger) (*jobs.Pipeline, error) {
	var gh github.Client
	if cfg.GitHub.Token != "" {
		var err error
		gh, err = github.NewPATClient(ctx, cfg.GitHub.Token, cfg.GitHub.BaseURL, logger)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("github.token not set, review streams are unavailable")
	}
	return jobs.NewPipeline(cfg, gh, newCompleter, prompts, logger), nil
}
