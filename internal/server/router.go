package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/pr-stream/internal/config"
	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/server/handler"
	"github.com/sevigo/pr-stream/internal/storage"
)

// NewRouter creates and configures a new HTTP router with middleware and API routes.
// The review API routes require cfg.Server.APIToken and are not mounted
// without it. The history route additionally needs a non-nil store.
func NewRouter(cfg *config.Config, dispatcher core.JobDispatcher, runner handler.ReviewRunner, store storage.Store, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	apiToken := cfg.Server.APIToken
	if apiToken == "" {
		logger.Warn("server.api_token is not set; review stream and history routes are disabled")
	}

	r.Route("/api/v1", func(r chi.Router) {
		if apiToken != "" {
			r.Group(func(r chi.Router) {
				r.Use(handler.RequireBearer(apiToken))

				// Streams outlive the request timeout.
				r.Get("/reviews/{owner}/{repo}/{number}/stream", handler.NewStreamHandler(runner, logger).Handle)

				if store != nil {
					r.With(middleware.Timeout(60*time.Second)).
						Get("/reviews/{owner}/{repo}/{number}/latest", handler.NewHistoryHandler(store, logger).Latest)
				}
			})
		}

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			webhookHandler := handler.NewWebhookHandler(cfg.GitHub.WebhookSecret, dispatcher, logger)
			r.Post("/webhook/github", webhookHandler.Handle)
		})
	})

	return r
}
