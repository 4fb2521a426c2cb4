// Package jobs runs reviews: the streaming pipeline, the webhook job and the
// worker pool that executes queued jobs.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sevigo/pr-stream/internal/config"
	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/display"
	"github.com/sevigo/pr-stream/internal/github"
	"github.com/sevigo/pr-stream/internal/review"
	"github.com/sevigo/pr-stream/internal/storage"
)

// InstallationClientFactory returns a client authenticated as a GitHub App
// installation together with its access token.
type InstallationClientFactory func(ctx context.Context, installationID int64) (github.Client, string, error)

// NewInstallationClientFactory builds installation clients from the GitHub App settings in cfg.
func NewInstallationClientFactory(cfg *config.Config, logger *slog.Logger) InstallationClientFactory {
	return func(ctx context.Context, installationID int64) (github.Client, string, error) {
		return github.CreateInstallationClient(ctx, cfg.GitHub, installationID, logger)
	}
}

// ReviewJob reviews a pull request in response to a "/review" comment and
// posts the result back as a review comment.
type ReviewJob struct {
	cfg          *config.Config
	newClient    InstallationClientFactory
	newCompleter CompleterFactory
	prompts      *review.PromptManager
	store        storage.Store
	logger       *slog.Logger
}

// NewReviewJob creates a ReviewJob. store may be nil when review history is disabled.
func NewReviewJob(cfg *config.Config, newClient InstallationClientFactory, newCompleter CompleterFactory, prompts *review.PromptManager, store storage.Store, logger *slog.Logger) core.Job {
	if cfg == nil {
		panic("config cannot be nil")
	}
	if newClient == nil || newCompleter == nil {
		panic("client factories cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &ReviewJob{
		cfg:          cfg,
		newClient:    newClient,
		newCompleter: newCompleter,
		prompts:      prompts,
		store:        store,
		logger:       logger,
	}
}

// Run executes the review for event.
func (j *ReviewJob) Run(ctx context.Context, event *core.ReviewEvent) error {
	if err := validateEvent(event); err != nil {
		j.logger.Error("input validation failed", "error", err)
		return fmt.Errorf("input validation failed: %w", err)
	}

	req := event.Request
	logger := j.logger.With("repo", req.FullName(), "pr", req.PRNumber, "commenter", event.Commenter)
	logger.Info("starting review job")

	gh, token, err := j.newClient(ctx, event.InstallationID)
	if err != nil {
		logger.Error("failed to create GitHub client", "error", err)
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	runCfg := *j.cfg
	runCfg.GitHub.Token = token
	pipeline := NewPipeline(&runCfg, gh, j.newCompleter, j.prompts, logger)

	result, err := pipeline.Run(ctx, req, display.NewLog(logger))
	if err != nil {
		if postErr := pipeline.Submit(ctx, req, failureNotice(err)); postErr != nil {
			logger.Error("failed to post failure notice", "error", postErr)
		}
		return fmt.Errorf("review failed: %w", err)
	}

	if err := pipeline.Submit(ctx, req, github.FormatReviewBody(result)); err != nil {
		logger.Error("failed to post review comment", "error", err)
		return fmt.Errorf("failed to post review comment: %w", err)
	}

	if j.store != nil {
		if err := j.store.SaveReview(ctx, storage.ReviewFromResult(req, result)); err != nil {
			logger.Error("failed to save review history", "error", err)
		}
	}

	logger.Info("review job completed successfully")
	return nil
}

// failureNotice is the comment posted when a triggered review cannot finish.
// Provider messages are not echoed back to the pull request.
func failureNotice(err error) string {
	var msg string
	switch core.KindOf(err) {
	case core.KindNoFiles:
		msg = "All changed files are excluded by the ignore list, nothing to review."
	case core.KindConfig:
		msg = "The review service is not configured for this request."
	case core.KindContextFetch:
		msg = "The pull request could not be loaded."
	case core.KindProvider:
		var pe *core.ProviderError
		if errors.As(err, &pe) {
			msg = fmt.Sprintf("The completion provider rejected the request (status %d).", pe.Status)
		} else {
			msg = "The completion provider did not finish the review."
		}
	default:
		msg = "The review could not be completed."
	}
	return "### 📝 PR Stream Review\n\n⚠️ " + msg
}
