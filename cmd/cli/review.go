package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sevigo/pr-stream/internal/core"
	"github.com/sevigo/pr-stream/internal/display"
	"github.com/sevigo/pr-stream/internal/github"
)

var (
	verbose      bool
	provider     string
	promptFile   string
	submitReview bool
	outputJSON   bool
)

var reviewCmd = &cobra.Command{
	Use:   "review [pr-url]",
	Short: "Stream an AI review of a GitHub pull request",
	Long: `Stream an AI review of a GitHub pull request.

The pull request may be given as a URL or as owner/repo#number. Review text is
written to stdout as it arrives; progress goes to stderr.

Examples:
  prstream review https://github.com/owner/repo/pull/123
  prstream review --provider anthropic owner/repo#123
  prstream review --prompt-file review.prompt --submit owner/repo#123`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	reviewCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show pipeline progress")
	reviewCmd.Flags().StringVarP(&provider, "provider", "p", "", "Completion provider for this run (openai, anthropic)")
	reviewCmd.Flags().StringVar(&promptFile, "prompt-file", "", "Prompt template for this run")
	reviewCmd.Flags().BoolVar(&submitReview, "submit", false, "Post the finished review to the pull request")
	reviewCmd.Flags().BoolVar(&outputJSON, "json", false, "Print the outcome as JSON instead of streaming")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(_ *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req, err := requestFromArg(args[0])
	if err != nil {
		return err
	}
	req.Provider = provider
	if promptFile != "" {
		tmpl, err := os.ReadFile(promptFile)
		if err != nil {
			return fmt.Errorf("failed to read prompt file: %w", err)
		}
		req.PromptTemplate = string(tmpl)
	}

	s, err := newSession(ctx)
	if err != nil {
		return err
	}

	var sink display.Sink = display.NewConsole(os.Stdout, os.Stderr, verbose)
	if outputJSON {
		sink = display.Discard
	} else {
		titleColor.Fprintf(os.Stderr, "📝 Reviewing %s#%d\n", req.FullName(), req.PRNumber)
	}

	handle := display.NewHandle(sink)
	result, err := s.pipeline.Run(ctx, req, handle)
	handle.Close()

	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(core.NewOutcome(result, err)); encErr != nil {
			return encErr
		}
	}
	if err != nil {
		return err
	}

	if submitReview {
		if err := s.pipeline.Submit(ctx, req, github.FormatReviewBody(result)); err != nil {
			return err
		}
		successColor.Fprintln(os.Stderr, "✔ review posted to the pull request")
	}
	return nil
}

func requestFromArg(ref string) (core.ReviewRequest, error) {
	owner, repo, number, err := github.ParsePullRequestURL(ref)
	if err != nil {
		return core.ReviewRequest{}, fmt.Errorf("invalid pull request reference: %w\n\nExpected https://github.com/owner/repo/pull/123 or owner/repo#123", err)
	}
	return core.ReviewRequest{Owner: owner, Repo: repo, PRNumber: number}, nil
}
